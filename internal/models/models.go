package models

import (
	"encoding/json"
	"strings"
)

// ──────────────────── Enums ────────────────────

type MediaType string

const (
	MediaTypeGame   MediaType = "GAME"
	MediaTypeMovie  MediaType = "MOVIE"
	MediaTypeSeries MediaType = "SERIES"
	MediaTypeAlbum  MediaType = "ALBUM"
	MediaTypeBook   MediaType = "BOOK"

	// MediaTypeAll is a search filter value, never a value an item carries.
	MediaTypeAll MediaType = "ALL"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeGame, MediaTypeMovie, MediaTypeSeries, MediaTypeAlbum, MediaTypeBook:
		return true
	}
	return false
}

// ParseMediaType normalizes a query-string type filter. An empty string
// means no filter and maps to ALL.
func ParseMediaType(s string) (MediaType, bool) {
	t := MediaType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" || t == MediaTypeAll {
		return MediaTypeAll, true
	}
	return t, t.Valid()
}

type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusAbandoned  Status = "ABANDONED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// ──────────────────── Metadata variants ────────────────────

// Each media type carries its own typed metadata. Exactly one variant is
// non-nil on a well-formed item; consumers switch on the item type instead
// of probing an untyped map.

type GameMeta struct {
	Platforms  []string `json:"platforms,omitempty"`
	Categories []string `json:"categories,omitempty"`
	RawgRating string   `json:"rawgRating,omitempty"`
	Metacritic *int     `json:"metacritic,omitempty"`
	Playtime   int      `json:"playtime,omitempty"`
}

type FilmMeta struct {
	Overview     string `json:"overview,omitempty"`
	OriginalType string `json:"originalType,omitempty"` // "movie" or "tv"
}

type AlbumMeta struct {
	Artist     string `json:"artist,omitempty"`
	SpotifyURL string `json:"spotifyUrl,omitempty"`
	Subtype    string `json:"subtype,omitempty"`
}

type BookMeta struct {
	Author       string   `json:"author,omitempty"`
	PageCount    int      `json:"pageCount,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Rating       string   `json:"openLibraryRating,omitempty"`
	RatingsCount int      `json:"ratingsCount,omitempty"`
	Language     string   `json:"language,omitempty"`
}

type Metadata struct {
	Game  *GameMeta  `json:"game,omitempty"`
	Film  *FilmMeta  `json:"film,omitempty"`
	Album *AlbumMeta `json:"album,omitempty"`
	Book  *BookMeta  `json:"book,omitempty"`
}

// Secondary returns the type-specific identity field ranked next to the
// title: artist for albums, author for books.
func (m Metadata) Secondary() string {
	switch {
	case m.Album != nil:
		return m.Album.Artist
	case m.Book != nil:
		return m.Book.Author
	}
	return ""
}

// Description returns the long-form text field, if the type has one.
func (m Metadata) Description() string {
	if m.Film != nil {
		return m.Film.Overview
	}
	return ""
}

// Flatten converts the variant into the open key-value bag the storage
// collaborator persists. The reverse boundary is MetadataFromMap.
func (m Metadata) Flatten() map[string]interface{} {
	out := map[string]interface{}{}
	switch {
	case m.Game != nil:
		if len(m.Game.Platforms) > 0 {
			out["platforms"] = m.Game.Platforms
		}
		if len(m.Game.Categories) > 0 {
			out["categories"] = m.Game.Categories
		}
		if m.Game.RawgRating != "" {
			out["rawgRating"] = m.Game.RawgRating
		}
		if m.Game.Metacritic != nil {
			out["metacritic"] = *m.Game.Metacritic
		}
		if m.Game.Playtime > 0 {
			out["playtime"] = m.Game.Playtime
		}
	case m.Film != nil:
		if m.Film.Overview != "" {
			out["overview"] = m.Film.Overview
		}
		if m.Film.OriginalType != "" {
			out["originalType"] = m.Film.OriginalType
		}
	case m.Album != nil:
		if m.Album.Artist != "" {
			out["artist"] = m.Album.Artist
		}
		if m.Album.SpotifyURL != "" {
			out["spotifyUrl"] = m.Album.SpotifyURL
		}
		if m.Album.Subtype != "" {
			out["subtype"] = m.Album.Subtype
		}
	case m.Book != nil:
		if m.Book.Author != "" {
			out["author"] = m.Book.Author
		}
		if m.Book.PageCount > 0 {
			out["pageCount"] = m.Book.PageCount
		}
		if len(m.Book.Categories) > 0 {
			out["categories"] = m.Book.Categories
		}
		if m.Book.Rating != "" {
			out["openLibraryRating"] = m.Book.Rating
		}
		if m.Book.RatingsCount > 0 {
			out["ratingsCount"] = m.Book.RatingsCount
		}
		if m.Book.Language != "" {
			out["language"] = m.Book.Language
		}
	}
	return out
}

// MetadataFromMap rebuilds the typed variant from a persisted metadata bag.
// Unknown keys are ignored; missing keys leave zero values.
func MetadataFromMap(t MediaType, m map[string]interface{}) Metadata {
	switch t {
	case MediaTypeGame:
		return Metadata{Game: &GameMeta{
			Platforms:  stringSlice(m["platforms"]),
			Categories: stringSlice(m["categories"]),
			RawgRating: str(m["rawgRating"]),
			Metacritic: intPtr(m["metacritic"]),
			Playtime:   integer(m["playtime"]),
		}}
	case MediaTypeMovie, MediaTypeSeries:
		return Metadata{Film: &FilmMeta{
			Overview:     str(m["overview"]),
			OriginalType: str(m["originalType"]),
		}}
	case MediaTypeAlbum:
		return Metadata{Album: &AlbumMeta{
			Artist:     str(m["artist"]),
			SpotifyURL: str(m["spotifyUrl"]),
			Subtype:    str(m["subtype"]),
		}}
	case MediaTypeBook:
		return Metadata{Book: &BookMeta{
			Author:       str(m["author"]),
			PageCount:    integer(m["pageCount"]),
			Categories:   stringSlice(m["categories"]),
			Rating:       str(m["openLibraryRating"]),
			RatingsCount: integer(m["ratingsCount"]),
			Language:     str(m["language"]),
		}}
	}
	return Metadata{}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func integer(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func intPtr(v interface{}) *int {
	if v == nil {
		return nil
	}
	n := integer(v)
	return &n
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ──────────────────── MediaItem ────────────────────

// MediaItem is the unified shape every provider adapter produces and the
// search pipeline returns. ProviderID is the catalog's own identifier and
// stays immutable for the item's lifetime; LibraryID is filled in by
// reconciliation when the item is already owned. The wire field externalId
// carries the library identifier for owned items and the provider
// identifier otherwise, so clients always address the right record.
type MediaItem struct {
	ProviderID  string    `json:"-"`
	LibraryID   string    `json:"-"`
	Type        MediaType `json:"type"`
	Title       string    `json:"title"`
	CoverURL    *string   `json:"coverUrl"`
	ReleaseYear string    `json:"releaseDate,omitempty"`
	Popularity  *float64  `json:"popularityScore,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	InLibrary   bool      `json:"isAdded"`
	Meta        Metadata  `json:"metadata"`

	// Library-only fields, populated when listing owned records.
	Status  *Status `json:"status,omitempty"`
	Rating  *int    `json:"rating,omitempty"`
	Note    *string `json:"note,omitempty"`
	AddedAt string  `json:"addedAt,omitempty"`
}

// ExternalID is the identifier downstream actions should target.
func (i MediaItem) ExternalID() string {
	if i.InLibrary && i.LibraryID != "" {
		return i.LibraryID
	}
	return i.ProviderID
}

func (i MediaItem) MarshalJSON() ([]byte, error) {
	type alias MediaItem
	return json.Marshal(struct {
		ExternalID string `json:"externalId"`
		alias
	}{i.ExternalID(), alias(i)})
}

func (i *MediaItem) UnmarshalJSON(data []byte) error {
	type alias MediaItem
	aux := struct {
		ExternalID string `json:"externalId"`
		*alias
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ProviderID = aux.ExternalID
	return nil
}
