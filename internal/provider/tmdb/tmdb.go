package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p/w500"

	maxResults = 8
	maxCast    = 5
)

// Client searches TMDB for movies and TV series and can fetch rich details
// (genres, director, cast) for a single title.
type Client struct {
	apiKey   string
	baseURL  string
	imageURL string
	client   *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		imageURL: defaultImageURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "tmdb" }

func (c *Client) Types() []models.MediaType {
	return []models.MediaType{models.MediaTypeMovie, models.MediaTypeSeries}
}

type multiResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`

	// Person entities carry the media they are known for.
	KnownFor []multiResult `json:"known_for"`
}

type searchResponse struct {
	Results []multiResult `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.MediaItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TMDB API key not configured")
	}

	reqURL := fmt.Sprintf("%s/search/multi?api_key=%s&query=%s&include_adult=false",
		c.baseURL, c.apiKey, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	candidates := flatten(result.Results)

	filtered := candidates[:0]
	for _, r := range candidates {
		isMedia := r.MediaType == "movie" || r.MediaType == "tv"
		popularEnough := r.VoteCount > 10 || r.Popularity > 5
		if isMedia && popularEnough && r.PosterPath != "" {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Popularity > filtered[j].Popularity
	})
	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}

	items := make([]models.MediaItem, 0, len(filtered))
	for _, r := range filtered {
		items = append(items, c.mapResult(r))
	}
	return items, nil
}

// flatten hoists "known for" media out of person entities and de-duplicates
// by TMDB id, keeping first occurrence order.
func flatten(results []multiResult) []multiResult {
	var flat []multiResult
	seen := make(map[string]struct{}, len(results))

	add := func(r multiResult) {
		key := r.MediaType + ":" + fmt.Sprintf("%d", r.ID)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		flat = append(flat, r)
	}

	for _, r := range results {
		if r.MediaType == "person" {
			for _, k := range r.KnownFor {
				add(k)
			}
			continue
		}
		add(r)
	}
	return flat
}

func (c *Client) mapResult(r multiResult) models.MediaItem {
	isMovie := r.MediaType == "movie"

	title := r.Title
	date := r.ReleaseDate
	mediaType := models.MediaTypeMovie
	if !isMovie {
		title = r.Name
		date = r.FirstAirDate
		mediaType = models.MediaTypeSeries
	}

	var cover *string
	if r.PosterPath != "" {
		u := c.imageURL + r.PosterPath
		cover = &u
	}

	popularity := r.Popularity
	if popularity > 100 {
		popularity = 100
	}

	return models.MediaItem{
		ProviderID:  fmt.Sprintf("%d", r.ID),
		Type:        mediaType,
		Title:       title,
		CoverURL:    cover,
		ReleaseYear: yearOf(date),
		Popularity:  &popularity,
		Meta: models.Metadata{Film: &models.FilmMeta{
			Overview:     r.Overview,
			OriginalType: r.MediaType,
		}},
	}
}

type detailsResponse struct {
	Overview        string `json:"overview"`
	NumberOfSeasons int    `json:"number_of_seasons"`
	Genres          []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// GetDetails fetches genres, director and top cast for one movie or series.
func (c *Client) GetDetails(ctx context.Context, externalID string, mediaType models.MediaType) (*provider.Details, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TMDB API key not configured")
	}

	path := "movie"
	if mediaType == models.MediaTypeSeries {
		path = "tv"
	}
	reqURL := fmt.Sprintf("%s/%s/%s?api_key=%s&append_to_response=credits",
		c.baseURL, path, url.PathEscape(externalID), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var r detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	d := &provider.Details{
		Description: r.Overview,
		Seasons:     r.NumberOfSeasons,
	}
	for _, g := range r.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, crew := range r.Credits.Crew {
		if crew.Job == "Director" {
			d.Director = crew.Name
			break
		}
	}
	for i, cast := range r.Credits.Cast {
		if i >= maxCast {
			break
		}
		d.Cast = append(d.Cast, cast.Name)
	}
	return d, nil
}

func yearOf(date string) string {
	if i := strings.Index(date, "-"); i > 0 {
		return date[:i]
	}
	if len(date) == 4 {
		return date
	}
	return ""
}
