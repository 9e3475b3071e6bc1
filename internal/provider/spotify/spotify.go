package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	searchLimit = 20
	maxResults  = 8
)

// junkMarkers flag the cover-band noise Spotify mixes into album search.
var junkMarkers = []string{"karaoke", "tribute to", "cover version"}

// Client searches Spotify albums using the client-credentials flow. The
// access token is cached per process and refreshed just before expiry.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string
	client       *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func New(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "spotify" }

func (c *Client) Types() []models.MediaType {
	return []models.MediaType{models.MediaTypeAlbum}
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("Spotify credentials not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Spotify auth returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	c.token = body.AccessToken
	// Renew half a minute early so an in-flight search never carries a
	// token that expires mid-request.
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - 30*time.Second)
	return c.token, nil
}

type album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AlbumType   string `json:"album_type"`
	ReleaseDate string `json:"release_date"`
	Popularity  int    `json:"popularity"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type searchResponse struct {
	Albums struct {
		Items []album `json:"items"`
	} `json:"albums"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.MediaItem, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "album")
	params.Set("limit", fmt.Sprintf("%d", searchLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

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

	var items []models.MediaItem
	for _, a := range result.Albums.Items {
		// Singles and compilations are not primary album entries.
		if a.AlbumType != "album" || isJunk(a.Name) {
			continue
		}
		if len(items) >= maxResults {
			break
		}
		items = append(items, mapAlbum(a))
	}
	return items, nil
}

func isJunk(title string) bool {
	t := strings.ToLower(title)
	for _, marker := range junkMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func mapAlbum(a album) models.MediaItem {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}

	var cover *string
	if len(a.Images) > 0 && a.Images[0].URL != "" {
		// Spotify lists images largest first.
		u := a.Images[0].URL
		cover = &u
	}

	popularity := float64(a.Popularity)

	return models.MediaItem{
		ProviderID:  a.ID,
		Type:        models.MediaTypeAlbum,
		Title:       a.Name,
		CoverURL:    cover,
		ReleaseYear: yearOf(a.ReleaseDate),
		Popularity:  &popularity,
		Meta: models.Metadata{Album: &models.AlbumMeta{
			Artist:     strings.Join(names, ", "),
			SpotifyURL: a.ExternalURLs.Spotify,
			Subtype:    a.AlbumType,
		}},
	}
}

type albumDetails struct {
	Genres      []string `json:"genres"`
	Label       string   `json:"label"`
	TotalTracks int      `json:"total_tracks"`
	Artists     []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// GetDetails fetches genres, label and track count for one album.
func (c *Client) GetDetails(ctx context.Context, externalID string, _ models.MediaType) (*provider.Details, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/albums/"+url.PathEscape(externalID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var r albumDetails
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	d := &provider.Details{
		Genres:      r.Genres,
		Label:       r.Label,
		TotalTracks: r.TotalTracks,
	}
	if len(r.Artists) > 0 {
		names := make([]string, 0, len(r.Artists))
		for _, a := range r.Artists {
			names = append(names, a.Name)
		}
		d.Artist = strings.Join(names, ", ")
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
