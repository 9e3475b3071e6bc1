package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rezmii/media-library/internal/models"
)

const (
	defaultBaseURL = "https://api.rawg.io/api"

	// RAWG returns up to 40 raw results; after the quality filter the list
	// is capped to keep downstream ranking cheap.
	pageSize   = 40
	maxResults = 15
)

// Client searches the RAWG video game catalog.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "rawg" }

func (c *Client) Types() []models.MediaType {
	return []models.MediaType{models.MediaTypeGame}
}

type searchResponse struct {
	Results []struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		BackgroundImage string `json:"background_image"`
		Released        string `json:"released"`
		ParentPlatforms []struct {
			Platform struct {
				Name string `json:"name"`
			} `json:"platform"`
		} `json:"parent_platforms"`
		Rating     float64 `json:"rating"`
		Added      int     `json:"added"`
		Metacritic *int    `json:"metacritic"`
		Playtime   int     `json:"playtime"`
		Genres     []struct {
			Name string `json:"name"`
		} `json:"genres"`
	} `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.MediaItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("RAWG API key not configured")
	}

	reqURL := fmt.Sprintf("%s/games?key=%s&search=%s&page_size=%d",
		c.baseURL, c.apiKey, url.QueryEscape(query), pageSize)

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

	var items []models.MediaItem
	for _, game := range result.Results {
		// Unrated entries are fan uploads, demos and other junk.
		if game.Rating <= 0 {
			continue
		}
		if len(items) >= maxResults {
			break
		}

		platforms := make([]string, 0, len(game.ParentPlatforms))
		for _, p := range game.ParentPlatforms {
			platforms = append(platforms, p.Platform.Name)
		}
		genres := make([]string, 0, len(game.Genres))
		for _, g := range game.Genres {
			genres = append(genres, g.Name)
		}

		var cover *string
		if game.BackgroundImage != "" {
			u := game.BackgroundImage
			cover = &u
		}

		popularity := float64(game.Added) / 100
		if popularity > 100 {
			popularity = 100
		}

		items = append(items, models.MediaItem{
			ProviderID:  fmt.Sprintf("%d", game.ID),
			Type:        models.MediaTypeGame,
			Title:       game.Name,
			CoverURL:    cover,
			ReleaseYear: yearOf(game.Released),
			Popularity:  &popularity,
			Tags:        genres,
			Meta: models.Metadata{Game: &models.GameMeta{
				Platforms:  platforms,
				Categories: genres,
				RawgRating: fmt.Sprintf("%.2f", game.Rating),
				Metacritic: game.Metacritic,
				Playtime:   game.Playtime,
			}},
		})
	}
	return items, nil
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
