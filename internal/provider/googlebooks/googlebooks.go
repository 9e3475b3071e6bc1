package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// Client enriches book records with data the Open Library search does not
// return. It is only ever used best-effort at commit time.
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

// Enrichment is the subset of Google Books volume data worth keeping.
type Enrichment struct {
	Description   string
	PageCount     int
	AverageRating float64
	Thumbnail     string
	Publisher     string
	Categories    []string
}

// Enrich looks up a single volume by ISBN, or by title and author when no
// ISBN is known. Returns nil when nothing usable is found.
func (c *Client) Enrich(ctx context.Context, isbn, title, author string) (*Enrichment, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	var query string
	switch {
	case isbn != "":
		query = "isbn:" + isbn
	case title != "" && author != "":
		query = "intitle:" + url.QueryEscape(title) + "+inauthor:" + url.QueryEscape(author)
	default:
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s?q=%s&key=%s&maxResults=1&printType=books", c.baseURL, query, c.apiKey)
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

	var result struct {
		Items []struct {
			VolumeInfo struct {
				Description   string   `json:"description"`
				PageCount     int      `json:"pageCount"`
				AverageRating float64  `json:"averageRating"`
				Publisher     string   `json:"publisher"`
				Categories    []string `json:"categories"`
				ImageLinks    struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	info := result.Items[0].VolumeInfo
	thumb := strings.Replace(info.ImageLinks.Thumbnail, "http:", "https:", 1)
	thumb = strings.ReplaceAll(thumb, "&edge=curl", "")

	return &Enrichment{
		Description:   info.Description,
		PageCount:     info.PageCount,
		AverageRating: info.AverageRating,
		Thumbnail:     thumb,
		Publisher:     info.Publisher,
		Categories:    info.Categories,
	}, nil
}
