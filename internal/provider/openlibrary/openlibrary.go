package openlibrary

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
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org/b/id"

	searchLimit   = 20
	maxCategories = 5

	userAgent = "media-library/1.0"
)

// Client searches the Open Library book catalog. No API key is required,
// but Open Library asks for an identifying User-Agent.
type Client struct {
	baseURL   string
	coversURL string
	client    *http.Client
}

func New() *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		coversURL: defaultCoversURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "openlibrary" }

func (c *Client) Types() []models.MediaType {
	return []models.MediaType{models.MediaTypeBook}
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	PagesMedian      int      `json:"number_of_pages_median"`
	RatingsAverage   float64  `json:"ratings_average"`
	RatingsCount     int      `json:"ratings_count"`
	Language         []string `json:"language"`
	Subject          []string `json:"subject"`
}

type searchResponse struct {
	Docs []doc `json:"docs"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.MediaItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", "pl")
	params.Set("limit", fmt.Sprintf("%d", searchLimit))
	params.Set("fields", "key,title,author_name,cover_i,first_publish_year,number_of_pages_median,ratings_average,ratings_count,language,subject")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

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

	items := make([]models.MediaItem, 0, len(result.Docs))
	for _, d := range result.Docs {
		items = append(items, mapDoc(c.coversURL, d))
	}
	return items, nil
}

func mapDoc(coversURL string, d doc) models.MediaItem {
	id := strings.TrimPrefix(d.Key, "/works/")

	var cover *string
	if d.CoverID > 0 {
		u := fmt.Sprintf("%s/%d-L.jpg", coversURL, d.CoverID)
		cover = &u
	}

	author := strings.Join(d.AuthorName, ", ")
	if author == "" {
		author = "Nieznany autor"
	}

	var rating string
	if d.RatingsAverage > 0 {
		rating = fmt.Sprintf("%.1f", d.RatingsAverage)
	}

	categories := d.Subject
	if len(categories) > maxCategories {
		categories = categories[:maxCategories]
	}

	language := ""
	for _, l := range d.Language {
		if l == "pol" {
			language = "pl"
			break
		}
	}
	if language == "" && len(d.Language) > 0 {
		language = d.Language[0]
	}

	var year string
	if d.FirstPublishYear > 0 {
		year = fmt.Sprintf("%d", d.FirstPublishYear)
	}

	popularity := float64(d.RatingsCount)
	if popularity > 100 {
		popularity = 100
	}

	return models.MediaItem{
		ProviderID:  id,
		Type:        models.MediaTypeBook,
		Title:       d.Title,
		CoverURL:    cover,
		ReleaseYear: year,
		Popularity:  &popularity,
		Tags:        append([]string{"Książka"}, categories...),
		Meta: models.Metadata{Book: &models.BookMeta{
			Author:       author,
			PageCount:    d.PagesMedian,
			Categories:   categories,
			Rating:       rating,
			RatingsCount: d.RatingsCount,
			Language:     language,
		}},
	}
}
