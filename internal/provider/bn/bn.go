package bn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// data.bn.org.pl is the Polish National Library bibliographic API.
const defaultBaseURL = "https://data.bn.org.pl/api/institutions/bibs.json"

type Client struct {
	baseURL string
	client  *http.Client
}

func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Book is a national-bibliography record for a single title.
type Book struct {
	Publisher string
	Place     string
	ISBN      string
}

// FindBook returns the first bibliographic record matching title (and
// optionally author), or nil when the catalog has none.
func (c *Client) FindBook(ctx context.Context, title, author string) (*Book, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", "1")
	if author != "" {
		params.Set("author", author)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
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
		Bibs []struct {
			Publisher string `json:"publisher"`
			Place     string `json:"place"`
			ISBNIssn  string `json:"isbnIssn"`
		} `json:"bibs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Bibs) == 0 {
		return nil, nil
	}

	b := result.Bibs[0]
	return &Book{Publisher: b.Publisher, Place: b.Place, ISBN: b.ISBNIssn}, nil
}
