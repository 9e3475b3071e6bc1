package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rezmii/media-library/internal/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key")
	c.baseURL = srv.URL
	return c
}

func TestSearchFlattensPersonEntities(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		fmt.Fprint(w, `{
			"results": [
				{
					"id": 525, "media_type": "person", "name": "Christopher Nolan",
					"known_for": [
						{"id": 27205, "media_type": "movie", "title": "Inception",
						 "poster_path": "/incep.jpg", "release_date": "2010-07-15",
						 "vote_count": 34000, "popularity": 80.5},
						{"id": 157336, "media_type": "movie", "title": "Interstellar",
						 "poster_path": "/inter.jpg", "release_date": "2014-11-05",
						 "vote_count": 32000, "popularity": 120.0}
					]
				},
				{"id": 27205, "media_type": "movie", "title": "Inception",
				 "poster_path": "/incep.jpg", "release_date": "2010-07-15",
				 "vote_count": 34000, "popularity": 80.5},
				{"id": 1, "media_type": "movie", "title": "Inception Fan Cut",
				 "poster_path": "", "vote_count": 5000, "popularity": 50},
				{"id": 2, "media_type": "movie", "title": "Obscure Short",
				 "poster_path": "/short.jpg", "vote_count": 3, "popularity": 0.4},
				{"id": 1399, "media_type": "tv", "name": "Game of Thrones",
				 "poster_path": "/got.jpg", "first_air_date": "2011-04-17",
				 "vote_count": 22000, "popularity": 300.1}
			]
		}`)
	})

	items, err := c.Search(context.Background(), "nolan")
	require.NoError(t, err)
	require.Len(t, items, 3, "no poster and low engagement are filtered, duplicates collapse")

	// Sorted by popularity, capped at 100.
	assert.Equal(t, "Game of Thrones", items[0].Title)
	assert.Equal(t, models.MediaTypeSeries, items[0].Type)
	assert.InDelta(t, 100.0, *items[0].Popularity, 1e-9)

	assert.Equal(t, "Interstellar", items[1].Title)
	assert.Equal(t, "Inception", items[2].Title)
	assert.Equal(t, "27205", items[2].ProviderID)
	assert.Equal(t, "2010", items[2].ReleaseYear)
	require.NotNil(t, items[2].Meta.Film)
	assert.Equal(t, "movie", items[2].Meta.Film.OriginalType)
}

func TestSearchCapsResults(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [`)
		for i := 0; i < 12; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id": %d, "media_type": "movie", "title": "Movie %d",
				"poster_path": "/p.jpg", "vote_count": 100, "popularity": %d}`, i+1, i+1, i+1)
		}
		fmt.Fprint(w, `]}`)
	})

	items, err := c.Search(context.Background(), "movie")
	require.NoError(t, err)
	assert.Len(t, items, maxResults)
}

func TestGetDetails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		fmt.Fprint(w, `{
			"overview": "A thief who steals corporate secrets.",
			"genres": [{"name": "Science Fiction"}, {"name": "Action"}],
			"credits": {
				"cast": [
					{"name": "Leonardo DiCaprio"}, {"name": "Joseph Gordon-Levitt"},
					{"name": "Elliot Page"}, {"name": "Tom Hardy"},
					{"name": "Ken Watanabe"}, {"name": "Cillian Murphy"}
				],
				"crew": [
					{"name": "Emma Thomas", "job": "Producer"},
					{"name": "Christopher Nolan", "job": "Director"}
				]
			}
		}`)
	})

	d, err := c.GetDetails(context.Background(), "27205", models.MediaTypeMovie)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, []string{"Science Fiction", "Action"}, d.Genres)
	assert.Equal(t, "Christopher Nolan", d.Director)
	assert.Len(t, d.Cast, maxCast, "cast list is truncated")
	assert.NotContains(t, d.Cast, "Cillian Murphy")
}

func TestGetDetailsSeriesPath(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399", r.URL.Path)
		fmt.Fprint(w, `{"number_of_seasons": 8, "genres": [{"name": "Drama"}], "credits": {}}`)
	})

	d, err := c.GetDetails(context.Background(), "1399", models.MediaTypeSeries)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 8, d.Seasons)
}

func TestGetDetailsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	d, err := c.GetDetails(context.Background(), "0", models.MediaTypeMovie)
	assert.NoError(t, err)
	assert.Nil(t, d)
}
