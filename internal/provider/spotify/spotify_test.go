package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rezmii/media-library/internal/models"
)

func testClient(t *testing.T, api http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()

	var tokenRequests atomic.Int64
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	t.Cleanup(auth.Close)

	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	c := New("id", "secret")
	c.authURL = auth.URL
	c.baseURL = apiSrv.URL
	return c, &tokenRequests
}

const searchPayload = `{
	"albums": {
		"items": [
			{
				"id": "alb1", "name": "OK Computer", "album_type": "album",
				"release_date": "1997-05-21", "popularity": 85,
				"images": [{"url": "https://i.scdn.co/large.jpg"}, {"url": "https://i.scdn.co/small.jpg"}],
				"artists": [{"name": "Radiohead"}],
				"external_urls": {"spotify": "https://open.spotify.com/album/alb1"}
			},
			{
				"id": "alb2", "name": "Creep", "album_type": "single",
				"artists": [{"name": "Radiohead"}]
			},
			{
				"id": "alb3", "name": "A Tribute to Radiohead", "album_type": "album",
				"artists": [{"name": "Some Band"}]
			}
		]
	}
}`

func TestSearch(t *testing.T) {
	c, tokens := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "album", r.URL.Query().Get("type"))
		fmt.Fprint(w, searchPayload)
	})

	items, err := c.Search(context.Background(), "radiohead")
	require.NoError(t, err)
	require.Len(t, items, 1, "singles and tribute albums are filtered out")

	got := items[0]
	assert.Equal(t, "alb1", got.ProviderID)
	assert.Equal(t, models.MediaTypeAlbum, got.Type)
	assert.Equal(t, "1997", got.ReleaseYear)
	require.NotNil(t, got.CoverURL)
	assert.Equal(t, "https://i.scdn.co/large.jpg", *got.CoverURL, "largest image wins")
	require.NotNil(t, got.Meta.Album)
	assert.Equal(t, "Radiohead", got.Meta.Album.Artist)
	assert.Equal(t, "album", got.Meta.Album.Subtype)

	assert.EqualValues(t, 1, tokens.Load())
}

func TestTokenIsReusedAcrossSearches(t *testing.T) {
	c, tokens := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"albums": {"items": []}}`)
	})

	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), "radiohead")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, tokens.Load())
}

func TestGetDetails(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/albums/alb1", r.URL.Path)
		fmt.Fprint(w, `{
			"genres": ["alternative rock"], "label": "Parlophone", "total_tracks": 12,
			"artists": [{"name": "Radiohead"}]
		}`)
	})

	d, err := c.GetDetails(context.Background(), "alb1", models.MediaTypeAlbum)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, []string{"alternative rock"}, d.Genres)
	assert.Equal(t, "Parlophone", d.Label)
	assert.Equal(t, 12, d.TotalTracks)
	assert.Equal(t, "Radiohead", d.Artist)
}

func TestSearchWithoutCredentials(t *testing.T) {
	c := New("", "")
	_, err := c.Search(context.Background(), "radiohead")
	assert.Error(t, err)
}
