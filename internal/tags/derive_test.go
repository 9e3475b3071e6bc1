package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rezmii/media-library/internal/models"
)

func TestDerive(t *testing.T) {
	t.Run("game", func(t *testing.T) {
		item := models.MediaItem{
			Type:        models.MediaTypeGame,
			ReleaseYear: "2015",
			Meta: models.Metadata{Game: &models.GameMeta{
				Platforms:  []string{"PC", "PlayStation"},
				Categories: []string{"RPG", "PC"}, // overlaps a platform
			}},
		}
		assert.Equal(t, []string{"PC", "PlayStation", "RPG", "2015"}, Derive(item))
	})

	t.Run("film uses the provider type label", func(t *testing.T) {
		item := models.MediaItem{
			Type:        models.MediaTypeSeries,
			ReleaseYear: "2019",
			Meta:        models.Metadata{Film: &models.FilmMeta{OriginalType: "tv"}},
		}
		assert.Equal(t, []string{"tv", "2019"}, Derive(item))
	})

	t.Run("book", func(t *testing.T) {
		item := models.MediaItem{
			Type: models.MediaTypeBook,
			Meta: models.Metadata{Book: &models.BookMeta{Categories: []string{"Fantasy"}}},
		}
		assert.Equal(t, []string{"Fantasy"}, Derive(item))
	})

	t.Run("empty seeds are dropped", func(t *testing.T) {
		item := models.MediaItem{
			Type: models.MediaTypeMovie,
			Meta: models.Metadata{Film: &models.FilmMeta{}},
		}
		assert.Empty(t, Derive(item))
	})
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "", "b", "a", "b"}))
}
