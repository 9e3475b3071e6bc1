package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rezmii/media-library/internal/models"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Żółć", "zolc"},
		{"Wiedźmin", "wiedzmin"},
		{"Café", "cafe"},
		{"Mötley Crüe", "motley crue"},
		{"UPPER", "upper"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fold(tt.in), "fold(%q)", tt.in)
	}
}

func TestFieldScore(t *testing.T) {
	t.Run("exact substring scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, fieldScore("zelda", "the legend of zelda"))
	})

	t.Run("diacritics do not matter", func(t *testing.T) {
		assert.Equal(t, 0.0, fieldScore(fold("zolc"), fold("Żółć")))
	})

	t.Run("empty field is the worst score", func(t *testing.T) {
		assert.Equal(t, 1.0, fieldScore("anything", ""))
	})

	t.Run("one typo costs one edit", func(t *testing.T) {
		// "incepton" needs a single insertion inside "inception".
		got := fieldScore("incepton", "inception")
		assert.InDelta(t, 1.0/8.0, got, 1e-9)
	})

	t.Run("match may land anywhere in the field", func(t *testing.T) {
		assert.InDelta(t, 0.0, fieldScore("hobbit", "the hobbit: an unexpected journey"), 1e-9)
	})
}

func TestSubstringDistanceNeverExceedsOne(t *testing.T) {
	assert.Equal(t, 1.0, substringDistance("abcdefgh", "z"))
}

func movie(title string) models.MediaItem {
	return models.MediaItem{
		ProviderID: title,
		Type:       models.MediaTypeMovie,
		Title:      title,
		Meta:       models.Metadata{Film: &models.FilmMeta{}},
	}
}

func TestRank(t *testing.T) {
	t.Run("discards candidates above the threshold", func(t *testing.T) {
		got := Rank([]models.MediaItem{
			movie("Inception"),
			movie("Quantum of Solace"),
		}, "inception")

		assert.Len(t, got, 1)
		assert.Equal(t, "Inception", got[0].Title)
	})

	t.Run("best match first", func(t *testing.T) {
		got := Rank([]models.MediaItem{
			movie("Incepton Explained"), // one edit away
			movie("Inception"),
		}, "inception")

		assert.Len(t, got, 2)
		assert.Equal(t, "Inception", got[0].Title)
		assert.Equal(t, "Incepton Explained", got[1].Title)
	})

	t.Run("ties keep candidate order", func(t *testing.T) {
		got := Rank([]models.MediaItem{
			movie("Dune: Part Two"),
			movie("Dune"),
		}, "dune")

		assert.Equal(t, "Dune: Part Two", got[0].Title)
		assert.Equal(t, "Dune", got[1].Title)
	})

	t.Run("caps the result list", func(t *testing.T) {
		var candidates []models.MediaItem
		for i := 0; i < 30; i++ {
			candidates = append(candidates, movie(fmt.Sprintf("Matrix %d", i)))
		}
		got := Rank(candidates, "matrix")
		assert.Len(t, got, maxResults)
	})

	t.Run("diacritic invariance", func(t *testing.T) {
		for _, q := range []string{"zolc", "żółć"} {
			got := Rank([]models.MediaItem{movie("Żółć")}, q)
			assert.Len(t, got, 1, "query %q", q)
		}
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		assert.Nil(t, Rank([]models.MediaItem{movie("Inception")}, ""))
	})
}

func TestCombinedScore(t *testing.T) {
	t.Run("missing secondary field does not dilute an exact title", func(t *testing.T) {
		score := combinedScore(movie("Inception"), "inception")
		assert.Equal(t, 0.0, score)
	})

	t.Run("exact title survives an unrelated artist", func(t *testing.T) {
		item := models.MediaItem{
			Type:  models.MediaTypeAlbum,
			Title: "OK Computer",
			Meta:  models.Metadata{Album: &models.AlbumMeta{Artist: "Radiohead"}},
		}
		score := combinedScore(item, fold("ok computer"))
		assert.LessOrEqual(t, score, scoreThreshold)
	})

	t.Run("matching artist beats a non-matching one", func(t *testing.T) {
		byArtist := models.MediaItem{
			Type:  models.MediaTypeAlbum,
			Title: "Radiohead Anthology",
			Meta:  models.Metadata{Album: &models.AlbumMeta{Artist: "Radiohead"}},
		}
		byTitleOnly := models.MediaItem{
			Type:  models.MediaTypeAlbum,
			Title: "Radiohead Anthology",
			Meta:  models.Metadata{Album: &models.AlbumMeta{Artist: "The Imitators"}},
		}
		q := fold("radiohead")
		assert.Less(t, combinedScore(byArtist, q), combinedScore(byTitleOnly, q))
	})
}
