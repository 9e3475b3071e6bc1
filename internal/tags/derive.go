package tags

import "github.com/Rezmii/media-library/internal/models"

// Derive builds the initial tag set for an item entering the library,
// seeded from the metadata its adapter attached: platform list, category
// list, the provider's own type label and the release year. Duplicates
// are dropped, first occurrence wins.
func Derive(item models.MediaItem) []string {
	var seeds []string

	switch {
	case item.Meta.Game != nil:
		seeds = append(seeds, item.Meta.Game.Platforms...)
		seeds = append(seeds, item.Meta.Game.Categories...)
	case item.Meta.Film != nil:
		if item.Meta.Film.OriginalType != "" {
			seeds = append(seeds, item.Meta.Film.OriginalType)
		}
	case item.Meta.Book != nil:
		seeds = append(seeds, item.Meta.Book.Categories...)
	}

	if item.ReleaseYear != "" {
		seeds = append(seeds, item.ReleaseYear)
	}
	return dedupe(seeds)
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
