package search

import (
	"context"
	"log"
	"sync"
	"unicode/utf8"

	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
)

// minQueryLength short-circuits keystroke-driven searches before any
// network call is made.
const minQueryLength = 2

// Aggregator fans a query out to every relevant provider concurrently and
// flattens the successful result lists. A failing provider is logged and
// skipped; it never suppresses another provider's results.
type Aggregator struct {
	providers []provider.Provider
}

func NewAggregator(providers ...provider.Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

func (a *Aggregator) Aggregate(ctx context.Context, query string, filter models.MediaType) []models.MediaItem {
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil
	}

	selected := a.selectProviders(filter)
	if len(selected) == 0 {
		return nil
	}

	// Results keep provider registration order regardless of which call
	// finishes first, so the flattened list is deterministic.
	results := make([][]models.MediaItem, len(selected))
	var wg sync.WaitGroup
	for i, p := range selected {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			items, err := p.Search(ctx, query)
			if err != nil {
				log.Printf("search: provider %s failed: %v", p.Name(), err)
				return
			}
			results[i] = items
		}(i, p)
	}
	wg.Wait()

	var flat []models.MediaItem
	for _, items := range results {
		flat = append(flat, items...)
	}

	// The movie/series provider serves both sub-types from one call, so a
	// sub-type filter is applied after flattening.
	if filter != models.MediaTypeAll {
		filtered := flat[:0]
		for _, item := range flat {
			if item.Type == filter {
				filtered = append(filtered, item)
			}
		}
		flat = filtered
	}
	return flat
}

func (a *Aggregator) selectProviders(filter models.MediaType) []provider.Provider {
	if filter == models.MediaTypeAll {
		return a.providers
	}
	var selected []provider.Provider
	for _, p := range a.providers {
		if provider.Supports(p, filter) {
			selected = append(selected, p)
		}
	}
	return selected
}
