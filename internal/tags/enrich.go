package tags

import (
	"context"
	"log"

	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
	"github.com/Rezmii/media-library/internal/provider/bn"
	"github.com/Rezmii/media-library/internal/provider/googlebooks"
)

// Enricher pulls canonical tags (genres, director, cast, artist,
// publisher) from detail adapters after an item is committed. Every call
// is best-effort: any failure means fewer tags, never a failed commit.
type Enricher struct {
	detailers map[models.MediaType]provider.Detailer
	books     *googlebooks.Client
	bn        *bn.Client
}

func NewEnricher(detailers map[models.MediaType]provider.Detailer, books *googlebooks.Client, bnClient *bn.Client) *Enricher {
	return &Enricher{detailers: detailers, books: books, bn: bnClient}
}

// Enrich returns the extra tags a detail lookup yields for the item, or
// nil when the lookup fails or the type has no detail source.
func (e *Enricher) Enrich(ctx context.Context, item models.MediaItem) []string {
	switch item.Type {
	case models.MediaTypeMovie, models.MediaTypeSeries:
		d := e.details(ctx, item)
		if d == nil {
			return nil
		}
		extra := append([]string{}, d.Genres...)
		if d.Director != "" {
			extra = append(extra, d.Director)
		}
		extra = append(extra, d.Cast...)
		return dedupe(extra)

	case models.MediaTypeAlbum:
		d := e.details(ctx, item)
		if d == nil {
			return nil
		}
		extra := append([]string{}, d.Genres...)
		if artist := item.Meta.Secondary(); artist != "" {
			extra = append(extra, artist)
		}
		return dedupe(extra)

	case models.MediaTypeBook:
		return e.enrichBook(ctx, item)
	}
	return nil
}

func (e *Enricher) details(ctx context.Context, item models.MediaItem) *provider.Details {
	d, ok := e.detailers[item.Type]
	if !ok {
		return nil
	}
	details, err := d.GetDetails(ctx, item.ProviderID, item.Type)
	if err != nil {
		log.Printf("tags: detail lookup for %q failed: %v", item.Title, err)
		return nil
	}
	return details
}

func (e *Enricher) enrichBook(ctx context.Context, item models.MediaItem) []string {
	var author string
	if item.Meta.Book != nil {
		author = item.Meta.Book.Author
	}

	var extra []string
	if e.books != nil {
		enrichment, err := e.books.Enrich(ctx, "", item.Title, author)
		if err != nil {
			log.Printf("tags: google books lookup for %q failed: %v", item.Title, err)
		} else if enrichment != nil {
			extra = append(extra, enrichment.Categories...)
			if enrichment.Publisher != "" {
				extra = append(extra, enrichment.Publisher)
			}
		}
	}
	if e.bn != nil {
		book, err := e.bn.FindBook(ctx, item.Title, author)
		if err != nil {
			log.Printf("tags: bn lookup for %q failed: %v", item.Title, err)
		} else if book != nil && book.Publisher != "" {
			extra = append(extra, book.Publisher)
		}
	}
	return dedupe(extra)
}
