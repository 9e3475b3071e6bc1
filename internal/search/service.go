package search

import (
	"context"
	"log"

	"github.com/Rezmii/media-library/internal/library"
	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
)

// LibraryIndexer supplies a fresh externalId → record id mapping. The
// repository rebuilds it from the full persisted set on every call.
type LibraryIndexer interface {
	Index() (library.Index, error)
}

// Service runs the whole search pipeline: fan-out, ranking, then
// reconciliation against the library.
type Service struct {
	aggregator *Aggregator
	library    LibraryIndexer
	detailers  map[models.MediaType]provider.Detailer
}

func NewService(aggregator *Aggregator, lib LibraryIndexer, detailers map[models.MediaType]provider.Detailer) *Service {
	return &Service{aggregator: aggregator, library: lib, detailers: detailers}
}

// Search returns at most 20 ranked, reconciled results. Short queries and
// total provider failure both yield an empty list, never an error.
func (s *Service) Search(ctx context.Context, query string, filter models.MediaType) []models.MediaItem {
	candidates := s.aggregator.Aggregate(ctx, query, filter)
	if len(candidates) == 0 {
		return nil
	}

	ranked := Rank(candidates, query)
	if len(ranked) == 0 {
		return nil
	}

	index, err := s.library.Index()
	if err != nil {
		log.Printf("search: building library index failed: %v", err)
		return nil
	}
	return Reconcile(ranked, index)
}

// Details fetches rich secondary data for one item. Types without a
// detail adapter, and failed lookups, surface as nil — details are
// unavailable, not an error.
func (s *Service) Details(ctx context.Context, externalID string, t models.MediaType) *provider.Details {
	d, ok := s.detailers[t]
	if !ok {
		return nil
	}
	details, err := d.GetDetails(ctx, externalID, t)
	if err != nil {
		log.Printf("search: detail lookup for %s %s failed: %v", t, externalID, err)
		return nil
	}
	return details
}
