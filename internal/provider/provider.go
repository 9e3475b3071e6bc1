package provider

import (
	"context"

	"github.com/Rezmii/media-library/internal/models"
)

// Provider is one external media catalog. Implementations are stateless
// apart from per-process credentials; Search never fails for an empty
// result set or a non-success upstream status, only for transport errors.
type Provider interface {
	Name() string
	Types() []models.MediaType
	Search(ctx context.Context, query string) ([]models.MediaItem, error)
}

// Detailer is the optional second capability: fetching rich secondary data
// for a single item. It is called lazily, never during the bulk search
// path. A nil result with nil error means details are unavailable.
type Detailer interface {
	GetDetails(ctx context.Context, externalID string, mediaType models.MediaType) (*Details, error)
}

// Details is the provider-agnostic rich-data blob.
type Details struct {
	Genres      []string `json:"genres,omitempty"`
	Director    string   `json:"director,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Label       string   `json:"label,omitempty"`
	TotalTracks int      `json:"totalTracks,omitempty"`
	Seasons     int      `json:"seasons,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Supports reports whether p produces items of type t.
func Supports(p Provider, t models.MediaType) bool {
	for _, pt := range p.Types() {
		if pt == t {
			return true
		}
	}
	return false
}
