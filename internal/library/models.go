package library

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Rezmii/media-library/internal/models"
)

// Record is the persisted shape of a library item. Metadata keeps the open
// key-value bag the original adapters produced, with the provider's
// externalId embedded inside it.
type Record struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Type      models.MediaType `json:"type"`
	CoverURL  *string          `json:"coverUrl,omitempty"`
	Status    models.Status    `json:"status"`
	Rating    *int             `json:"rating,omitempty"`
	Note      *string          `json:"note,omitempty"`
	IsBacklog bool             `json:"isBacklog"`
	Metadata  json.RawMessage  `json:"metadata"`
	Tags      []string         `json:"tags"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Unified maps a persisted record back to the shape the search pipeline
// produces, so library listings and search results render the same way.
func (r *Record) Unified() models.MediaItem {
	var meta map[string]interface{}
	_ = json.Unmarshal(r.Metadata, &meta)

	providerID, _ := meta["externalId"].(string)

	year, _ := meta["releaseDate"].(string)
	if year == "" {
		year = strconv.Itoa(r.CreatedAt.Year())
	}

	status := r.Status
	return models.MediaItem{
		ProviderID:  providerID,
		LibraryID:   r.ID.String(),
		InLibrary:   true,
		Type:        r.Type,
		Title:       r.Title,
		CoverURL:    r.CoverURL,
		ReleaseYear: year,
		Tags:        r.Tags,
		Meta:        models.MetadataFromMap(r.Type, meta),
		Status:      &status,
		Rating:      r.Rating,
		Note:        r.Note,
		AddedAt:     r.CreatedAt.Format("02.01.2006"),
	}
}
