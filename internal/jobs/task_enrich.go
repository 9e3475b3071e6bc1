package jobs

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Rezmii/media-library/internal/library"
	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/tags"
)

type TagEnrichPayload struct {
	RecordID string           `json:"record_id"`
	Item     models.MediaItem `json:"item"`
}

// EnqueueEnrichment satisfies library.Enqueuer.
func (q *Queue) EnqueueEnrichment(recordID string, item models.MediaItem) error {
	return q.enqueue(TaskTagEnrich, TagEnrichPayload{RecordID: recordID, Item: item})
}

// RegisterHandlers binds the enrichment worker. A failed detail lookup is
// not a task failure — the record simply keeps its seeded tags — so the
// handler only errors on payloads it cannot decode.
func RegisterHandlers(q *Queue, repo *library.Repository, enricher *tags.Enricher) {
	q.mux.HandleFunc(TaskTagEnrich, func(ctx context.Context, t *asynq.Task) error {
		var p TagEnrichPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		id, err := uuid.Parse(p.RecordID)
		if err != nil {
			return err
		}

		for _, tag := range enricher.Enrich(ctx, p.Item) {
			if err := repo.AddTag(id, tag); err != nil {
				log.Printf("jobs: adding enrichment tag %q to %s failed: %v", tag, p.RecordID, err)
			}
		}
		return nil
	})
}
