package library

import "encoding/json"

// Index maps a provider's external identifier to the persisted record's
// own id. It is rebuilt from the full persisted set on every search call;
// staleness is bounded by call latency only.
type Index map[string]string

// BuildIndex extracts the embedded externalId from each record's metadata.
// Records without one (manual entries, legacy rows) are skipped.
func BuildIndex(records []*Record) Index {
	idx := make(Index, len(records))
	for _, r := range records {
		var meta struct {
			ExternalID string `json:"externalId"`
		}
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			continue
		}
		if meta.ExternalID == "" {
			continue
		}
		idx[meta.ExternalID] = r.ID.String()
	}
	return idx
}
