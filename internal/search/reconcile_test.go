package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rezmii/media-library/internal/library"
	"github.com/Rezmii/media-library/internal/models"
)

func TestReconcile(t *testing.T) {
	ranked := []models.MediaItem{
		{ProviderID: "tt816692", Type: models.MediaTypeMovie, Title: "Interstellar"},
		{ProviderID: "3498", Type: models.MediaTypeGame, Title: "GTA V"},
	}
	index := library.Index{"tt816692": "abc-123"}

	got := Reconcile(ranked, index)
	require.Len(t, got, 2)

	assert.True(t, got[0].InLibrary)
	assert.Equal(t, "abc-123", got[0].LibraryID)
	assert.Equal(t, "tt816692", got[0].ProviderID, "provider id survives reconciliation")

	assert.False(t, got[1].InLibrary)
	assert.Empty(t, got[1].LibraryID)
}

func TestReconcileWireIdentifier(t *testing.T) {
	ranked := []models.MediaItem{
		{ProviderID: "tt816692", Type: models.MediaTypeMovie, Title: "Interstellar"},
	}
	got := Reconcile(ranked, library.Index{"tt816692": "abc-123"})

	data, err := json.Marshal(got[0])
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "abc-123", wire["externalId"], "owned items address the library record")
	assert.Equal(t, true, wire["isAdded"])
}

func TestReconcileIdempotent(t *testing.T) {
	ranked := []models.MediaItem{
		{ProviderID: "tt816692", Type: models.MediaTypeMovie, Title: "Interstellar"},
		{ProviderID: "901", Type: models.MediaTypeMovie, Title: "Tenet"},
	}
	index := library.Index{"tt816692": "abc-123"}

	once := Reconcile(ranked, index)
	twice := Reconcile(once, index)

	a, _ := json.Marshal(once)
	b, _ := json.Marshal(twice)
	assert.JSONEq(t, string(a), string(b))
}

func TestReconcileClearsStaleOwnership(t *testing.T) {
	// A candidate marked owned in an earlier pass loses the flag when the
	// record has since been removed from the library.
	ranked := []models.MediaItem{
		{ProviderID: "tt816692", LibraryID: "abc-123", InLibrary: true, Type: models.MediaTypeMovie},
	}
	got := Reconcile(ranked, library.Index{})
	assert.False(t, got[0].InLibrary)
	assert.Empty(t, got[0].LibraryID)
}
