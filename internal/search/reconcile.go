package search

import (
	"github.com/Rezmii/media-library/internal/library"
	"github.com/Rezmii/media-library/internal/models"
)

// Reconcile cross-references each ranked candidate against the library
// index. Owned items get InLibrary and the persisted record's identifier;
// everything else keeps only its provider identifier. The ranked order is
// never changed and the operation is idempotent.
func Reconcile(ranked []models.MediaItem, index library.Index) []models.MediaItem {
	out := make([]models.MediaItem, len(ranked))
	for i, item := range ranked {
		if id, ok := index[item.ProviderID]; ok {
			item.InLibrary = true
			item.LibraryID = id
		} else {
			item.InLibrary = false
			item.LibraryID = ""
		}
		out[i] = item
	}
	return out
}
