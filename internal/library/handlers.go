package library

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rezmii/media-library/internal/httputil"
	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/tags"
)

// Store is the persistence surface the handlers need. *Repository
// implements it; tests substitute a fake.
type Store interface {
	GetAll(typeFilter models.MediaType) ([]*Record, error)
	Create(rec *Record) error
	UpdateStatus(id uuid.UUID, status models.Status) error
	UpdateDetails(id uuid.UUID, rating *int, note *string) error
	AddTag(id uuid.UUID, tag string) error
	RemoveTag(id uuid.UUID, tag string) error
	Delete(id uuid.UUID) error
}

// Enqueuer hands tag enrichment off to the background job queue.
type Enqueuer interface {
	EnqueueEnrichment(recordID string, item models.MediaItem) error
}

type Handler struct {
	store    Store
	enricher *tags.Enricher
	queue    Enqueuer
}

// NewHandler wires the library endpoints. queue may be nil; enrichment
// then runs in-process.
func NewHandler(store Store, enricher *tags.Enricher, queue Enqueuer) *Handler {
	return &Handler{store: store, enricher: enricher, queue: queue}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.commit)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.updateDetails)
	r.Post("/{id}/tags", h.addTag)
	r.Delete("/{id}/tags", h.removeTag)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	typeFilter, ok := models.ParseMediaType(r.URL.Query().Get("type"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "unknown media type")
		return
	}

	records, err := h.store.GetAll(typeFilter)
	if err != nil {
		log.Printf("library: listing failed: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list library")
		return
	}

	items := make([]models.MediaItem, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.Unified())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item      models.MediaItem `json:"item"`
		IsBacklog bool             `json:"isBacklog"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item.Title == "" || !req.Item.Type.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "title and a valid media type are required")
		return
	}

	meta := req.Item.Meta.Flatten()
	meta["externalId"] = req.Item.ProviderID
	if req.Item.ReleaseYear != "" {
		meta["releaseDate"] = req.Item.ReleaseYear
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid metadata")
		return
	}

	rec := &Record{
		ID:        uuid.New(),
		Title:     req.Item.Title,
		Type:      req.Item.Type,
		CoverURL:  req.Item.CoverURL,
		Status:    models.StatusBacklog,
		IsBacklog: req.IsBacklog,
		Metadata:  metaJSON,
		Tags:      tags.Derive(req.Item),
	}
	if err := h.store.Create(rec); err != nil {
		log.Printf("library: commit of %q failed: %v", req.Item.Title, err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to add item to library")
		return
	}

	h.enrichAsync(rec.ID, req.Item)
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

// enrichAsync schedules the best-effort tag enrichment. The commit has
// already succeeded at this point; every failure below only means the
// record keeps its seeded tags.
func (h *Handler) enrichAsync(id uuid.UUID, item models.MediaItem) {
	if h.queue != nil {
		err := h.queue.EnqueueEnrichment(id.String(), item)
		if err == nil {
			return
		}
		log.Printf("library: enrichment enqueue failed, running inline: %v", err)
	}
	if h.enricher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, tag := range h.enricher.Enrich(ctx, item) {
			if err := h.store.AddTag(id, tag); err != nil {
				log.Printf("library: adding enrichment tag %q failed: %v", tag, err)
			}
		}
	}()
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Status models.Status `json:"status"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || !req.Status.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.store.UpdateStatus(id, req.Status); err != nil {
		httputil.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Rating *int    `json:"rating"`
		Note   *string `json:"note"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		httputil.WriteError(w, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}

	if err := h.store.UpdateDetails(id, req.Rating, req.Note); err != nil {
		httputil.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) addTag(w http.ResponseWriter, r *http.Request) {
	id, name, ok := h.tagRequest(w, r)
	if !ok {
		return
	}
	if err := h.store.AddTag(id, name); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to add tag")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) removeTag(w http.ResponseWriter, r *http.Request) {
	id, name, ok := h.tagRequest(w, r)
	if !ok {
		return
	}
	if err := h.store.RemoveTag(id, name); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to remove tag")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) tagRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, "", false
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "tag name is required")
		return uuid.Nil, "", false
	}
	return id, req.Name, true
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.store.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}
