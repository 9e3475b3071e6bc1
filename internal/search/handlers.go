package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rezmii/media-library/internal/httputil"
	"github.com/Rezmii/media-library/internal/models"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.search)
	r.Get("/details", h.details)
	return r
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	typeFilter, ok := models.ParseMediaType(r.URL.Query().Get("type"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "unknown media type")
		return
	}

	results := h.svc.Search(r.Context(), query, typeFilter)
	if results == nil {
		results = []models.MediaItem{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.WriteError(w, http.StatusBadRequest, "id parameter required")
		return
	}
	mediaType := models.MediaType(r.URL.Query().Get("type"))
	if !mediaType.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "unknown media type")
		return
	}

	// Absent details are not an error; clients treat null as "unavailable".
	httputil.WriteJSON(w, http.StatusOK, h.svc.Details(r.Context(), id, mediaType))
}
