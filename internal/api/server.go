package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rezmii/media-library/internal/config"
	"github.com/Rezmii/media-library/internal/db"
	"github.com/Rezmii/media-library/internal/httputil"
	"github.com/Rezmii/media-library/internal/jobs"
	"github.com/Rezmii/media-library/internal/library"
	"github.com/Rezmii/media-library/internal/models"
	"github.com/Rezmii/media-library/internal/provider"
	"github.com/Rezmii/media-library/internal/provider/bn"
	"github.com/Rezmii/media-library/internal/provider/googlebooks"
	"github.com/Rezmii/media-library/internal/provider/openlibrary"
	"github.com/Rezmii/media-library/internal/provider/rawg"
	"github.com/Rezmii/media-library/internal/provider/spotify"
	"github.com/Rezmii/media-library/internal/provider/tmdb"
	"github.com/Rezmii/media-library/internal/search"
	"github.com/Rezmii/media-library/internal/tags"
)

type Server struct {
	db     *db.DB
	router chi.Router
}

// NewServer wires providers, the search pipeline and the library store into
// one HTTP handler. Providers whose credentials are missing are simply not
// registered; search degrades to whatever sources remain.
func NewServer(cfg *config.Config, database *db.DB, queue *jobs.Queue) *Server {
	var providers []provider.Provider
	detailers := map[models.MediaType]provider.Detailer{}

	if cfg.RAWGAPIKey != "" {
		providers = append(providers, rawg.New(cfg.RAWGAPIKey))
	}
	if cfg.TMDBAPIKey != "" {
		tm := tmdb.New(cfg.TMDBAPIKey)
		providers = append(providers, tm)
		detailers[models.MediaTypeMovie] = tm
		detailers[models.MediaTypeSeries] = tm
	}
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		sp := spotify.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		providers = append(providers, sp)
		detailers[models.MediaTypeAlbum] = sp
	}
	providers = append(providers, openlibrary.New())

	repo := library.NewRepository(database.DB)
	enricher := tags.NewEnricher(detailers, googlebooks.New(cfg.GoogleBooksAPIKey), bn.New())

	var enqueuer library.Enqueuer
	if queue != nil {
		jobs.RegisterHandlers(queue, repo, enricher)
		enqueuer = queue
	}

	searchSvc := search.NewService(search.NewAggregator(providers...), repo, detailers)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	s := &Server{db: database, router: r}

	r.Get("/health", s.handleHealth)
	r.Mount("/api/search", search.NewHandler(searchSvc).Router())
	r.Mount("/api/library", library.NewHandler(repo, enricher, enqueuer).Router())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
