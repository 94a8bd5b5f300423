package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/metrics"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

type RouterOptions struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler

	// AvatarHandler serves stored avatars by file name under AvatarPathPrefix.
	AvatarHandler    http.Handler
	AvatarPathPrefix string

	CORSAllowedOrigins []string

	// GenerateLimiter throttles generation and question requests per client IP.
	// Nil disables throttling.
	GenerateLimiter *RateLimiter
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	log := logger.OrDefault(opts.Logger)
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log, rec))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get(wire.PathHealth, s.Health)

	r.Get(wire.PathItineraries, s.ListItineraries)
	r.Post(wire.PathSaveItinerary, s.SaveItinerary)
	r.Post(wire.PathDeleteItinerary, s.DeleteItinerary)
	r.Post(wire.PathUpdateProfile, s.UpdateProfile)
	r.Post(wire.PathUploadAvatar, s.UploadAvatar)

	r.Group(func(r chi.Router) {
		if opts.GenerateLimiter != nil {
			r.Use(opts.GenerateLimiter.Middleware("generate", rec))
		}
		r.Post(wire.PathGenerate, s.GenerateItinerary)
		r.Post(wire.PathAskQuestion, s.AskQuestion)
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	if opts.AvatarHandler != nil {
		prefix := strings.TrimRight(opts.AvatarPathPrefix, "/")
		if prefix == "" {
			prefix = "/avatars"
		}
		r.Handle(prefix+"/*", http.StripPrefix(prefix, opts.AvatarHandler))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})
	return r
}
