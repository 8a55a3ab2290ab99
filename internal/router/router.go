package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mem "questionnaire-app/internal/adapters/storage/memory"
	"questionnaire-app/internal/domain/responses"
	"questionnaire-app/internal/middleware"
	"questionnaire-app/internal/platform/logger"
	"questionnaire-app/internal/web"
)

type Options struct {
	// Opcional: si no viene, in-memory.
	Repo responses.Repository

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	repo := opts.Repo
	if repo == nil {
		repo = mem.NewResponsesRepo()
	}

	svc := responses.NewService(repo)

	// API JSON + página HTML sobre el mismo service
	responses.RegisterRoutes(r, svc)
	web.RegisterRoutes(r, web.NewHandler(svc, log))

	return r
}
