package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers into the API. Nil handlers leave their routes unmounted.
type RouterConfig struct {
	Health      *HealthHandler
	Areas       *LifeAreaHandler
	Scores      *ScoreHandler
	ActionItems *ActionItemHandler
	Resets      *ResetHandler
	Logger      *slog.Logger
	Middleware  []func(http.Handler) http.Handler
}

// NewRouter builds the chi router for the tracker API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	logger := defaultLogger(cfg.Logger)

	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(middleware.CleanPath)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		newResponder(logger).writeError(req.Context(), w, http.StatusNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		newResponder(logger).writeJSON(req.Context(), w, http.StatusMethodNotAllowed, errorResponse{Error: errorBody{
			Code:    "method_not_allowed",
			Message: http.StatusText(http.StatusMethodNotAllowed),
		}})
	})

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Health)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/areas", func(areas chi.Router) {
			if cfg.Areas != nil {
				areas.Get("/", cfg.Areas.List)
				areas.Post("/", cfg.Areas.Create)
			}
			areas.Route("/{areaID}", func(area chi.Router) {
				if cfg.Areas != nil {
					area.Get("/", cfg.Areas.Get)
					area.Put("/", cfg.Areas.Update)
					area.Delete("/", cfg.Areas.Delete)
					area.Post("/restore", cfg.Areas.Restore)
				}
				if cfg.Scores != nil {
					area.Get("/scores", cfg.Scores.ListByArea)
					area.Post("/scores", cfg.Scores.Record)
					area.Get("/scores/latest", cfg.Scores.LatestByArea)
				}
				if cfg.ActionItems != nil {
					area.Get("/action-items", cfg.ActionItems.ListByArea)
					area.Post("/action-items", cfg.ActionItems.Create)
				}
				if cfg.Resets != nil {
					area.Post("/reset", cfg.Resets.ResetArea)
				}
			})
		})

		if cfg.Scores != nil {
			api.Get("/scores/latest", cfg.Scores.LatestForActiveAreas)
		}

		if cfg.ActionItems != nil {
			api.Route("/action-items", func(items chi.Router) {
				items.Get("/", cfg.ActionItems.List)
				items.Post("/reorder", cfg.ActionItems.Reorder)
				items.Put("/{itemID}", cfg.ActionItems.UpdateTitle)
				items.Delete("/{itemID}", cfg.ActionItems.Delete)
				items.Post("/{itemID}/archive", cfg.ActionItems.Archive)
			})
		}

		if cfg.Resets != nil {
			api.Post("/reset", cfg.Resets.ResetAll)
		}
	})

	return r
}
