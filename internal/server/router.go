package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pantry/internal/handlers"
	applog "pantry/internal/log"
	"pantry/internal/middleware"
)

const requestTimeout = 15 * time.Second

func newRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	applog.Debug(context.Background(), "registering http routes")

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.AccessKeyHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	guard := middleware.AccessKey(cfg.AccessKey)
	r.With(guard).Get(handlers.RouteHome, handlers.Home)
	applog.Debug(context.Background(), "route registered", "path", handlers.RouteHome, "protected", cfg.AccessKey != "")

	r.Route("/api", func(r chi.Router) {
		r.Use(guard)
		r.Route("/food-items", func(r chi.Router) {
			r.Get("/", handlers.ListFoodItems)
			r.Post("/", handlers.CreateFoodItem)
			r.Get("/{code}", handlers.ShowFoodItem)
			r.Patch("/{code}", handlers.EditFoodItem)
			r.Delete("/{code}", handlers.DeleteFoodItem)
			r.Post("/{code}/amount", handlers.AdjustFoodAmount)
		})
	})
	applog.Debug(context.Background(), "route registered", "path", "/api/food-items", "protected", cfg.AccessKey != "")

	return r
}
