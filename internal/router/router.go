package router

import (
	"github.com/Totarae/URLProbe/internal/handlers"
	"github.com/Totarae/URLProbe/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)

	r.Get("/ping", handler.Ping)
	r.Post("/file_upload", handler.FileUpload)
	r.Post("/api/check", handler.CheckJSON)
	return r
}
