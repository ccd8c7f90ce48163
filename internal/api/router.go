package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(app *App) http.Handler {
	logger := app.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)
	r.Get("/health", app.HealthHandler)

	r.Post("/upload", app.UploadHandler)
	r.Get("/videos", app.ListVideosHandler)
	r.Get("/video/{id}", app.StreamVideoHandler)
	r.Get("/download/{id}", app.DownloadVideoHandler)

	if app.Static != nil {
		r.Get("/", app.page("index.html"))
		r.Get("/videos-page", app.page("videos.html"))
		r.Get("/*", http.FileServerFS(app.Static).ServeHTTP)
	}

	return r
}
