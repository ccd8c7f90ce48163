package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdimtricp/geoclips/internal/database"
	"github.com/kdimtricp/geoclips/internal/models"
	"go.uber.org/zap"
)

const (
	videoContentType = "video/webm"
	multipartMemory  = 32 << 20
	healthTimeout    = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Store  database.VideoStore
	DB     Pinger
	Logger *zap.Logger
	Static fs.FS

	// MaxUploadSize caps the request body in bytes. Zero means no limit.
	MaxUploadSize     int64
	StrictCoordinates bool
}

func (app *App) log(r *http.Request) *zap.Logger {
	logger := app.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		logger = logger.With(zap.String("request_id", reqID))
	}
	return logger
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if app.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := app.DB.Ping(ctx); err != nil {
			app.log(r).Warn("health check failed", zap.Error(err))
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func (app *App) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, app.Static, name)
	}
}

func (app *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if app.MaxUploadSize > 0 {
		if r.ContentLength > app.MaxUploadSize {
			writeText(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeText(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("video")
	if err != nil {
		writeText(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer file.Close()

	coords := models.Coordinates{
		Latitude:  r.FormValue("latitude"),
		Longitude: r.FormValue("longitude"),
	}
	if app.StrictCoordinates {
		if err := coords.Validate(); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		app.log(r).Error("failed to read uploaded video", zap.Error(err))
		writeText(w, http.StatusBadRequest, "Failed to read video")
		return
	}

	id, err := app.Store.InsertVideo(r.Context(), models.NewVideo(content, coords))
	if err != nil {
		app.log(r).Error("error saving video to database", zap.Error(err), zap.Int("size", len(content)))
		writeText(w, http.StatusInternalServerError, "Failed to save video")
		return
	}

	app.log(r).Info("video saved", zap.Int64("id", id), zap.Int("size", len(content)))
	writeText(w, http.StatusOK, fmt.Sprintf("Video saved successfully with ID: %d", id))
}

func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.Store.ListVideos(r.Context())
	if err != nil {
		app.log(r).Error("error fetching videos from database", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

// StreamVideoHandler returns the stored clip for inline playback.
func (app *App) StreamVideoHandler(w http.ResponseWriter, r *http.Request) {
	app.serveVideo(w, r, false)
}

// DownloadVideoHandler returns the stored clip as a file attachment.
func (app *App) DownloadVideoHandler(w http.ResponseWriter, r *http.Request) {
	app.serveVideo(w, r, true)
}

func (app *App) serveVideo(w http.ResponseWriter, r *http.Request, attachment bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeText(w, http.StatusNotFound, "Video not found")
		return
	}

	content, err := app.Store.GetVideoContent(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrVideoNotFound) {
			writeText(w, http.StatusNotFound, "Video not found")
			return
		}
		app.log(r).Error("error fetching video from database", zap.Error(err), zap.Int64("id", id))
		writeText(w, http.StatusInternalServerError, "Failed to fetch video")
		return
	}

	w.Header().Set("Content-Type", videoContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=video_%d.webm", id))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
