package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/kdimtricp/geoclips/internal/database"
	"github.com/kdimtricp/geoclips/internal/models"
	"github.com/kdimtricp/geoclips/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type TestServer struct {
	Server *httptest.Server
	App    *App
	Logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T, app *App) *TestServer {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	app.Logger = zap.New(core)
	if app.Static == nil {
		app.Static = web.Static("")
	}

	server := httptest.NewServer(NewRouter(app))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, App: app, Logs: logs}
}

func setupMemoryServer(t *testing.T) *TestServer {
	return newTestServer(t, &App{
		Store:         database.NewMemoryStore(),
		MaxUploadSize: 1 << 20,
	})
}

func setupSQLiteServer(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewDB(ctx, database.Config{
		Type:         database.TypeSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return newTestServer(t, &App{
		Store:         database.NewVideoRepository(db),
		DB:            db,
		MaxUploadSize: 1 << 20,
	})
}

// failingStore fails every operation, standing in for an unreachable database.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) InsertVideo(context.Context, *models.Video) (int64, error) {
	return 0, errStoreDown
}

func (failingStore) GetVideoContent(context.Context, int64) ([]byte, error) {
	return nil, errStoreDown
}

func (failingStore) ListVideos(context.Context) ([]models.VideoSummary, error) {
	return nil, errStoreDown
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func createMultipartUpload(content []byte, latitude, longitude string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if content != nil {
		part, err := writer.CreateFormFile("video", "clip.webm")
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
			return nil, "", err
		}
	}

	if err := writer.WriteField("latitude", latitude); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("longitude", longitude); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func postUpload(t *testing.T, server string, content []byte, latitude, longitude string) (*http.Response, string) {
	t.Helper()

	body, contentType, err := createMultipartUpload(content, latitude, longitude)
	if err != nil {
		t.Fatalf("Failed to create multipart upload: %v", err)
	}

	resp, err := http.Post(server+"/upload", contentType, body)
	if err != nil {
		t.Fatalf("Failed to upload video: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	return resp, string(respBody)
}

var savedIDPattern = regexp.MustCompile(`ID: (\d+)`)

// uploadTestVideo uploads a clip and returns the id from the confirmation.
func uploadTestVideo(t *testing.T, server string, content []byte, latitude, longitude string) int64 {
	t.Helper()

	resp, body := postUpload(t, server, content, latitude, longitude)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, body)
	}

	match := savedIDPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("No id in upload response %q", body)
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		t.Fatalf("Invalid id in upload response %q: %v", body, err)
	}
	return id
}

func getBody(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	return resp, body
}

func listVideos(t *testing.T, server string) []map[string]any {
	t.Helper()

	resp, body := getBody(t, server+"/videos")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 from /videos, got %d", resp.StatusCode)
	}

	var videos []map[string]any
	if err := json.Unmarshal(body, &videos); err != nil {
		t.Fatalf("Invalid JSON from /videos: %v (%s)", err, body)
	}
	return videos
}

func videoURL(server, kind string, id int64) string {
	return fmt.Sprintf("%s/%s/%d", server, kind, id)
}
