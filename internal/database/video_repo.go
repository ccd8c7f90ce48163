package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/kdimtricp/geoclips/internal/models"
	"gorm.io/gorm"
)

var ErrVideoNotFound = errors.New("video not found")

// VideoStore persists clips. Implementations must be safe for concurrent use.
type VideoStore interface {
	InsertVideo(ctx context.Context, video *models.Video) (int64, error)
	GetVideoContent(ctx context.Context, id int64) ([]byte, error)
	ListVideos(ctx context.Context) ([]models.VideoSummary, error)
}

var _ VideoStore = (*VideoRepository)(nil)

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

var insertVideoSQL = map[string]string{
	TypePostgres: "INSERT INTO videos (video, latitude, longitude) VALUES ($1, $2, $3) RETURNING id",
	TypeSQLite:   "INSERT INTO videos (video, latitude, longitude) VALUES (?, ?, ?) RETURNING id",
}

// InsertVideo stores one row and returns the id assigned by the database.
// The timestamp column is left to the store default.
func (r *VideoRepository) InsertVideo(ctx context.Context, video *models.Video) (int64, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	content := video.Video
	if content == nil {
		content = []byte{}
	}

	var id int64
	err = conn.QueryRowContext(ctx, insertVideoSQL[r.db.Dialect()], content, video.Latitude, video.Longitude).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert video: %w", err)
	}
	video.ID = id
	return id, nil
}

func (r *VideoRepository) GetVideoContent(ctx context.Context, id int64) ([]byte, error) {
	var video models.Video
	result := r.db.GORM().WithContext(ctx).Select("video").Where("id = ?", id).Take(&video)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video %d: %w", id, result.Error)
	}
	return video.Video, nil
}

// ListVideos returns every record without its blob, in the store's scan order.
func (r *VideoRepository) ListVideos(ctx context.Context) ([]models.VideoSummary, error) {
	videos := []models.VideoSummary{}
	result := r.db.GORM().WithContext(ctx).
		Select("id", "latitude", "longitude", "timestamp").
		Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", result.Error)
	}
	return videos, nil
}
