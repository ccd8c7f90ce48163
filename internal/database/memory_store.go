package database

import (
	"context"
	"sync"
	"time"

	"github.com/kdimtricp/geoclips/internal/models"
)

var _ VideoStore = (*MemoryStore)(nil)

// MemoryStore keeps videos in process memory. Ids start at 1 and only grow.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	videos []models.Video
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) InsertVideo(ctx context.Context, video *models.Video) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := models.Video{
		ID:        s.nextID,
		Video:     append([]byte(nil), video.Video...),
		Latitude:  video.Latitude,
		Longitude: video.Longitude,
		Timestamp: time.Now().UTC(),
	}
	s.nextID++
	s.videos = append(s.videos, stored)

	video.ID = stored.ID
	video.Timestamp = stored.Timestamp
	return stored.ID, nil
}

func (s *MemoryStore) GetVideoContent(ctx context.Context, id int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.videos {
		if v.ID == id {
			return append([]byte(nil), v.Video...), nil
		}
	}
	return nil, ErrVideoNotFound
}

func (s *MemoryStore) ListVideos(ctx context.Context) ([]models.VideoSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.VideoSummary, 0, len(s.videos))
	for _, v := range s.videos {
		summaries = append(summaries, models.VideoSummary{
			ID:        v.ID,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
			Timestamp: v.Timestamp,
		})
	}
	return summaries, nil
}
