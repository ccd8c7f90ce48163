package models

import (
	"time"
)

// Video is one stored clip. ID and Timestamp are assigned by the store.
type Video struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Video     []byte    `gorm:"not null"`
	Latitude  string    `gorm:"type:text"`
	Longitude string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Video) TableName() string {
	return "videos"
}

func NewVideo(content []byte, coords Coordinates) *Video {
	return &Video{
		Video:     content,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	}
}

// VideoSummary is the listing projection of a Video. It never carries the blob.
type VideoSummary struct {
	ID        int64     `json:"id"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (VideoSummary) TableName() string {
	return "videos"
}
