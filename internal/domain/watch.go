package domain

import (
	"time"

	"github.com/google/uuid"
)

// VideoOwner is the trimmed owner projection joined into history entries.
type VideoOwner struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

type WatchHistoryEntry struct {
	VideoID      uuid.UUID  `json:"videoId"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail,omitempty"`
	Owner        VideoOwner `json:"owner"`
	WatchedAt    time.Time  `json:"watchedAt"`
}

type WatchHistoryRepository interface {
	// Add records a view, moving an already-watched video to the front.
	Add(userID, videoID uuid.UUID) error
	List(userID uuid.UUID, limit, offset int) ([]*WatchHistoryEntry, error)
	Clear(userID uuid.UUID) error
}
