package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuthEventLogin   = "login"
	AuthEventRefresh = "refresh"
	AuthEventLogout  = "logout"
)

// LoginEvent is an audit record of a session lifecycle transition.
type LoginEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Event     string    `json:"event"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginEventRepository interface {
	Create(event *LoginEvent) error
	// ListByUser returns a user's events, newest first.
	ListByUser(userID uuid.UUID, limit int) ([]*LoginEvent, error)
}
