package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	PasswordHash  string    `json:"-"`
	RefreshToken  string    `json:"-"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(user *User) error
	GetByID(id uuid.UUID) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByEmail(email string) (*User, error)
	// GetByUsernameOrEmail matches either column, case-insensitively.
	GetByUsernameOrEmail(username, email string) (*User, error)
	Update(user *User) error
	UpdatePassword(id uuid.UUID, passwordHash string) error
	// UpdateRefreshToken overwrites the single stored refresh token in one
	// atomic update. Whatever token was stored before no longer matches and
	// is thereby revoked.
	UpdateRefreshToken(id uuid.UUID, refreshToken string) error
	ClearRefreshToken(id uuid.UUID) error
	UpdateAvatar(id uuid.UUID, avatarURL string) error
	UpdateCoverImage(id uuid.UUID, coverImageURL string) error
	Delete(id uuid.UUID) error
}
