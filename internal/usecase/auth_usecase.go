package usecase

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/vidstream/backend/internal/config"
	"github.com/vidstream/backend/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenGeneration    = errors.New("token generation failed")
)

type AuthUsecase struct {
	userRepo  domain.UserRepository
	eventRepo domain.LoginEventRepository
	cfg       *config.TokenConfig
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// EventMeta carries request attributes recorded in the auth audit trail.
type EventMeta struct {
	IPAddress string
	UserAgent string
}

func NewAuthUsecase(userRepo domain.UserRepository, eventRepo domain.LoginEventRepository, cfg *config.TokenConfig) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		cfg:       cfg,
	}
}

// Register creates a new user. Media uploads happen in the delivery layer;
// this receives the resulting URLs. The password is hashed here, before the
// record is handed to the repository, so plaintext never reaches storage.
func (u *AuthUsecase) Register(fullName, email, username, password, avatarURL, coverImageURL string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := u.userRepo.GetByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      strings.TrimSpace(fullName),
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and starts a session. Persisting the new refresh
// token overwrites whatever token a previous session stored, revoking it.
func (u *AuthUsecase) Login(username, email, password string, meta EventMeta) (*domain.User, *TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.GetByUsernameOrEmail(username, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := u.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	u.recordEvent(user.ID, domain.AuthEventLogin, meta)
	return user, tokens, nil
}

// Refresh rotates the session: the incoming refresh token must verify against
// the refresh secret and match the stored value byte for byte. A token that
// verifies but no longer matches has been superseded and is rejected the same
// way as a forged one.
func (u *AuthUsecase) Refresh(refreshToken string, meta EventMeta) (*TokenPair, error) {
	claims, err := parseRefreshToken(refreshToken, u.cfg.RefreshSecret)
	if err != nil {
		log.Printf("auth: refresh token rejected: %v", err)
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("auth: refresh token for unknown user %s", claims.UserID)
		return nil, ErrInvalidToken
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		log.Printf("auth: superseded refresh token for user %s", user.ID)
		return nil, ErrInvalidToken
	}

	tokens, err := u.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	u.recordEvent(user.ID, domain.AuthEventRefresh, meta)
	return tokens, nil
}

// Logout closes the refresh path by clearing the stored token. Outstanding
// access tokens remain verifiable until they expire on their own.
func (u *AuthUsecase) Logout(userID uuid.UUID, meta EventMeta) error {
	if err := u.userRepo.ClearRefreshToken(userID); err != nil {
		return err
	}
	u.recordEvent(userID, domain.AuthEventLogout, meta)
	return nil
}

// ChangePassword re-hashes and stores the new password. It does not touch the
// stored refresh token: existing sessions stay logged in.
func (u *AuthUsecase) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := u.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !verifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(userID, passwordHash)
}

// DeleteAccount removes the user and, through the schema's cascades, their
// subscriptions, videos, history and audit trail. The password is re-verified
// so a hijacked access token alone cannot destroy the account.
func (u *AuthUsecase) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := u.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !verifyPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return u.userRepo.Delete(userID)
}

// LoginHistory returns the caller's recent auth events, newest first.
func (u *AuthUsecase) LoginHistory(userID uuid.UUID, limit int) ([]*domain.LoginEvent, error) {
	if u.eventRepo == nil {
		return nil, nil
	}
	return u.eventRepo.ListByUser(userID, limit)
}

func (u *AuthUsecase) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims, err := parseAccessToken(tokenString, u.cfg.AccessSecret)
	if err != nil {
		log.Printf("auth: access token rejected: %v", err)
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (u *AuthUsecase) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return u.userRepo.GetByID(id)
}

func (u *AuthUsecase) generateTokenPair(user *domain.User) (*TokenPair, error) {
	accessToken, err := issueAccessToken(user, u.cfg.AccessSecret, u.cfg.AccessExpiry)
	if err != nil {
		log.Printf("auth: signing access token for user %s: %v", user.ID, err)
		return nil, ErrTokenGeneration
	}

	refreshToken, err := issueRefreshToken(user.ID, u.cfg.RefreshSecret, u.cfg.RefreshExpiry)
	if err != nil {
		log.Printf("auth: signing refresh token for user %s: %v", user.ID, err)
		return nil, ErrTokenGeneration
	}

	if err := u.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		log.Printf("auth: persisting refresh token for user %s: %v", user.ID, err)
		return nil, ErrTokenGeneration
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    claimsExpiry(u.cfg.AccessExpiry),
	}, nil
}

func (u *AuthUsecase) recordEvent(userID uuid.UUID, event string, meta EventMeta) {
	if u.eventRepo == nil {
		return
	}
	err := u.eventRepo.Create(&domain.LoginEvent{
		UserID:    userID,
		Event:     event,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		log.Printf("auth: recording %s event for user %s: %v", event, userID, err)
	}
}
