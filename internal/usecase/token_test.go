package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vidstream/backend/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
		FullName: "Alice Doe",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	user := testUser()
	tok, err := issueAccessToken(user, "access-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueAccessToken error: %v", err)
	}

	claims, err := parseAccessToken(tok, "access-secret")
	if err != nil {
		t.Fatalf("parseAccessToken error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id mismatch: got %s want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email || claims.Username != user.Username || claims.FullName != user.FullName {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := issueAccessToken(testUser(), "access-secret", -time.Minute)
	if err != nil {
		t.Fatalf("issueAccessToken error: %v", err)
	}

	_, err = parseAccessToken(tok, "access-secret")
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := issueAccessToken(testUser(), "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueAccessToken error: %v", err)
	}

	_, err = parseAccessToken(tok, "wrong-secret")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAccessTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := parseAccessToken("not.a.jwt", "secret")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tok, err := issueRefreshToken(userID, "refresh-secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("issueRefreshToken error: %v", err)
	}

	claims, err := parseRefreshToken(tok, "refresh-secret")
	if err != nil {
		t.Fatalf("parseRefreshToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: got %s want %s", claims.UserID, userID)
	}
}

func TestRefreshTokenNotValidWithAccessSecret(t *testing.T) {
	t.Parallel()

	tok, err := issueRefreshToken(uuid.New(), "refresh-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueRefreshToken error: %v", err)
	}

	if _, err := parseRefreshToken(tok, "access-secret"); err == nil {
		t.Fatal("refresh token verified with the wrong secret")
	}
}
