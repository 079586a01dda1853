package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vidstream/backend/internal/domain"
	"github.com/vidstream/backend/internal/usecase"
)

type contextKey string

const userKey contextKey = "user"

// AccessTokenCookie is the cookie the login and refresh handlers set and this
// middleware reads first.
const AccessTokenCookie = "accessToken"

type AuthMiddleware struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase *usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate verifies the access token from the cookie or Authorization
// header, loads the corresponding user and attaches it to the request
// context. Any failure terminates the request with 401; no downstream
// handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, "Unauthorized request", http.StatusUnauthorized)
			return
		}

		claims, err := m.authUsecase.ValidateAccessToken(token)
		if err != nil {
			http.Error(w, "Invalid access token", http.StatusUnauthorized)
			return
		}

		user, err := m.authUsecase.GetUserByID(claims.UserID)
		if err != nil || user == nil {
			http.Error(w, "Invalid access token", http.StatusUnauthorized)
			return
		}

		// The identity handed to handlers never carries credentials.
		user.PasswordHash = ""
		user.RefreshToken = ""

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	if user, ok := GetUser(ctx); ok {
		return user.ID, true
	}
	return uuid.Nil, false
}
