package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/backend/internal/config"
	"github.com/vidstream/backend/internal/domain"
	"github.com/vidstream/backend/internal/usecase"
)

// userByIDRepo implements domain.UserRepository over a fixed set of users;
// only lookup by id matters to the middleware.
type userByIDRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *userByIDRepo) Create(user *domain.User) error { return nil }

func (r *userByIDRepo) GetByID(id uuid.UUID) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *userByIDRepo) GetByUsername(username string) (*domain.User, error) { return nil, nil }
func (r *userByIDRepo) GetByEmail(email string) (*domain.User, error)       { return nil, nil }
func (r *userByIDRepo) GetByUsernameOrEmail(username, email string) (*domain.User, error) {
	return nil, nil
}
func (r *userByIDRepo) Update(user *domain.User) error                            { return nil }
func (r *userByIDRepo) UpdatePassword(id uuid.UUID, passwordHash string) error    { return nil }
func (r *userByIDRepo) UpdateRefreshToken(id uuid.UUID, refreshToken string) error { return nil }
func (r *userByIDRepo) ClearRefreshToken(id uuid.UUID) error                      { return nil }
func (r *userByIDRepo) UpdateAvatar(id uuid.UUID, avatarURL string) error         { return nil }
func (r *userByIDRepo) UpdateCoverImage(id uuid.UUID, coverImageURL string) error { return nil }
func (r *userByIDRepo) Delete(id uuid.UUID) error                                 { return nil }

const testAccessSecret = "mw-access-secret"

func signAccessToken(t *testing.T, user *domain.User, secret string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID.String(),
		"email":     user.Email,
		"username":  user.Username,
		"full_name": user.FullName,
		"sub":       user.ID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newTestMiddleware(users ...*domain.User) *AuthMiddleware {
	repo := &userByIDRepo{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	auth := usecase.NewAuthUsecase(repo, nil, &config.TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: "mw-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	return NewAuthMiddleware(auth)
}

func protectedEcho(t *testing.T) (http.Handler, *domain.User) {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "a@x.com",
		FullName:     "Alice Doe",
		PasswordHash: "$2a$10$something",
		RefreshToken: "stored-token",
		AvatarURL:    "https://cdn/u1",
	}
	mw := newTestMiddleware(user)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			http.Error(w, "no identity in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mw.Authenticate(next), user
}

func TestAuthenticateBearerHeader(t *testing.T) {
	t.Parallel()

	handler, user := protectedEcho(t)
	token := signAccessToken(t, user, testAccessSecret, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateCookie(t *testing.T) {
	t.Parallel()

	handler, user := protectedEcho(t)
	token := signAccessToken(t, user, testAccessSecret, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateScrubsCredentials(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$something",
		RefreshToken: "stored-token",
	}
	mw := newTestMiddleware(user)

	var captured *domain.User
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, user, testAccessSecret, time.Hour))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, captured)
	assert.Equal(t, user.ID, captured.ID)
	assert.Empty(t, captured.PasswordHash)
	assert.Empty(t, captured.RefreshToken)
}

func TestAuthenticateMissingToken(t *testing.T) {
	t.Parallel()

	handler, _ := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	t.Parallel()

	handler, user := protectedEcho(t)
	token := signAccessToken(t, user, testAccessSecret, -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	t.Parallel()

	handler, user := protectedEcho(t)
	token := signAccessToken(t, user, "some-other-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	t.Parallel()

	handler, _ := protectedEcho(t)

	ghost := &domain.User{ID: uuid.New(), Username: "ghost", Email: "g@x.com"}
	token := signAccessToken(t, ghost, testAccessSecret, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	t.Parallel()

	handler, user := protectedEcho(t)
	token := signAccessToken(t, user, testAccessSecret, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
