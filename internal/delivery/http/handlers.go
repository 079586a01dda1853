package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidstream/backend/internal/domain"
	"github.com/vidstream/backend/internal/middleware"
	"github.com/vidstream/backend/internal/usecase"
)

const maxUploadSize = 32 << 20 // 32 MB

// MediaUploader is the slice of pkg/mediastore the handlers need.
type MediaUploader interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (string, error)
}

type Handler struct {
	authUsecase *usecase.AuthUsecase
	userUsecase *usecase.UserUsecase
	media       MediaUploader
}

func NewHandler(auth *usecase.AuthUsecase, user *usecase.UserUsecase, media MediaUploader) *Handler {
	return &Handler{
		authUsecase: auth,
		userUsecase: user,
		media:       media,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

const refreshTokenCookie = "refreshToken"

func setAuthCookies(w http.ResponseWriter, tokens *usecase.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}

func eventMeta(r *http.Request) usecase.EventMeta {
	return usecase.EventMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// uploadFormFile uploads the named multipart file and returns its URL.
// Returns "" without error when the field is absent.
func (h *Handler) uploadFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.media.Upload(r.Context(), file, header.Header.Get("Content-Type"))
}

// Auth handlers

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	fullName := r.FormValue("fullName")
	email := r.FormValue("email")
	username := r.FormValue("username")
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	avatarURL, err := h.uploadFormFile(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload avatar")
		return
	}
	if avatarURL == "" {
		writeError(w, http.StatusBadRequest, "Avatar file is required")
		return
	}

	coverImageURL, err := h.uploadFormFile(r, "coverImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload cover image")
		return
	}

	user, err := h.authUsecase.Register(fullName, email, username, password, avatarURL, coverImageURL)
	if err == usecase.ErrUserExists {
		writeError(w, http.StatusConflict, "Username or email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "Username or email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	user, tokens, err := h.authUsecase.Login(req.Username, req.Email, req.Password, eventMeta(r))
	switch err {
	case nil:
	case usecase.ErrUserNotFound:
		writeError(w, http.StatusNotFound, "User not found")
		return
	case usecase.ErrInvalidCredentials:
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case usecase.ErrTokenGeneration:
		writeError(w, http.StatusInternalServerError, "Token generation failed")
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	setAuthCookies(w, tokens)
	writeJSON(w, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	// Cookie first, body as fallback for non-browser clients.
	incoming := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	tokens, err := h.authUsecase.Refresh(incoming, eventMeta(r))
	switch err {
	case nil:
	case usecase.ErrInvalidToken, usecase.ErrTokenExpired:
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	case usecase.ErrTokenGeneration:
		writeError(w, http.StatusInternalServerError, "Token generation failed")
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	setAuthCookies(w, tokens)
	writeJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authUsecase.Logout(userID, eventMeta(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Old and new passwords are required")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	err := h.authUsecase.ChangePassword(userID, req.OldPassword, req.NewPassword)
	if err == usecase.ErrInvalidCredentials {
		writeError(w, http.StatusUnauthorized, "Invalid old password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	err := h.authUsecase.DeleteAccount(userID, req.Password)
	if err == usecase.ErrInvalidCredentials {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

func (h *Handler) GetLoginHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.authUsecase.LoginHistory(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get login history")
		return
	}
	if events == nil {
		events = []*domain.LoginEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

// Profile handlers

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userUsecase.UpdateAccount(userID, req.FullName, req.Email, req.Username)
	if err == usecase.ErrUserExists {
		writeError(w, http.StatusConflict, "Username or email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	avatarURL, err := h.uploadFormFile(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload avatar")
		return
	}
	if avatarURL == "" {
		writeError(w, http.StatusBadRequest, "Avatar file is required")
		return
	}

	user, err := h.userUsecase.UpdateAvatar(userID, avatarURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update avatar")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	coverImageURL, err := h.uploadFormFile(r, "coverImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload cover image")
		return
	}
	if coverImageURL == "" {
		writeError(w, http.StatusBadRequest, "Cover image file is required")
		return
	}

	user, err := h.userUsecase.UpdateCoverImage(userID, coverImageURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cover image")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Channel handlers

func (h *Handler) GetChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	viewerID, _ := middleware.GetUserID(r.Context())

	profile, err := h.userUsecase.ChannelProfile(username, viewerID)
	if err == usecase.ErrChannelNotFound {
		writeError(w, http.StatusNotFound, "Channel not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get channel profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.userUsecase.Subscribe(userID, chi.URLParam(r, "username"))
	switch err {
	case nil:
	case usecase.ErrChannelNotFound:
		writeError(w, http.StatusNotFound, "Channel not found")
		return
	case usecase.ErrSelfSubscribe:
		writeError(w, http.StatusBadRequest, "Cannot subscribe to own channel")
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed"})
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.userUsecase.Unsubscribe(userID, chi.URLParam(r, "username"))
	switch err {
	case nil:
	case usecase.ErrChannelNotFound:
		writeError(w, http.StatusNotFound, "Channel not found")
		return
	case usecase.ErrNotSubscribed:
		writeError(w, http.StatusNotFound, "Not subscribed to this channel")
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Watch history handlers

func (h *Handler) GetWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.userUsecase.WatchHistory(userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get watch history")
		return
	}
	if entries == nil {
		entries = []*domain.WatchHistoryEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) AddToWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid video id")
		return
	}

	if err := h.userUsecase.AddToWatchHistory(userID, videoID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record watch history")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Recorded"})
}

func (h *Handler) ClearWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userUsecase.ClearWatchHistory(userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear watch history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
