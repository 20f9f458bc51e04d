package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/boardman/internal/model"
)

// ProfileServiceInterface はプロフィールサービスのインターフェース。
type ProfileServiceInterface interface {
	Create(ctx context.Context, profile *model.Profile) error
	Login(ctx context.Context, email, password string) (*model.Profile, error)
	Remove(ctx context.Context, id, password string) error
}

// ProfileHandler はプロフィール関連のHTTPリクエストを処理する。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type createProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type removeProfileRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// Create は新しいプロフィールを登録する。
// POST /api/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile := &model.Profile{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	}
	if err := h.service.Create(r.Context(), profile); err != nil {
		handleServiceError(w, err, "profile.Create")
		return
	}

	// パスワードハッシュはレスポンスに含めない
	profile.Password = ""
	writeJSON(w, http.StatusCreated, profile)
}

// Login は資格情報を検証し、該当プロフィールを返す。
// POST /api/profiles/login
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "profile.Login")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Remove はプロフィールを削除する。本人の資格情報が必要。
// POST /api/profiles/remove
func (h *ProfileHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Remove(r.Context(), req.ID, req.Password); err != nil {
		handleServiceError(w, err, "profile.Remove")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
