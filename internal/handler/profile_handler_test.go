package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

type mockProfileService struct {
	createFn func(ctx context.Context, profile *model.Profile) error
	loginFn  func(ctx context.Context, email, password string) (*model.Profile, error)
	removeFn func(ctx context.Context, id, password string) error
}

func (m *mockProfileService) Create(ctx context.Context, profile *model.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileService) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &model.Profile{ID: "u1", Email: email}, nil
}

func (m *mockProfileService) Remove(ctx context.Context, id, password string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id, password)
	}
	return nil
}

func TestProfileHandler_Create(t *testing.T) {
	svc := &mockProfileService{
		createFn: func(ctx context.Context, profile *model.Profile) error {
			profile.ID = "generated-id"
			profile.Created = "2026-01-01T00:00:00Z"
			return nil
		},
	}
	h := NewProfileHandler(svc)

	body := `{"email":"alice@example.com","password":"hash1","username":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var got model.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if got.ID != "generated-id" {
		t.Errorf("ID = %q, want %q", got.ID, "generated-id")
	}
	if got.Password != "" {
		t.Error("レスポンスにパスワードハッシュが含まれている")
	}
}

func TestProfileHandler_Create_DuplicateEmail(t *testing.T) {
	svc := &mockProfileService{
		createFn: func(ctx context.Context, profile *model.Profile) error {
			return model.NewDuplicateEmailError(profile.Email)
		},
	}
	h := NewProfileHandler(svc)

	body := `{"email":"alice@example.com","password":"hash1","username":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	var errBody map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("エラーレスポンスのパースに失敗: %v", err)
	}
	if errBody["code"] != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", errBody["code"], model.ErrCodeDuplicateEmail)
	}
}

func TestProfileHandler_Create_InvalidJSON(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})

	req := httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader("{invalid"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestProfileHandler_Login(t *testing.T) {
	svc := &mockProfileService{
		loginFn: func(ctx context.Context, email, password string) (*model.Profile, error) {
			return &model.Profile{ID: "u1", Email: email, Username: "alice"}, nil
		},
	}
	h := NewProfileHandler(svc)

	body := `{"email":"alice@example.com","password":"hash1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got model.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if got.ID != "u1" || got.Username != "alice" {
		t.Errorf("profile = %+v, want ID=u1 Username=alice", got)
	}
}

func TestProfileHandler_Login_WrongCredentials(t *testing.T) {
	svc := &mockProfileService{
		loginFn: func(ctx context.Context, email, password string) (*model.Profile, error) {
			return nil, model.NewUnauthenticatedError()
		},
	}
	h := NewProfileHandler(svc)

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestProfileHandler_Remove(t *testing.T) {
	var gotID, gotPassword string
	svc := &mockProfileService{
		removeFn: func(ctx context.Context, id, password string) error {
			gotID, gotPassword = id, password
			return nil
		},
	}
	h := NewProfileHandler(svc)

	body := `{"id":"u1","password":"hash1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profiles/remove", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotID != "u1" || gotPassword != "hash1" {
		t.Errorf("資格情報がサービスに渡っていない: id=%q password=%q", gotID, gotPassword)
	}
}
