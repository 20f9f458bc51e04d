package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

type mockBoardService struct {
	saveBoardFn  func(ctx context.Context, creds board.Credentials, b *model.Board) (*repository.TreeSaveResult, error)
	getBoardsFn  func(ctx context.Context, creds board.Credentials) ([]model.Board, error)
	getBoardFn   func(ctx context.Context, creds board.Credentials, boardID string) (*model.Board, error)
	getMembersFn func(ctx context.Context, creds board.Credentials, boardID string) ([]model.BoardMember, error)
	addMemberFn  func(ctx context.Context, creds board.Credentials, boardID, email string) error
}

func (m *mockBoardService) SaveBoard(ctx context.Context, creds board.Credentials, b *model.Board) (*repository.TreeSaveResult, error) {
	if m.saveBoardFn != nil {
		return m.saveBoardFn(ctx, creds, b)
	}
	return &repository.TreeSaveResult{}, nil
}

func (m *mockBoardService) GetBoards(ctx context.Context, creds board.Credentials) ([]model.Board, error) {
	if m.getBoardsFn != nil {
		return m.getBoardsFn(ctx, creds)
	}
	return nil, nil
}

func (m *mockBoardService) GetBoard(ctx context.Context, creds board.Credentials, boardID string) (*model.Board, error) {
	if m.getBoardFn != nil {
		return m.getBoardFn(ctx, creds, boardID)
	}
	return &model.Board{ID: boardID}, nil
}

func (m *mockBoardService) GetMembers(ctx context.Context, creds board.Credentials, boardID string) ([]model.BoardMember, error) {
	if m.getMembersFn != nil {
		return m.getMembersFn(ctx, creds, boardID)
	}
	return nil, nil
}

func (m *mockBoardService) AddMember(ctx context.Context, creds board.Credentials, boardID, email string) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, creds, boardID, email)
	}
	return nil
}

// newChiRequest はchiのURLパラメータを解決できるリクエストを生成する。
func newChiRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBoardHandler_Save(t *testing.T) {
	var gotBoard *model.Board
	svc := &mockBoardService{
		saveBoardFn: func(ctx context.Context, creds board.Credentials, b *model.Board) (*repository.TreeSaveResult, error) {
			b.ID = "board-new"
			gotBoard = b
			return &repository.TreeSaveResult{Upserted: 2, Skipped: 1}, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{
		"user_id": "u1", "password": "hash1",
		"board": {
			"name": "計画ボード",
			"lists": [{"id": "l1", "name": "TODO", "board_id": "", "created": ""}]
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp saveBoardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	if resp.ID != "board-new" || resp.Upserted != 2 || resp.Skipped != 1 {
		t.Errorf("response = %+v, want ID=board-new Upserted=2 Skipped=1", resp)
	}
	// activeは省略時trueになる
	if gotBoard == nil || !gotBoard.Active {
		t.Error("ボードのactiveが省略時trueになっていない")
	}
	if len(gotBoard.Lists) != 1 || !gotBoard.Lists[0].Active {
		t.Error("リストのactiveが省略時trueになっていない")
	}
}

func TestBoardHandler_Save_NonMember(t *testing.T) {
	svc := &mockBoardService{
		saveBoardFn: func(ctx context.Context, creds board.Credentials, b *model.Board) (*repository.TreeSaveResult, error) {
			return nil, model.NewNotMemberError()
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u2", "password": "hash2", "board": {"id": "b1", "name": "x"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestBoardHandler_List_EmptyResultIsArray(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	body := `{"user_id": "u1", "password": "hash1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/boards/all", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want %q", got, "[]")
	}
}

func TestBoardHandler_Get_PassesBoardID(t *testing.T) {
	var gotBoardID string
	svc := &mockBoardService{
		getBoardFn: func(ctx context.Context, creds board.Credentials, boardID string) (*model.Board, error) {
			gotBoardID = boardID
			return &model.Board{ID: boardID, Name: "計画ボード", Active: true}, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u1", "password": "hash1"}`
	req := newChiRequest(http.MethodPost, "/api/boards/b1", body, map[string]string{"boardID": "b1"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotBoardID != "b1" {
		t.Errorf("boardID = %q, want %q", gotBoardID, "b1")
	}
}

func TestBoardHandler_Get_NotFound(t *testing.T) {
	svc := &mockBoardService{
		getBoardFn: func(ctx context.Context, creds board.Credentials, boardID string) (*model.Board, error) {
			return nil, model.NewBoardNotFoundError(boardID)
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u1", "password": "hash1"}`
	req := newChiRequest(http.MethodPost, "/api/boards/missing", body, map[string]string{"boardID": "missing"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBoardHandler_AddMember(t *testing.T) {
	var gotBoardID, gotEmail string
	svc := &mockBoardService{
		addMemberFn: func(ctx context.Context, creds board.Credentials, boardID, email string) error {
			gotBoardID, gotEmail = boardID, email
			return nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u1", "password": "hash1", "email": "bob@example.com"}`
	req := newChiRequest(http.MethodPost, "/api/boards/b1/members/add", body, map[string]string{"boardID": "b1"})
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotBoardID != "b1" || gotEmail != "bob@example.com" {
		t.Errorf("boardID=%q email=%q, want b1 / bob@example.com", gotBoardID, gotEmail)
	}
}

func TestBoardHandler_AddMember_UnknownEmail(t *testing.T) {
	svc := &mockBoardService{
		addMemberFn: func(ctx context.Context, creds board.Credentials, boardID, email string) error {
			return model.NewProfileNotFoundError(email)
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u1", "password": "hash1", "email": "nobody@example.com"}`
	req := newChiRequest(http.MethodPost, "/api/boards/b1/members/add", body, map[string]string{"boardID": "b1"})
	rec := httptest.NewRecorder()
	h.AddMember(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBoardHandler_Members_Unauthenticated(t *testing.T) {
	svc := &mockBoardService{
		getMembersFn: func(ctx context.Context, creds board.Credentials, boardID string) ([]model.BoardMember, error) {
			return nil, model.NewUnauthenticatedError()
		},
	}
	h := NewBoardHandler(svc)

	body := `{"user_id": "u1", "password": "wrong"}`
	req := newChiRequest(http.MethodPost, "/api/boards/b1/members", body, map[string]string{"boardID": "b1"})
	rec := httptest.NewRecorder()
	h.Members(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
