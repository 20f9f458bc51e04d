package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// BoardServiceInterface はボードサービスのインターフェース。
type BoardServiceInterface interface {
	SaveBoard(ctx context.Context, creds board.Credentials, b *model.Board) (*repository.TreeSaveResult, error)
	GetBoards(ctx context.Context, creds board.Credentials) ([]model.Board, error)
	GetBoard(ctx context.Context, creds board.Credentials, boardID string) (*model.Board, error)
	GetMembers(ctx context.Context, creds board.Credentials, boardID string) ([]model.BoardMember, error)
	AddMember(ctx context.Context, creds board.Credentials, boardID, email string) error
}

// BoardHandler はボード関連のHTTPリクエストを処理する。
// セッションを持たないため、資格情報は各リクエストボディで受け取る。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

type saveBoardRequest struct {
	UserID   string           `json:"user_id"`
	Password string           `json:"password"`
	Board    boardTreePayload `json:"board"`
}

type saveBoardResponse struct {
	ID       string `json:"id"`
	Upserted int    `json:"upserted"`
	Skipped  int    `json:"skipped"`
}

type credentialsRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type addMemberRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (req credentialsRequest) credentials() board.Credentials {
	return board.Credentials{UserID: req.UserID, Password: req.Password}
}

// Save はボード部分木全体を一括で保存する。
// POST /api/boards
func (h *BoardHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveBoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	b := req.Board.toModel()
	result, err := h.service.SaveBoard(r.Context(), creds, b)
	if err != nil {
		handleServiceError(w, err, "board.SaveBoard")
		return
	}
	writeJSON(w, http.StatusOK, saveBoardResponse{
		ID:       b.ID,
		Upserted: result.Upserted,
		Skipped:  result.Skipped,
	})
}

// List は利用者が所有するボードの一覧を返す。
// POST /api/boards/all
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	boards, err := h.service.GetBoards(r.Context(), req.credentials())
	if err != nil {
		handleServiceError(w, err, "board.GetBoards")
		return
	}
	if boards == nil {
		boards = []model.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

// Get はボードの部分木全体を取得する。
// POST /api/boards/{boardID}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	boardID := chi.URLParam(r, "boardID")
	b, err := h.service.GetBoard(r.Context(), req.credentials(), boardID)
	if err != nil {
		handleServiceError(w, err, "board.GetBoard")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Members はボードのメンバー一覧を返す。
// POST /api/boards/{boardID}/members
func (h *BoardHandler) Members(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	boardID := chi.URLParam(r, "boardID")
	members, err := h.service.GetMembers(r.Context(), req.credentials(), boardID)
	if err != nil {
		handleServiceError(w, err, "board.GetMembers")
		return
	}
	if members == nil {
		members = []model.BoardMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// AddMember はメールアドレスで指定したプロフィールをボードに追加する。
// POST /api/boards/{boardID}/members/add
func (h *BoardHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	boardID := chi.URLParam(r, "boardID")
	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	if err := h.service.AddMember(r.Context(), creds, boardID, req.Email); err != nil {
		handleServiceError(w, err, "board.AddMember")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
