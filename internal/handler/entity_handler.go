package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/model"
)

// EntityServiceInterface はボード配下エンティティの個別操作インターフェース。
type EntityServiceInterface interface {
	CreateList(ctx context.Context, creds board.Credentials, list *model.List) error
	UpdateList(ctx context.Context, creds board.Credentials, list *model.List) (int64, error)
	CreateCard(ctx context.Context, creds board.Credentials, card *model.Card) error
	UpdateCard(ctx context.Context, creds board.Credentials, card *model.Card) (int64, error)
	CreateChecklist(ctx context.Context, creds board.Credentials, checklist *model.Checklist) error
	UpdateChecklist(ctx context.Context, creds board.Credentials, checklist *model.Checklist) (int64, error)
	CreatePoint(ctx context.Context, creds board.Credentials, point *model.ChecklistPoint) error
	UpdatePoint(ctx context.Context, creds board.Credentials, point *model.ChecklistPoint) (int64, error)
	CreateComment(ctx context.Context, creds board.Credentials, comment *model.Comment) error
	UpdateComment(ctx context.Context, creds board.Credentials, comment *model.Comment) (int64, error)
}

// EntityHandler はリスト・カード・チェックリスト・項目・コメントの
// 個別作成・更新リクエストを処理する。
type EntityHandler struct {
	service EntityServiceInterface
}

// NewEntityHandler はEntityHandlerを生成する。
func NewEntityHandler(service EntityServiceInterface) *EntityHandler {
	return &EntityHandler{service: service}
}

type listRequest struct {
	UserID   string      `json:"user_id"`
	Password string      `json:"password"`
	List     listPayload `json:"list"`
}

type cardRequest struct {
	UserID   string      `json:"user_id"`
	Password string      `json:"password"`
	Card     cardPayload `json:"card"`
}

type checklistRequest struct {
	UserID    string           `json:"user_id"`
	Password  string           `json:"password"`
	Checklist checklistPayload `json:"checklist"`
}

type pointRequest struct {
	UserID   string       `json:"user_id"`
	Password string       `json:"password"`
	Point    pointPayload `json:"point"`
}

type commentRequest struct {
	UserID   string         `json:"user_id"`
	Password string         `json:"password"`
	Comment  commentPayload `json:"comment"`
}

type updateResponse struct {
	Updated int64 `json:"updated"`
}

// CreateList はリストを作成する。
// POST /api/lists
func (h *EntityHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	list := req.List.toModel()
	if err := h.service.CreateList(r.Context(), creds, &list); err != nil {
		handleServiceError(w, err, "board.CreateList")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// UpdateList はリストを更新する。activeをfalseにするとソフト削除になる。
// PUT /api/lists
func (h *EntityHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	list := req.List.toModel()
	affected, err := h.service.UpdateList(r.Context(), creds, &list)
	if err != nil {
		handleServiceError(w, err, "board.UpdateList")
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: affected})
}

// CreateCard はカードを作成する。所属リストから祖先のボードを解決して認可する。
// POST /api/cards
func (h *EntityHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	card := req.Card.toModel()
	if err := h.service.CreateCard(r.Context(), creds, &card); err != nil {
		handleServiceError(w, err, "board.CreateCard")
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard はカードを更新する。
// PUT /api/cards
func (h *EntityHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	card := req.Card.toModel()
	affected, err := h.service.UpdateCard(r.Context(), creds, &card)
	if err != nil {
		handleServiceError(w, err, "board.UpdateCard")
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: affected})
}

// CreateChecklist はチェックリストを作成する。
// POST /api/checklists
func (h *EntityHandler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	checklist := req.Checklist.toModel()
	if err := h.service.CreateChecklist(r.Context(), creds, &checklist); err != nil {
		handleServiceError(w, err, "board.CreateChecklist")
		return
	}
	writeJSON(w, http.StatusCreated, checklist)
}

// UpdateChecklist はチェックリストを更新する。
// PUT /api/checklists
func (h *EntityHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	checklist := req.Checklist.toModel()
	affected, err := h.service.UpdateChecklist(r.Context(), creds, &checklist)
	if err != nil {
		handleServiceError(w, err, "board.UpdateChecklist")
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: affected})
}

// CreatePoint はチェックリスト項目を作成する。
// POST /api/points
func (h *EntityHandler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	point := req.Point.toModel()
	if err := h.service.CreatePoint(r.Context(), creds, &point); err != nil {
		handleServiceError(w, err, "board.CreatePoint")
		return
	}
	writeJSON(w, http.StatusCreated, point)
}

// UpdatePoint はチェックリスト項目を更新する。チェック状態の切り替えにも使う。
// PUT /api/points
func (h *EntityHandler) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	point := req.Point.toModel()
	affected, err := h.service.UpdatePoint(r.Context(), creds, &point)
	if err != nil {
		handleServiceError(w, err, "board.UpdatePoint")
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: affected})
}

// CreateComment はカードへのコメントを作成する。
// POST /api/comments
func (h *EntityHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	comment := req.Comment.toModel()
	if err := h.service.CreateComment(r.Context(), creds, &comment); err != nil {
		handleServiceError(w, err, "board.CreateComment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// UpdateComment はコメントを更新する。
// PUT /api/comments
func (h *EntityHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds := board.Credentials{UserID: req.UserID, Password: req.Password}
	comment := req.Comment.toModel()
	affected, err := h.service.UpdateComment(r.Context(), creds, &comment)
	if err != nil {
		handleServiceError(w, err, "board.UpdateComment")
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: affected})
}
