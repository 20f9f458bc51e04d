package handler

import "github.com/hitoshi/boardman/internal/model"

// activeOrDefault はactiveフィールド省略時のデフォルト値（true）を解決する。
// falseの明示指定（ソフト削除）と省略を区別するためポインタで受け取る。
func activeOrDefault(active *bool) bool {
	if active == nil {
		return true
	}
	return *active
}

type listPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BoardID string `json:"board_id"`
	Created string `json:"created"`
	Active  *bool  `json:"active"`
}

func (p listPayload) toModel() model.List {
	return model.List{
		ID:      p.ID,
		Name:    p.Name,
		BoardID: p.BoardID,
		Created: p.Created,
		Active:  activeOrDefault(p.Active),
	}
}

type cardPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ListID      string `json:"list_id"`
	Created     string `json:"created"`
	Active      *bool  `json:"active"`
}

func (p cardPayload) toModel() model.Card {
	return model.Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ListID:      p.ListID,
		Created:     p.Created,
		Active:      activeOrDefault(p.Active),
	}
}

type checklistPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CardID  string `json:"card_id"`
	Created string `json:"created"`
	Active  *bool  `json:"active"`
}

func (p checklistPayload) toModel() model.Checklist {
	return model.Checklist{
		ID:      p.ID,
		Name:    p.Name,
		CardID:  p.CardID,
		Created: p.Created,
		Active:  activeOrDefault(p.Active),
	}
}

type pointPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ChecklistID string `json:"checklist_id"`
	Created     string `json:"created"`
	Checked     bool   `json:"checked"`
	Active      *bool  `json:"active"`
}

func (p pointPayload) toModel() model.ChecklistPoint {
	return model.ChecklistPoint{
		ID:          p.ID,
		Description: p.Description,
		ChecklistID: p.ChecklistID,
		Created:     p.Created,
		Checked:     p.Checked,
		Active:      activeOrDefault(p.Active),
	}
}

type commentPayload struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	CardID  string `json:"card_id"`
	UserID  string `json:"user_id"`
	Created string `json:"created"`
	Active  *bool  `json:"active"`
}

func (p commentPayload) toModel() model.Comment {
	return model.Comment{
		ID:      p.ID,
		Text:    p.Text,
		CardID:  p.CardID,
		UserID:  p.UserID,
		Created: p.Created,
		Active:  activeOrDefault(p.Active),
	}
}

// boardTreePayload はボード保存リクエストの部分木全体を表す。
type boardTreePayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
	UserID  string `json:"user_id"`
	Active  *bool  `json:"active"`

	Lists      []listPayload      `json:"lists"`
	Cards      []cardPayload      `json:"cards"`
	Checklists []checklistPayload `json:"checklists"`
	Points     []pointPayload     `json:"points"`
	Comments   []commentPayload   `json:"comments"`
}

func (p boardTreePayload) toModel() *model.Board {
	board := &model.Board{
		ID:      p.ID,
		Name:    p.Name,
		Created: p.Created,
		UserID:  p.UserID,
		Active:  activeOrDefault(p.Active),
	}
	for _, l := range p.Lists {
		board.Lists = append(board.Lists, l.toModel())
	}
	for _, c := range p.Cards {
		board.Cards = append(board.Cards, c.toModel())
	}
	for _, cl := range p.Checklists {
		board.Checklists = append(board.Checklists, cl.toModel())
	}
	for _, pt := range p.Points {
		board.Points = append(board.Points, pt.toModel())
	}
	for _, cm := range p.Comments {
		board.Comments = append(board.Comments, cm.toModel())
	}
	return board
}
