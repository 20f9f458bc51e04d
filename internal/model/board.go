// Package model はドメインモデルを定義する。
package model

// Board はタスクボードを表す。
// Lists以下のスライスはボード全体の保存・取得時にのみ使用するフラットな部分木で、
// 単体のボード行にはID・Name・Created・UserID・Activeのみが対応する。
type Board struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
	UserID  string `json:"user_id"`
	Active  bool   `json:"active"`

	Lists      []List           `json:"lists"`
	Cards      []Card           `json:"cards"`
	Checklists []Checklist      `json:"checklists"`
	Points     []ChecklistPoint `json:"points"`
	Comments   []Comment        `json:"comments"`
}

// List はボード内のリスト（カードの列）を表す。
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BoardID string `json:"board_id"`
	Created string `json:"created"`
	Active  bool   `json:"active"`
}

// Card はリスト内のカードを表す。
type Card struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ListID      string `json:"list_id"`
	Created     string `json:"created"`
	Active      bool   `json:"active"`
}

// Checklist はカードに付くチェックリストを表す。
type Checklist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CardID  string `json:"card_id"`
	Created string `json:"created"`
	Active  bool   `json:"active"`
}

// ChecklistPoint はチェックリストの項目を表す。
type ChecklistPoint struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ChecklistID string `json:"checklist_id"`
	Created     string `json:"created"`
	Checked     bool   `json:"checked"`
	Active      bool   `json:"active"`
}

// Comment はカードへのコメントを表す。UserIDは投稿者のプロフィールID。
type Comment struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	CardID  string `json:"card_id"`
	UserID  string `json:"user_id"`
	Created string `json:"created"`
	Active  bool   `json:"active"`
}

// BoardMember はボードとプロフィールの多対多関連を表す。
// EmailとUsernameはメンバー一覧取得時にプロフィールから補完される表示用フィールド。
type BoardMember struct {
	BoardID  string `json:"board_id"`
	UserID   string `json:"user_id"`
	Created  string `json:"created"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}
