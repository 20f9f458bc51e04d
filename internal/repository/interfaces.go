// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/boardman/internal/model"
)

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// Create はプロフィールを作成する。
	// メールアドレスが既に登録済みの場合はmodel.ErrCodeDuplicateEmailのAPIErrorを返す。
	Create(ctx context.Context, profile *model.Profile) error

	// FindByEmailAndPassword はメールアドレスとパスワードハッシュの組でプロフィールを検索する。
	// 見つからない場合はnilを返す。返り値のPasswordフィールドは空。
	FindByEmailAndPassword(ctx context.Context, email, password string) (*model.Profile, error)

	// FindIDByEmail はメールアドレスからプロフィールIDを検索する。
	// 見つからない場合は空文字列を返す。
	FindIDByEmail(ctx context.Context, email string) (string, error)

	// ExistsByIDAndPassword はIDとパスワードハッシュの組が登録済みかを返す。
	ExistsByIDAndPassword(ctx context.Context, id, password string) (bool, error)

	// DeleteByID は指定IDのプロフィールを物理削除し、影響行数を返す。
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// TreeSaveResult はボード部分木保存の集計結果。
type TreeSaveResult struct {
	// Upserted は挿入または更新された子エンティティの数（ボード行自体は含まない）。
	Upserted int
	// Skipped は必須フィールド欠落によりスキップされた子エンティティの数。
	Skipped int
}

// BoardRepository はボードとメンバーシップの永続化インターフェース。
type BoardRepository interface {
	// SaveTree はボードとその部分木全体を単一トランザクションでアップサートする。
	// 必須フィールドが欠けた子エンティティは黙ってスキップされ、Skippedに計上される。
	// 保存者のメンバー行が無ければ併せて作成する。
	SaveTree(ctx context.Context, board *model.Board) (*TreeSaveResult, error)

	// FindByID は指定IDのアクティブなボードを取得する。
	// 見つからない（または非アクティブの）場合は空IDのゼロ値Boardを返す。
	// nilやエラーで不在を表さないのは呼び出し側の番兵オブジェクト規約のため。
	FindByID(ctx context.Context, id string) (model.Board, error)

	// OwnerByID はボードの所有者IDを引く。activeは無視する。
	// 論理削除済みボードの認可判定に使うため、行が無い場合のみ空文字列を返す。
	OwnerByID(ctx context.Context, id string) (string, error)

	// ListByOwner は指定ユーザーが所有するアクティブなボード一覧を返す。
	ListByOwner(ctx context.Context, userID string) ([]model.Board, error)

	// AddMember はメンバー行を無条件に挿入する。重複行の排除は行わない。
	AddMember(ctx context.Context, boardID, userID, created string) error

	// ListMembers はボードの全メンバーをプロフィール情報（email, username）付きで返す。
	ListMembers(ctx context.Context, boardID string) ([]model.BoardMember, error)

	// IsMember は指定プロフィールがボードのメンバーかを返す。
	IsMember(ctx context.Context, userID, boardID string) (bool, error)
}

// ListRepository はリストデータの永続化インターフェース。
type ListRepository interface {
	// Upsert はリストを挿入し、同一IDの行が既にあれば全フィールドを置き換える。
	Upsert(ctx context.Context, list *model.List) error

	// Update は既存リストを更新し、影響行数を返す（IDが一致しなければ0）。
	Update(ctx context.Context, list *model.List) (int64, error)

	// ListByBoard はボード配下のアクティブなリストをcreated順で返す。
	ListByBoard(ctx context.Context, boardID string) ([]model.List, error)

	// BoardIDByListID はリストIDから親ボードIDを引く。activeは無視する。
	// 行が無ければ空文字列を返す。
	BoardIDByListID(ctx context.Context, listID string) (string, error)
}

// CardRepository はカードデータの永続化インターフェース。
type CardRepository interface {
	Upsert(ctx context.Context, card *model.Card) error
	Update(ctx context.Context, card *model.Card) (int64, error)

	// ListByLists は複数リスト配下のアクティブなカードをまとめて返す。
	ListByLists(ctx context.Context, listIDs []string) ([]model.Card, error)

	// ListIDByCardID はカードIDから親リストIDを引く。activeは無視する。
	ListIDByCardID(ctx context.Context, cardID string) (string, error)
}

// ChecklistRepository はチェックリストデータの永続化インターフェース。
type ChecklistRepository interface {
	Upsert(ctx context.Context, checklist *model.Checklist) error
	Update(ctx context.Context, checklist *model.Checklist) (int64, error)
	ListByCards(ctx context.Context, cardIDs []string) ([]model.Checklist, error)

	// CardIDByChecklistID はチェックリストIDから親カードIDを引く。activeは無視する。
	CardIDByChecklistID(ctx context.Context, checklistID string) (string, error)
}

// PointRepository はチェックリスト項目データの永続化インターフェース。
type PointRepository interface {
	Upsert(ctx context.Context, point *model.ChecklistPoint) error
	Update(ctx context.Context, point *model.ChecklistPoint) (int64, error)
	ListByChecklists(ctx context.Context, checklistIDs []string) ([]model.ChecklistPoint, error)

	// ChecklistIDByPointID は項目IDから親チェックリストIDを引く。activeは無視する。
	ChecklistIDByPointID(ctx context.Context, pointID string) (string, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	Upsert(ctx context.Context, comment *model.Comment) error
	Update(ctx context.Context, comment *model.Comment) (int64, error)
	ListByCards(ctx context.Context, cardIDs []string) ([]model.Comment, error)

	// CardIDByCommentID はコメントIDから親カードIDを引く。activeは無視する。
	CardIDByCommentID(ctx context.Context, commentID string) (string, error)
}

// execer は*sql.DBと*sql.Txの共通部分。
// アップサートヘルパーを単発呼び出しとトランザクション内の双方で使うための抽象。
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
