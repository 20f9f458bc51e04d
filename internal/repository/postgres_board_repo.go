package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresBoardRepo はPostgreSQLを使用したボードリポジトリ。
type PostgresBoardRepo struct {
	db *sql.DB
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

// FindByID は指定IDのアクティブなボードを取得する。
// 行が無い場合はエラーではなく空IDのゼロ値Boardを返し、
// 呼び出し側はIDの空判定で不在を検出する。
func (r *PostgresBoardRepo) FindByID(ctx context.Context, id string) (model.Board, error) {
	var board model.Board
	err := r.db.QueryRowContext(ctx,
		`SELECT ukey, name, created, user_id, active FROM boards
		 WHERE ukey = $1 AND active = TRUE`,
		id,
	).Scan(&board.ID, &board.Name, &board.Created, &board.UserID, &board.Active)

	if err == sql.ErrNoRows {
		return model.Board{}, nil
	}
	if err != nil {
		return model.Board{}, fmt.Errorf("failed to find board: %w", err)
	}

	return board, nil
}

// OwnerByID は指定IDのボードの所有者IDを返す。
// 祖先ホップ検索と同じく、論理削除済みの行も対象とする。
// 行が無い場合は空文字列を返す。
func (r *PostgresBoardRepo) OwnerByID(ctx context.Context, id string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM boards WHERE ukey = $1`,
		id,
	).Scan(&userID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find board owner: %w", err)
	}

	return userID, nil
}

// ListByOwner は指定ユーザーが所有するアクティブなボードをcreated順で返す。
// 部分木スライスは含まない。
func (r *PostgresBoardRepo) ListByOwner(ctx context.Context, userID string) ([]model.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, name, created, user_id, active FROM boards
		 WHERE user_id = $1 AND active = TRUE
		 ORDER BY created, ukey`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards by owner: %w", err)
	}
	defer rows.Close()

	var boards []model.Board
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Created, &b.UserID, &b.Active); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return boards, nil
}

// AddMember はメンバー行を無条件に挿入する。
// 重複判定は呼び出し側（サービス層のIsMember）の責務。
func (r *PostgresBoardRepo) AddMember(ctx context.Context, boardID, userID, created string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO board_members (board_id, user_id, created) VALUES ($1, $2, $3)`,
		boardID, userID, created,
	)
	if err != nil {
		return fmt.Errorf("failed to add board member: %w", err)
	}
	return nil
}

// ListMembers はボードの全メンバー行を取得し、プロフィールのemailとusernameを補完して返す。
// 結合は使わず、メンバー行の取得とプロフィールの一括取得の2クエリで構成する。
func (r *PostgresBoardRepo) ListMembers(ctx context.Context, boardID string) ([]model.BoardMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT board_id, user_id, created FROM board_members
		 WHERE board_id = $1
		 ORDER BY created, user_id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list board members: %w", err)
	}
	defer rows.Close()

	var members []model.BoardMember
	var userIDs []string
	for rows.Next() {
		var m model.BoardMember
		if err := rows.Scan(&m.BoardID, &m.UserID, &m.Created); err != nil {
			return nil, fmt.Errorf("failed to scan board member: %w", err)
		}
		members = append(members, m)
		userIDs = append(userIDs, m.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate board members: %w", err)
	}

	if len(members) == 0 {
		return nil, nil
	}

	profileRows, err := r.db.QueryContext(ctx,
		`SELECT ukey, email, username FROM profiles WHERE ukey = ANY($1)`,
		pq.Array(userIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load member profiles: %w", err)
	}
	defer profileRows.Close()

	type profileInfo struct {
		email    string
		username string
	}
	profiles := make(map[string]profileInfo, len(userIDs))
	for profileRows.Next() {
		var id string
		var p profileInfo
		if err := profileRows.Scan(&id, &p.email, &p.username); err != nil {
			return nil, fmt.Errorf("failed to scan member profile: %w", err)
		}
		profiles[id] = p
	}
	if err := profileRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member profiles: %w", err)
	}

	// プロフィールが削除済みのメンバー行は補完なしでそのまま返す。
	for i := range members {
		if p, ok := profiles[members[i].UserID]; ok {
			members[i].Email = p.email
			members[i].Username = p.username
		}
	}

	return members, nil
}

// IsMember は指定プロフィールがボードのメンバーとして登録されているかを返す。
func (r *PostgresBoardRepo) IsMember(ctx context.Context, userID, boardID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM board_members WHERE user_id = $1 AND board_id = $2
		 )`,
		userID, boardID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check board membership: %w", err)
	}

	return exists, nil
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
