package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresListRepo はPostgreSQLを使用したリストリポジトリ。
type PostgresListRepo struct {
	db *sql.DB
}

// NewPostgresListRepo はPostgresListRepoを生成する。
func NewPostgresListRepo(db *sql.DB) *PostgresListRepo {
	return &PostgresListRepo{db: db}
}

// upsertList はリストを挿入し、同一ukeyの行があれば全フィールドを置き換える。
// createdは採番後は不変のため更新対象に含めない。
func upsertList(ctx context.Context, ex execer, list *model.List) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO lists (ukey, name, created, board_id, active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ukey) DO UPDATE
		 SET name = EXCLUDED.name, board_id = EXCLUDED.board_id, active = EXCLUDED.active`,
		list.ID, list.Name, list.Created, list.BoardID, list.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert list: %w", err)
	}
	return nil
}

// Upsert はリストを挿入または全フィールド置換で更新する。
func (r *PostgresListRepo) Upsert(ctx context.Context, list *model.List) error {
	return upsertList(ctx, r.db, list)
}

// Update は既存リストを更新し、影響行数を返す。
func (r *PostgresListRepo) Update(ctx context.Context, list *model.List) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE lists SET name = $1, active = $2 WHERE ukey = $3`,
		list.Name, list.Active, list.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update list: %w", err)
	}

	return result.RowsAffected()
}

// ListByBoard はボード配下のアクティブなリストをcreated順で返す。
func (r *PostgresListRepo) ListByBoard(ctx context.Context, boardID string) ([]model.List, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, name, created, board_id, active FROM lists
		 WHERE board_id = $1 AND active = TRUE
		 ORDER BY created, ukey`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists by board: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Created, &l.BoardID, &l.Active); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	return lists, nil
}

// BoardIDByListID はリストIDから親ボードIDを引く。
// 祖先チェーン解決用のためactiveは意図的に無視し、行が無ければ空文字列を返す。
func (r *PostgresListRepo) BoardIDByListID(ctx context.Context, listID string) (string, error) {
	var boardID string
	err := r.db.QueryRowContext(ctx,
		`SELECT board_id FROM lists WHERE ukey = $1`,
		listID,
	).Scan(&boardID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve board id from list: %w", err)
	}

	return boardID, nil
}

// compile-time interface check
var _ ListRepository = (*PostgresListRepo)(nil)
