package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresChecklistRepo はPostgreSQLを使用したチェックリストリポジトリ。
type PostgresChecklistRepo struct {
	db *sql.DB
}

// NewPostgresChecklistRepo はPostgresChecklistRepoを生成する。
func NewPostgresChecklistRepo(db *sql.DB) *PostgresChecklistRepo {
	return &PostgresChecklistRepo{db: db}
}

func upsertChecklist(ctx context.Context, ex execer, checklist *model.Checklist) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO checklists (ukey, name, created, card_id, active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ukey) DO UPDATE
		 SET name = EXCLUDED.name, card_id = EXCLUDED.card_id, active = EXCLUDED.active`,
		checklist.ID, checklist.Name, checklist.Created, checklist.CardID, checklist.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert checklist: %w", err)
	}
	return nil
}

// Upsert はチェックリストを挿入または全フィールド置換で更新する。
func (r *PostgresChecklistRepo) Upsert(ctx context.Context, checklist *model.Checklist) error {
	return upsertChecklist(ctx, r.db, checklist)
}

// Update は既存チェックリストを更新し、影響行数を返す。
func (r *PostgresChecklistRepo) Update(ctx context.Context, checklist *model.Checklist) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE checklists SET name = $1, card_id = $2, active = $3 WHERE ukey = $4`,
		checklist.Name, checklist.CardID, checklist.Active, checklist.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update checklist: %w", err)
	}

	return result.RowsAffected()
}

// ListByCards は複数カード配下のアクティブなチェックリストをcreated順でまとめて返す。
func (r *PostgresChecklistRepo) ListByCards(ctx context.Context, cardIDs []string) ([]model.Checklist, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, name, created, card_id, active FROM checklists
		 WHERE card_id = ANY($1) AND active = TRUE
		 ORDER BY created, ukey`,
		pq.Array(cardIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists by cards: %w", err)
	}
	defer rows.Close()

	var checklists []model.Checklist
	for rows.Next() {
		var c model.Checklist
		if err := rows.Scan(&c.ID, &c.Name, &c.Created, &c.CardID, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		checklists = append(checklists, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checklists: %w", err)
	}

	return checklists, nil
}

// CardIDByChecklistID はチェックリストIDから親カードIDを引く。
// 祖先チェーン解決用のためactiveは意図的に無視し、行が無ければ空文字列を返す。
func (r *PostgresChecklistRepo) CardIDByChecklistID(ctx context.Context, checklistID string) (string, error) {
	var cardID string
	err := r.db.QueryRowContext(ctx,
		`SELECT card_id FROM checklists WHERE ukey = $1`,
		checklistID,
	).Scan(&cardID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve card id from checklist: %w", err)
	}

	return cardID, nil
}

// compile-time interface check
var _ ChecklistRepository = (*PostgresChecklistRepo)(nil)
