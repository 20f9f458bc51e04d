package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresCardRepo はPostgreSQLを使用したカードリポジトリ。
type PostgresCardRepo struct {
	db *sql.DB
}

// NewPostgresCardRepo はPostgresCardRepoを生成する。
func NewPostgresCardRepo(db *sql.DB) *PostgresCardRepo {
	return &PostgresCardRepo{db: db}
}

// upsertCard はカードを挿入し、同一ukeyの行があれば全フィールドを置き換える。
// list_idの置換はカードのリスト間移動に相当する。
func upsertCard(ctx context.Context, ex execer, card *model.Card) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO cards (ukey, name, description, created, list_id, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (ukey) DO UPDATE
		 SET name = EXCLUDED.name, description = EXCLUDED.description,
		     list_id = EXCLUDED.list_id, active = EXCLUDED.active`,
		card.ID, card.Name, card.Description, card.Created, card.ListID, card.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}
	return nil
}

// Upsert はカードを挿入または全フィールド置換で更新する。
func (r *PostgresCardRepo) Upsert(ctx context.Context, card *model.Card) error {
	return upsertCard(ctx, r.db, card)
}

// Update は既存カードを更新し、影響行数を返す。
// list_idも更新対象のため、カードを別リストに移動できる。
func (r *PostgresCardRepo) Update(ctx context.Context, card *model.Card) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards SET name = $1, description = $2, list_id = $3, active = $4 WHERE ukey = $5`,
		card.Name, card.Description, card.ListID, card.Active, card.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update card: %w", err)
	}

	return result.RowsAffected()
}

// ListByLists は複数リスト配下のアクティブなカードをcreated順でまとめて返す。
// リストIDが空の場合はクエリを発行せずnilを返す。
func (r *PostgresCardRepo) ListByLists(ctx context.Context, listIDs []string) ([]model.Card, error) {
	if len(listIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, name, description, created, list_id, active FROM cards
		 WHERE list_id = ANY($1) AND active = TRUE
		 ORDER BY created, ukey`,
		pq.Array(listIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards by lists: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Created, &c.ListID, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// ListIDByCardID はカードIDから親リストIDを引く。
// 祖先チェーン解決用のためactiveは意図的に無視し、行が無ければ空文字列を返す。
func (r *PostgresCardRepo) ListIDByCardID(ctx context.Context, cardID string) (string, error) {
	var listID string
	err := r.db.QueryRowContext(ctx,
		`SELECT list_id FROM cards WHERE ukey = $1`,
		cardID,
	).Scan(&listID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve list id from card: %w", err)
	}

	return listID, nil
}

// compile-time interface check
var _ CardRepository = (*PostgresCardRepo)(nil)
