package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

func upsertComment(ctx context.Context, ex execer, comment *model.Comment) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO comments (ukey, comment, created, card_id, user_id, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (ukey) DO UPDATE
		 SET comment = EXCLUDED.comment, card_id = EXCLUDED.card_id, active = EXCLUDED.active`,
		comment.ID, comment.Text, comment.Created, comment.CardID, comment.UserID, comment.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert comment: %w", err)
	}
	return nil
}

// Upsert はコメントを挿入または全フィールド置換で更新する。
// 投稿者（user_id）は作成後は変更しない。
func (r *PostgresCommentRepo) Upsert(ctx context.Context, comment *model.Comment) error {
	return upsertComment(ctx, r.db, comment)
}

// Update は既存コメントを更新し、影響行数を返す。
func (r *PostgresCommentRepo) Update(ctx context.Context, comment *model.Comment) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET comment = $1, card_id = $2, active = $3 WHERE ukey = $4`,
		comment.Text, comment.CardID, comment.Active, comment.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update comment: %w", err)
	}

	return result.RowsAffected()
}

// ListByCards は複数カード配下のアクティブなコメントをcreated順でまとめて返す。
func (r *PostgresCommentRepo) ListByCards(ctx context.Context, cardIDs []string) ([]model.Comment, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, comment, created, card_id, user_id, active FROM comments
		 WHERE card_id = ANY($1) AND active = TRUE
		 ORDER BY created, ukey`,
		pq.Array(cardIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by cards: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.Created, &c.CardID, &c.UserID, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// CardIDByCommentID はコメントIDから親カードIDを引く。
// 祖先チェーン解決用のためactiveは意図的に無視し、行が無ければ空文字列を返す。
func (r *PostgresCommentRepo) CardIDByCommentID(ctx context.Context, commentID string) (string, error) {
	var cardID string
	err := r.db.QueryRowContext(ctx,
		`SELECT card_id FROM comments WHERE ukey = $1`,
		commentID,
	).Scan(&cardID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve card id from comment: %w", err)
	}

	return cardID, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
