package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresPointRepo はPostgreSQLを使用したチェックリスト項目リポジトリ。
type PostgresPointRepo struct {
	db *sql.DB
}

// NewPostgresPointRepo はPostgresPointRepoを生成する。
func NewPostgresPointRepo(db *sql.DB) *PostgresPointRepo {
	return &PostgresPointRepo{db: db}
}

func upsertPoint(ctx context.Context, ex execer, point *model.ChecklistPoint) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO checklist_points (ukey, description, created, checklist_id, checked, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (ukey) DO UPDATE
		 SET description = EXCLUDED.description, checklist_id = EXCLUDED.checklist_id,
		     checked = EXCLUDED.checked, active = EXCLUDED.active`,
		point.ID, point.Description, point.Created, point.ChecklistID, point.Checked, point.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert checklist point: %w", err)
	}
	return nil
}

// Upsert はチェックリスト項目を挿入または全フィールド置換で更新する。
func (r *PostgresPointRepo) Upsert(ctx context.Context, point *model.ChecklistPoint) error {
	return upsertPoint(ctx, r.db, point)
}

// Update は既存項目を更新し、影響行数を返す。checkedトグルもここで反映される。
func (r *PostgresPointRepo) Update(ctx context.Context, point *model.ChecklistPoint) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE checklist_points
		 SET description = $1, checklist_id = $2, checked = $3, active = $4
		 WHERE ukey = $5`,
		point.Description, point.ChecklistID, point.Checked, point.Active, point.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update checklist point: %w", err)
	}

	return result.RowsAffected()
}

// ListByChecklists は複数チェックリスト配下のアクティブな項目をcreated順でまとめて返す。
func (r *PostgresPointRepo) ListByChecklists(ctx context.Context, checklistIDs []string) ([]model.ChecklistPoint, error) {
	if len(checklistIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ukey, description, created, checklist_id, checked, active FROM checklist_points
		 WHERE checklist_id = ANY($1) AND active = TRUE
		 ORDER BY created, ukey`,
		pq.Array(checklistIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist points: %w", err)
	}
	defer rows.Close()

	var points []model.ChecklistPoint
	for rows.Next() {
		var p model.ChecklistPoint
		if err := rows.Scan(&p.ID, &p.Description, &p.Created, &p.ChecklistID, &p.Checked, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan checklist point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checklist points: %w", err)
	}

	return points, nil
}

// ChecklistIDByPointID は項目IDから親チェックリストIDを引く。
// 祖先チェーン解決用のためactiveは意図的に無視し、行が無ければ空文字列を返す。
func (r *PostgresPointRepo) ChecklistIDByPointID(ctx context.Context, pointID string) (string, error) {
	var checklistID string
	err := r.db.QueryRowContext(ctx,
		`SELECT checklist_id FROM checklist_points WHERE ukey = $1`,
		pointID,
	).Scan(&checklistID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve checklist id from point: %w", err)
	}

	return checklistID, nil
}

// compile-time interface check
var _ PointRepository = (*PostgresPointRepo)(nil)
