package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// SaveTree はボードとそのフラット部分木全体を単一トランザクションでアップサートする。
// ボード行を保存した後、リスト・カード・チェックリスト・項目・コメントの順に
// 各子エンティティを処理する。必須フィールドが欠けた子はエラーにせず黙ってスキップし、
// Skippedに計上する。部分木に含まれない既存行には一切触れない。
// 保存者のメンバー行が無ければ最後に作成する。
func (r *PostgresBoardRepo) SaveTree(ctx context.Context, board *model.Board) (*TreeSaveResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin board save transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO boards (ukey, name, created, user_id, active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ukey) DO UPDATE
		 SET name = EXCLUDED.name, active = EXCLUDED.active`,
		board.ID, board.Name, board.Created, board.UserID, board.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert board: %w", err)
	}

	result := &TreeSaveResult{}

	for i := range board.Lists {
		l := &board.Lists[i]
		if l.ID == "" || l.Name == "" || l.Created == "" || l.BoardID == "" {
			result.Skipped++
			continue
		}
		if err := upsertList(ctx, tx, l); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	for i := range board.Cards {
		c := &board.Cards[i]
		if c.ID == "" || c.Name == "" || c.Created == "" || c.ListID == "" {
			result.Skipped++
			continue
		}
		if err := upsertCard(ctx, tx, c); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	for i := range board.Checklists {
		c := &board.Checklists[i]
		if c.ID == "" || c.Name == "" || c.Created == "" || c.CardID == "" {
			result.Skipped++
			continue
		}
		if err := upsertChecklist(ctx, tx, c); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	for i := range board.Points {
		p := &board.Points[i]
		if p.ID == "" || p.Description == "" || p.Created == "" || p.ChecklistID == "" {
			result.Skipped++
			continue
		}
		if err := upsertPoint(ctx, tx, p); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	for i := range board.Comments {
		c := &board.Comments[i]
		if c.ID == "" || c.Text == "" || c.Created == "" || c.CardID == "" || c.UserID == "" {
			result.Skipped++
			continue
		}
		if err := upsertComment(ctx, tx, c); err != nil {
			return nil, err
		}
		result.Upserted++
	}

	// 保存者をメンバーに登録する。既に行があれば何もしない。
	_, err = tx.ExecContext(ctx,
		`INSERT INTO board_members (board_id, user_id, created)
		 SELECT $1, $2, $3
		 WHERE NOT EXISTS (
		   SELECT 1 FROM board_members WHERE board_id = $1 AND user_id = $2
		 )`,
		board.ID, board.UserID, board.Created,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit board save transaction: %w", err)
	}

	return result, nil
}
