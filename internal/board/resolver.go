// Package board はタスクボード管理のドメインロジックを提供する。
package board

import (
	"context"
	"fmt"
)

// ListHop はリストIDから親ボードIDを引くインターフェース。
type ListHop interface {
	BoardIDByListID(ctx context.Context, listID string) (string, error)
}

// CardHop はカードIDから親リストIDを引くインターフェース。
type CardHop interface {
	ListIDByCardID(ctx context.Context, cardID string) (string, error)
}

// ChecklistHop はチェックリストIDから親カードIDを引くインターフェース。
type ChecklistHop interface {
	CardIDByChecklistID(ctx context.Context, checklistID string) (string, error)
}

// PointHop はチェックリスト項目IDから親チェックリストIDを引くインターフェース。
type PointHop interface {
	ChecklistIDByPointID(ctx context.Context, pointID string) (string, error)
}

// CommentHop はコメントIDから親カードIDを引くインターフェース。
type CommentHop interface {
	CardIDByCommentID(ctx context.Context, commentID string) (string, error)
}

// Resolver は任意の子孫エンティティIDから所属ボードIDを解決する。
// 各エンティティ種別ごとに親チェーンのホップ数は固定で、
// ホップはactiveフラグを無視するため、非アクティブ化された中間行があっても解決できる。
// いずれかのホップで行が見つからなければ空文字列を返す（エラーにはしない）。
type Resolver struct {
	lists      ListHop
	cards      CardHop
	checklists ChecklistHop
	points     PointHop
	comments   CommentHop
}

// NewResolver はResolverの新しいインスタンスを生成する。
func NewResolver(
	lists ListHop,
	cards CardHop,
	checklists ChecklistHop,
	points PointHop,
	comments CommentHop,
) *Resolver {
	return &Resolver{
		lists:      lists,
		cards:      cards,
		checklists: checklists,
		points:     points,
		comments:   comments,
	}
}

// FromList はリストIDからボードIDを解決する（1ホップ）。
func (r *Resolver) FromList(ctx context.Context, listID string) (string, error) {
	if listID == "" {
		return "", nil
	}

	boardID, err := r.lists.BoardIDByListID(ctx, listID)
	if err != nil {
		return "", fmt.Errorf("リストからのボード解決に失敗しました: %w", err)
	}

	return boardID, nil
}

// FromCard はカードIDからボードIDを解決する（カード→リスト→ボードの2ホップ）。
func (r *Resolver) FromCard(ctx context.Context, cardID string) (string, error) {
	if cardID == "" {
		return "", nil
	}

	listID, err := r.cards.ListIDByCardID(ctx, cardID)
	if err != nil {
		return "", fmt.Errorf("カードからのリスト解決に失敗しました: %w", err)
	}

	return r.FromList(ctx, listID)
}

// FromChecklist はチェックリストIDからボードIDを解決する（3ホップ）。
func (r *Resolver) FromChecklist(ctx context.Context, checklistID string) (string, error) {
	if checklistID == "" {
		return "", nil
	}

	cardID, err := r.checklists.CardIDByChecklistID(ctx, checklistID)
	if err != nil {
		return "", fmt.Errorf("チェックリストからのカード解決に失敗しました: %w", err)
	}

	return r.FromCard(ctx, cardID)
}

// FromPoint はチェックリスト項目IDからボードIDを解決する（4ホップ）。
func (r *Resolver) FromPoint(ctx context.Context, pointID string) (string, error) {
	if pointID == "" {
		return "", nil
	}

	checklistID, err := r.points.ChecklistIDByPointID(ctx, pointID)
	if err != nil {
		return "", fmt.Errorf("項目からのチェックリスト解決に失敗しました: %w", err)
	}

	return r.FromChecklist(ctx, checklistID)
}

// FromComment はコメントIDからボードIDを解決する（コメント→カード→リスト→ボードの3ホップ）。
func (r *Resolver) FromComment(ctx context.Context, commentID string) (string, error) {
	if commentID == "" {
		return "", nil
	}

	cardID, err := r.comments.CardIDByCommentID(ctx, commentID)
	if err != nil {
		return "", fmt.Errorf("コメントからのカード解決に失敗しました: %w", err)
	}

	return r.FromCard(ctx, cardID)
}
