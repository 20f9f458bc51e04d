package board

import (
	"context"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// CredentialChecker はプロフィールの資格情報検証インターフェース。
type CredentialChecker interface {
	ExistsByIDAndPassword(ctx context.Context, id, password string) (bool, error)
}

// MembershipChecker はボードメンバーシップの照会インターフェース。
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, boardID string) (bool, error)
}

// Authorizer は全ミューテーションの前段で認証と認可を行う。
// 認証はプロフィールIDとパスワードハッシュの組の存在確認、
// 認可は対象ボードのメンバー行の存在確認で判定する。
type Authorizer struct {
	profiles CredentialChecker
	boards   MembershipChecker
}

// NewAuthorizer はAuthorizerの新しいインスタンスを生成する。
func NewAuthorizer(profiles CredentialChecker, boards MembershipChecker) *Authorizer {
	return &Authorizer{
		profiles: profiles,
		boards:   boards,
	}
}

// IsUser はIDとパスワードハッシュの組が登録済みプロフィールと一致するかを返す。
func (a *Authorizer) IsUser(ctx context.Context, id, password string) (bool, error) {
	if id == "" || password == "" {
		return false, nil
	}

	ok, err := a.profiles.ExistsByIDAndPassword(ctx, id, password)
	if err != nil {
		return false, fmt.Errorf("資格情報の検証に失敗しました: %w", err)
	}

	return ok, nil
}

// IsMember は指定プロフィールがボードのメンバーかを返す。
// ボードIDが空（祖先チェーンが解決できなかった場合を含む）は常にfalse。
func (a *Authorizer) IsMember(ctx context.Context, userID, boardID string) (bool, error) {
	if userID == "" || boardID == "" {
		return false, nil
	}

	ok, err := a.boards.IsMember(ctx, userID, boardID)
	if err != nil {
		return false, fmt.Errorf("メンバーシップの照会に失敗しました: %w", err)
	}

	return ok, nil
}

// Authenticate は資格情報を検証し、一致しない場合はUNAUTHENTICATEDエラーを返す。
// プロフィールが存在しない場合と資格情報が一致しない場合を区別しない。
func (a *Authorizer) Authenticate(ctx context.Context, id, password string) error {
	ok, err := a.IsUser(ctx, id, password)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewUnauthenticatedError()
	}
	return nil
}

// AuthorizeMember はボードメンバーシップを検証し、
// メンバーでない場合はNOT_A_MEMBERエラーを返す。
func (a *Authorizer) AuthorizeMember(ctx context.Context, userID, boardID string) error {
	ok, err := a.IsMember(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotMemberError()
	}
	return nil
}
