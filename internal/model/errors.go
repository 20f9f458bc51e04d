// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, board, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeNotMember       = "NOT_A_MEMBER"
	ErrCodeBoardNotFound   = "BOARD_NOT_FOUND"
	ErrCodeProfileNotFound = "PROFILE_NOT_FOUND"
	ErrCodeDuplicateEmail  = "DUPLICATE_EMAIL"
)

// NewInvalidInputError は入力値不正エラーを生成する。
func NewInvalidInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "必須フィールドを確認してから再度お試しください。",
	}
}

// NewUnauthenticatedError は認証失敗エラーを生成する。
// プロフィールが存在しない場合と資格情報が一致しない場合を区別しない。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewNotMemberError は認可失敗（ボードメンバーでない）エラーを生成する。
// 祖先チェーンが途中で解決できなかった場合もこのエラーに集約される。
func NewNotMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeNotMember,
		Message:  "このボードのメンバーではありません。",
		Category: "auth",
		Action:   "ボードのメンバーに追加を依頼してください。",
	}
}

// NewBoardNotFoundError はボードが見つからない場合のエラーを生成する。
func NewBoardNotFoundError(boardID string) *APIError {
	return &APIError{
		Code:     ErrCodeBoardNotFound,
		Message:  fmt.Sprintf("指定されたボードが見つかりません: %s", boardID),
		Category: "board",
		Action:   "ボードIDを確認してください。",
	}
}

// NewProfileNotFoundError は対象プロフィールが見つからない場合のエラーを生成する。
// メンバー追加時に未登録のメールアドレスを指定した場合に使用する。
func NewProfileNotFoundError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("指定されたプロフィールが見つかりません: %s", email),
		Category: "board",
		Action:   "メールアドレスを確認してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}
