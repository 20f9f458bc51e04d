// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はカードの説明文やコメント本文など、
// 利用者が入力した自由テキストをサニタイズし、
// XSS攻撃などのセキュリティリスクから他のメンバーを保護する。
// bluemondayライブラリのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService は自由テキストのサニタイズ機能のインターフェースを定義する。
// カード・コメント・チェックリスト項目の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグを全て除去して返す。
	// ボードのテキストはプレーンテキストとして扱うため許可タグは無い。
	// script, iframe, styleタグおよびon*イベント属性も当然に除去される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。タグの中身のテキストは残る。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグを除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
