// Package model はドメインモデルを定義する。
package model

// Profile はサービス利用ユーザーを表す。
// Passwordは呼び出し側でハッシュ済みの値を受け取り、平文は一切扱わない。
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Username string `json:"username"`
	Created  string `json:"created"`
}
