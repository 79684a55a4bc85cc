package model

import "time"

// User はサービス利用ユーザーを表す。
// Emailは全ユーザーで一意。Passwordはハッシャーの出力をそのまま保持する。
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}

// UserSummary は登録完了時にクライアントへ返すユーザー情報。
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Claims はセッショントークンから復元した認証済みユーザー情報を表す。
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
