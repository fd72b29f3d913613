// Package model はドメインモデルを定義する。
package model

import "time"

// Expense はユーザーが所有する支出レコードを表す。
// UserIDは作成時に認証済みユーザーから設定され、以後変更されない。
// クライアント入力からUserIDを受け取ることはない。
type Expense struct {
	ID          string
	UserID      string
	Category    string
	Description string
	Date        string // カレンダー日付をテキストのまま保持する（例: "2025-11-15"）
	Vendor      string
	Amount      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
