// Package client は支出ストアへのクライアント側アクセス層を提供する。
// HTTP API経由のAPIClientとオフライン用のMemoryStoreが同じStoreを実装する。
// どちらを使うかは呼び出し側が明示的に注入する。暗黙のフォールバックは行わない。
package client

import (
	"context"

	"github.com/hitoshi/kakeibo/internal/model"
)

// ExpenseInput は支出の登録・更新入力。
type ExpenseInput struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Vendor      string  `json:"vendor"`
	Amount      float64 `json:"amount"`
}

// Store は支出ストアへのクライアントインターフェース。
type Store interface {
	// List は支出一覧を新しい順で返す。
	List(ctx context.Context) ([]model.Expense, error)

	// Get は指定IDの支出を返す。
	// 見つからない場合はmodel.APIError（EXPENSE_NOT_FOUND）を返す。
	Get(ctx context.Context, id string) (*model.Expense, error)

	// Create は支出を登録する。
	Create(ctx context.Context, input ExpenseInput) (*model.Expense, error)

	// Update は指定IDの支出を上書きする。
	Update(ctx context.Context, id string, input ExpenseInput) (*model.Expense, error)

	// Delete は指定IDの支出を削除する。
	Delete(ctx context.Context, id string) error
}
