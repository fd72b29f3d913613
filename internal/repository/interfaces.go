// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// email重複時はmodel.APIError（DUPLICATE_EMAIL）を返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// ExpenseRepository は支出データの永続化インターフェース。
// 全操作が認証済みユーザーIDでスコープされる。他ユーザー所有レコードは
// 存在しないレコードと同様に扱われ、インターフェース上区別できない。
type ExpenseRepository interface {
	// Create は支出を作成する。
	Create(ctx context.Context, expense *model.Expense) error

	// ListByUserID はユーザーの支出一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Expense, error)

	// FindByUserAndID は(userID, id)に一致する支出を取得する。
	// 一致しない場合（不在または他ユーザー所有）はnilを返す。
	FindByUserAndID(ctx context.Context, userID, id string) (*model.Expense, error)

	// Update は支出を上書き更新する。(userID, id)に一致する行がない場合はfalseを返す。
	Update(ctx context.Context, expense *model.Expense) (bool, error)

	// DeleteByUserAndID は(userID, id)に一致する支出を削除する。
	// 削除対象がない場合はfalseを返す。
	DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error)
}
