package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresExpenseRepo はPostgreSQLを使用した支出リポジトリ。
// 全クエリが(user_id, id)でスコープされるため、他ユーザー所有レコードへの
// アクセスは構造的に不在と区別できない。
type PostgresExpenseRepo struct {
	db *sql.DB
}

// NewPostgresExpenseRepo はPostgresExpenseRepoを生成する。
func NewPostgresExpenseRepo(db *sql.DB) *PostgresExpenseRepo {
	return &PostgresExpenseRepo{db: db}
}

// Create は支出を作成する。
func (r *PostgresExpenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, category, description, date, vendor, amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.UserID, expense.Category, expense.Description,
		expense.Date, expense.Vendor, expense.Amount, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの支出一覧を作成日時降順で返す。
// 同時刻作成時の順序を安定させるためid降順をタイブレークに使う。
func (r *PostgresExpenseRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, description, date, vendor, amount, created_at, updated_at
		 FROM expenses WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*model.Expense
	for rows.Next() {
		e := &model.Expense{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Description, &e.Date, &e.Vendor, &e.Amount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense rows: %w", err)
	}
	return expenses, nil
}

// FindByUserAndID は(userID, id)に一致する支出を取得する。一致しない場合はnilを返す。
func (r *PostgresExpenseRepo) FindByUserAndID(ctx context.Context, userID, id string) (*model.Expense, error) {
	e := &model.Expense{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, description, date, vendor, amount, created_at, updated_at
		 FROM expenses WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&e.ID, &e.UserID, &e.Category, &e.Description, &e.Date, &e.Vendor, &e.Amount, &e.CreatedAt, &e.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	return e, nil
}

// Update は支出を上書き更新する。(userID, id)に一致する行がない場合はfalseを返す。
// user_idはWHERE句の条件であり、更新対象には含めない。
func (r *PostgresExpenseRepo) Update(ctx context.Context, expense *model.Expense) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET category = $3, description = $4, date = $5, vendor = $6, amount = $7, updated_at = $8
		 WHERE user_id = $1 AND id = $2`,
		expense.UserID, expense.ID, expense.Category, expense.Description,
		expense.Date, expense.Vendor, expense.Amount, expense.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByUserAndID は(userID, id)に一致する支出を削除する。削除対象がない場合はfalseを返す。
func (r *PostgresExpenseRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ExpenseRepository = (*PostgresExpenseRepo)(nil)
