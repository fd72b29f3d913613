// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままクライアントに返るため、内部情報を含めてはならない。
// Detailは非本番環境でのみ設定する補足情報で、本番では常に空にすること。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアント向けメッセージ
	Category string // カテゴリ: auth, validation, expense, system
	Detail   string // デバッグ用の詳細（非本番のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetail はデバッグ用の詳細を設定したエラーを返す。
// 呼び出し側が非本番環境であることを確認してから使用すること。
func (e *APIError) WithDetail(detail string) *APIError {
	e.Detail = detail
	return e
}

// 定義済みエラーコード
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeExpenseNotFound  = "EXPENSE_NOT_FOUND"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "User already exists with this email",
		Category: "validation",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー不在とパスワード不一致を区別しない。どちらも同一メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Invalid email or password",
		Category: "auth",
	}
}

// NewUnauthorizedError は認証失敗エラーを生成する。
// トークン欠落・不正・期限切れ・ユーザー削除済みのいずれもこのエラーに集約する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Not authorized",
		Category: "auth",
	}
}

// NewExpenseNotFoundError は支出未検出エラーを生成する。
// 他ユーザー所有のレコードへのアクセスも同じエラーになる（情報秘匿ポリシー）。
func NewExpenseNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeExpenseNotFound,
		Message:  "Expense not found",
		Category: "expense",
	}
}

// NewStoreUnavailableError はデータストア接続不能エラーを生成する。
func NewStoreUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeStoreUnavailable,
		Message:  "Database connection failed",
		Category: "system",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログに記録し、非本番環境ではWithDetailでレスポンスにも含められる。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
	}
}
