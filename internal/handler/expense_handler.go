package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
)

// dateLayout は支出日付のフォーマット。
const dateLayout = "2006-01-02"

// ExpenseStore は支出ハンドラーが必要とする永続化インターフェース。
// repository.ExpenseRepositoryの部分集合として定義する。
type ExpenseStore interface {
	Create(ctx context.Context, expense *model.Expense) error
	ListByUserID(ctx context.Context, userID string) ([]*model.Expense, error)
	FindByUserAndID(ctx context.Context, userID, id string) (*model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) (bool, error)
	DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error)
}

// ExpenseHandler は支出管理のHTTPハンドラー。
type ExpenseHandler struct {
	store             ExpenseStore
	collector         metrics.MetricsCollector
	exposeErrorDetail bool
}

// NewExpenseHandler はExpenseHandlerを生成する。
// exposeErrorDetailは非本番環境でのみtrueを渡すこと（500レスポンスに詳細を含める）。
func NewExpenseHandler(store ExpenseStore, collector metrics.MetricsCollector, exposeErrorDetail bool) *ExpenseHandler {
	return &ExpenseHandler{
		store:             store,
		collector:         collector,
		exposeErrorDetail: exposeErrorDetail,
	}
}

// createExpenseRequest は支出登録リクエストのボディ。
// amountは数値と文字列の両方を受け付ける。
type createExpenseRequest struct {
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Vendor      string       `json:"vendor"`
	Amount      *amountValue `json:"amount"`
}

// updateExpenseRequest は支出更新リクエストのボディ。
// 省略されたフィールドは変更しない。空文字列も省略とみなす。
type updateExpenseRequest struct {
	Category    *string      `json:"category"`
	Description *string      `json:"description"`
	Date        *string      `json:"date"`
	Vendor      *string      `json:"vendor"`
	Amount      *amountValue `json:"amount"`
}

// expenseResponse は支出のAPIレスポンス。
type expenseResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Vendor      string    `json:"vendor"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// toExpenseResponse はドメインのExpenseをレスポンス型に変換する。
// 所有者IDはレスポンスに含めない。
func toExpenseResponse(e *model.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		Vendor:      e.Vendor,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// List はユーザーの支出一覧を返す。
// GET /api/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	expenses, err := h.store.ListByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}

	results := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		results = append(results, toExpenseResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Get は支出の詳細を返す。
// GET /api/expenses/:id
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	expense, err := h.store.FindByUserAndID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}
	if expense == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewExpenseNotFoundError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(expense))
}

// Create は支出を登録する。
// POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	category := strings.TrimSpace(req.Category)
	description := strings.TrimSpace(req.Description)
	date := strings.TrimSpace(req.Date)
	vendor := strings.TrimSpace(req.Vendor)

	if category == "" || description == "" || date == "" || vendor == "" || req.Amount == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Missing required fields"))
		return
	}
	if *req.Amount < 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Amount cannot be negative"))
		return
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid date format, expected YYYY-MM-DD"))
		return
	}

	now := time.Now()
	expense := &model.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    category,
		Description: description,
		Date:        date,
		Vendor:      vendor,
		Amount:      float64(*req.Amount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.Create(r.Context(), expense); err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}

	if h.collector != nil {
		h.collector.RecordExpenseCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toExpenseResponse(expense))
}

// Update は支出を部分更新する。
// PUT /api/expenses/:id
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	if req.Amount != nil && *req.Amount < 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Amount cannot be negative"))
		return
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		if _, err := time.Parse(dateLayout, strings.TrimSpace(*req.Date)); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid date format, expected YYYY-MM-DD"))
			return
		}
	}

	expense, err := h.store.FindByUserAndID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}
	if expense == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewExpenseNotFoundError())
		return
	}

	applyStringField(&expense.Category, req.Category)
	applyStringField(&expense.Description, req.Description)
	applyStringField(&expense.Date, req.Date)
	applyStringField(&expense.Vendor, req.Vendor)
	if req.Amount != nil {
		expense.Amount = float64(*req.Amount)
	}
	expense.UpdatedAt = time.Now()

	updated, err := h.store.Update(r.Context(), expense)
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}
	if !updated {
		// 取得後に削除された場合
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewExpenseNotFoundError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(expense))
}

// Delete は支出を削除する。
// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	deleted, err := h.store.DeleteByUserAndID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}
	if !deleted {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewExpenseNotFoundError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// applyStringField は更新リクエストの文字列フィールドを適用する。
// nilまたは空白のみの値は省略とみなす。
func applyStringField(dst *string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		return
	}
	*dst = v
}
