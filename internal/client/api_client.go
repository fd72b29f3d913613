package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// APIClient は支出APIサーバーをStoreとして公開するHTTPクライアント。
// 全リクエストにベアラートークンを付与する。
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewAPIClient はAPIClientを生成する。
// baseURLはAPIサーバーのルート（例: http://localhost:8080）。
func NewAPIClient(httpClient *http.Client, baseURL, token string) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

var _ Store = (*APIClient)(nil)

// wireExpense はAPIレスポンスの支出表現。
type wireExpense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Vendor      string    `json:"vendor"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// wireError はAPIエラーレスポンスの表現。
type wireError struct {
	Code     string `json:"code"`
	Error    string `json:"error"`
	Category string `json:"category"`
}

func (e wireExpense) toModel() model.Expense {
	return model.Expense{
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

// List は支出一覧を取得する。
// GET /api/expenses
func (c *APIClient) List(ctx context.Context) ([]model.Expense, error) {
	var wire []wireExpense
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &wire); err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, len(wire))
	for i, w := range wire {
		expenses[i] = w.toModel()
	}
	return expenses, nil
}

// Get は支出の詳細を取得する。
// GET /api/expenses/:id
func (c *APIClient) Get(ctx context.Context, id string) (*model.Expense, error) {
	var wire wireExpense
	if err := c.do(ctx, http.MethodGet, "/api/expenses/"+id, nil, &wire); err != nil {
		return nil, err
	}
	e := wire.toModel()
	return &e, nil
}

// Create は支出を登録する。
// POST /api/expenses
func (c *APIClient) Create(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	var wire wireExpense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", input, &wire); err != nil {
		return nil, err
	}
	e := wire.toModel()
	return &e, nil
}

// Update は支出を上書きする。
// PUT /api/expenses/:id
func (c *APIClient) Update(ctx context.Context, id string, input ExpenseInput) (*model.Expense, error) {
	var wire wireExpense
	if err := c.do(ctx, http.MethodPut, "/api/expenses/"+id, input, &wire); err != nil {
		return nil, err
	}
	e := wire.toModel()
	return &e, nil
}

// Delete は支出を削除する。
// DELETE /api/expenses/:id
func (c *APIClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses/"+id, nil, nil)
}

// do はリクエストを実行し、成功時はoutにレスポンスをデコードする。
// APIのエラーレスポンスはmodel.APIErrorに変換して返す。
func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError はエラーレスポンスをmodel.APIErrorに変換する。
// 統一フォーマットでないボディはステータスコードのみのエラーにする。
func decodeAPIError(resp *http.Response) error {
	var wire wireError
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil || wire.Code == "" {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return &model.APIError{
		Code:     wire.Code,
		Message:  wire.Error,
		Category: wire.Category,
	}
}
