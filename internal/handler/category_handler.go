package handler

import (
	"encoding/json"
	"net/http"
)

// expenseCategories は支出カテゴリの固定リスト。
// クライアントの選択肢として提供する。支出登録時の強制はしない。
var expenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Education",
	"Other",
}

// CategoryHandler はカテゴリ一覧のHTTPハンドラー。
type CategoryHandler struct{}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List はカテゴリの固定リストを返す。認証不要。
// GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenseCategories)
}
