package handler

import (
	"encoding/json"
	"net/http"
)

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	pinger StorePinger
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(pinger StorePinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Check はサーバーとデータベースの状態を返す。
// データベースに到達できなくてもサーバー自体は稼働しているため200を返す。
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if h.pinger == nil {
		database = "disconnected"
	} else if err := h.pinger.PingContext(r.Context()); err != nil {
		database = "disconnected"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Message:  "Expense tracker API is running",
		Database: database,
	})
}
