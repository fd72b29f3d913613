// Package handler はHTTP APIハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は新規ユーザーを登録し、ユーザーとトークンを返す。
	Signup(ctx context.Context, name, email, password string) (*model.User, string, error)
	// Login は認証情報を検証し、ユーザーとトークンを返す。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// StorePinger はデータストアの到達性確認インターフェース。
// *sql.DB がそのまま満たす。
type StorePinger interface {
	PingContext(ctx context.Context) error
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service           AuthServiceInterface
	pinger            StorePinger
	collector         metrics.MetricsCollector
	exposeErrorDetail bool
}

// NewAuthHandler はAuthHandlerを生成する。
// exposeErrorDetailは非本番環境でのみtrueを渡すこと（500レスポンスに詳細を含める）。
func NewAuthHandler(service AuthServiceInterface, pinger StorePinger, collector metrics.MetricsCollector, exposeErrorDetail bool) *AuthHandler {
	return &AuthHandler{
		service:           service,
		pinger:            pinger,
		collector:         collector,
		exposeErrorDetail: exposeErrorDetail,
	}
}

// signupRequest はユーザー登録リクエストのボディ。
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse は認証成功時のレスポンス。
type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Signup はユーザー登録を処理する。
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !h.storeAvailable(w, r) {
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	user, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}

	if h.collector != nil {
		h.collector.RecordSignup()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// Login はログインを処理する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.storeAvailable(w, r) {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, h.exposeErrorDetail)
		return
	}

	if h.collector != nil {
		h.collector.RecordLogin()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// storeAvailable はデータストアの到達性を確認する。
// 到達できない場合は503を書き込み、falseを返す。
func (h *AuthHandler) storeAvailable(w http.ResponseWriter, r *http.Request) bool {
	if h.pinger == nil {
		return true
	}
	if err := h.pinger.PingContext(r.Context()); err != nil {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewStoreUnavailableError())
		return false
	}
	return true
}
