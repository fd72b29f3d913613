package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hitoshi/kakeibo/internal/model"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500レスポンスを返すミドルウェアを生成する。
// exposeDetailがtrueの場合（非本番環境）のみ、panicの内容をボディに含める。
func NewRecoveryMiddleware(exposeDetail bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					internalErr := model.NewInternalError()
					if exposeDetail {
						internalErr = internalErr.WithDetail(fmt.Sprintf("panic: %v", rec))
					}
					WriteErrorResponse(w, http.StatusInternalServerError, internalErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
