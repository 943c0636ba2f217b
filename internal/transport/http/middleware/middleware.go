// middleware содержит net/http-мидлвары HTTP-слоя: request-id, логирование,
// восстановление после паник, таймаут, лимит запросов, извлечение Bearer-токена,
// шлюз чёрного списка и резолв текущего пользователя.
package middleware

import (
	"context"
	"net/http"

	"github.com/vsmolina/photoshare/internal/models"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxAuthToken
	ctxUser
)

// RequestIDFrom возвращает request id из контекста ("" если нет).
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// TokenFrom возвращает "сырой" Bearer-токен из контекста ("" если нет).
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(ctxAuthToken).(string)
	return token
}

// UserFrom возвращает аутентифицированного пользователя из контекста
// (nil вне RequireAuth).
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxUser).(*models.User)
	return user
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}
