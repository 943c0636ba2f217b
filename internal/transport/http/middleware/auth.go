package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	logctx "github.com/vsmolina/photoshare/internal/pkg/log"
	"github.com/vsmolina/photoshare/internal/service/auth"
	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
)

// AuthBearer извлекает Bearer-токен из Authorization и кладёт "сырой" токен
// в контекст. Отсутствие токена не является ошибкой: обязательность
// аутентификации проверяет RequireAuth на защищённых маршрутах.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			if header != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(header, prefix) && len(header) > len(prefix) {
					token := strings.TrimSpace(header[len(prefix):])

					if token != "" {
						ctx := context.WithValue(r.Context(), ctxAuthToken, token)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Blacklist — шлюз чёрного списка: любой предъявленный Bearer-токен
// проверяется по хранилищу отозванных ДО маршрутной аутентификации.
//
// Ошибка хранилища трактуется как отказ (fail-closed): запрос отклоняется,
// а не пропускается — иначе отозванный токен «оживает» на время сбоя Redis.
func Blacklist(authSvc *auth.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFrom(r.Context())
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			revoked, err := authSvc.IsTokenRevoked(r.Context(), token)
			if err != nil {
				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "blacklist_check_failed",
					slog.String("err", err.Error()),
				)
				apierrors.WriteError(w, r, apierrors.ErrUnavailable)
				return
			}

			if revoked {
				apierrors.WriteError(w, r, auth.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth резолвит текущего пользователя по access-токену и кладёт его
// в контекст. Без токена — 401.
func RequireAuth(authSvc *auth.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFrom(r.Context())
			if token == "" {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			user, err := authSvc.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
