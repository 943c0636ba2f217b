// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: комментарии к сентинельным ошибкам
// сервисных пакетов (internal/service/*).
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vsmolina/photoshare/internal/service/admin"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/service/comments"
	"github.com/vsmolina/photoshare/internal/service/photos"
	"github.com/vsmolina/photoshare/internal/service/ratings"
	"github.com/vsmolina/photoshare/internal/service/users"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Ошибки, рождающиеся в самом HTTP-слое (до вызова сервисов).
var (
	// ErrBadRequest — битое тело запроса / некорректный UUID / параметры.
	ErrBadRequest = errors.New("invalid argument")
	// ErrUnauthenticated — запрос без Bearer-токена на защищённом маршруте.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrRateLimited — превышен лимит запросов клиента.
	ErrRateLimited = errors.New("too many requests")
	// ErrUnavailable — зависимость недоступна (fail-closed проверки).
	ErrUnavailable = errors.New("service unavailable")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// mapping — таблица "сентинел -> статус/код/сообщение".
// Сообщения для ошибок аутентификации и прав фиксированы контрактом API
// и не зависят от текста самих сентинелов.
var mapping = []struct {
	target  error
	status  int
	code    string
	message string
}{
	// HTTP-слой.
	{ErrBadRequest, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "Not authenticated"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited", "too many requests"},
	{ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "service unavailable"},

	// Аутентификация.
	{auth.ErrInvalidEmail, http.StatusUnauthorized, "invalid_credentials", "Invalid email"},
	{auth.ErrInvalidPassword, http.StatusUnauthorized, "invalid_credentials", "Invalid password"},
	{auth.ErrEmailNotConfirmed, http.StatusUnauthorized, "email_not_confirmed", "Email not confirmed"},
	{auth.ErrEmailTaken, http.StatusConflict, "email_taken", "email already taken"},
	{auth.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "Token has expired"},
	{auth.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked", "Token revoked"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "invalid_token", "Token is invalid"},
	{auth.ErrUserBlocked, http.StatusForbidden, "user_blocked", "user is blocked"},
	{auth.ErrInvalidEmailFormat, http.StatusBadRequest, "invalid_argument", "invalid email format"},
	{auth.ErrInvalidUsername, http.StatusBadRequest, "invalid_argument", "username must be at least 5 characters"},
	{auth.ErrWeakPassword, http.StatusBadRequest, "invalid_argument", "password is too weak"},
	{auth.ErrEmptyPassword, http.StatusBadRequest, "invalid_argument", "password is empty"},

	// Права доступа: тексты отдаются клиенту как есть.
	{auth.ErrAdminRequired, http.StatusForbidden, "permission_denied", auth.ErrAdminRequired.Error()},
	{auth.ErrModeratorRequired, http.StatusForbidden, "permission_denied", auth.ErrModeratorRequired.Error()},
	{auth.ErrNotOwner, http.StatusForbidden, "permission_denied", auth.ErrNotOwner.Error()},

	// Фотографии и теги.
	{photos.ErrNotFound, http.StatusNotFound, "not_found", "photo not found"},
	{photos.ErrTooManyTags, http.StatusBadRequest, "too_many_tags", photos.ErrTooManyTags.Error()},
	{photos.ErrTagAlreadyAdded, http.StatusConflict, "already_exists", "tag already added to photo"},
	{photos.ErrInvalidMedia, http.StatusBadRequest, "invalid_media", "invalid media"},
	{photos.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},

	// Комментарии.
	{comments.ErrNotFound, http.StatusNotFound, "not_found", "comment not found"},
	{comments.ErrPhotoNotFound, http.StatusNotFound, "not_found", "photo not found"},
	{comments.ErrNotAuthorized, http.StatusForbidden, "permission_denied", "Not authorized to modify this comment"},
	{comments.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},

	// Оценки.
	{ratings.ErrPhotoNotFound, http.StatusNotFound, "not_found", "photo not found"},
	{ratings.ErrInvalidValue, http.StatusBadRequest, "invalid_argument", ratings.ErrInvalidValue.Error()},
	{ratings.ErrOwnPhoto, http.StatusBadRequest, "own_photo", "cannot rate own photo"},
	{ratings.ErrAlreadyRated, http.StatusConflict, "already_rated", "photo already rated"},

	// Администрирование.
	{admin.ErrUserNotFound, http.StatusNotFound, "not_found", "user not found"},
	{admin.ErrInvalidRole, http.StatusBadRequest, "invalid_argument", "invalid role"},
	{admin.ErrSelfDemotion, http.StatusBadRequest, "invalid_argument", admin.ErrSelfDemotion.Error()},

	// Профиль.
	{users.ErrUserNotFound, http.StatusNotFound, "not_found", "user not found"},
	{users.ErrInvalidUsername, http.StatusBadRequest, "invalid_argument", users.ErrInvalidUsername.Error()},
	{users.ErrInvalidPhone, http.StatusBadRequest, "invalid_argument", users.ErrInvalidPhone.Error()},
	{users.ErrInvalidMedia, http.StatusBadRequest, "invalid_media", "invalid media"},
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - контекстные ошибки — 504/499 (таймаут/клиент закрыл соединение);
//   - неизвестная ошибка — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	for _, m := range mapping {
		if errors.Is(err, m.target) {
			return m.status, ErrorResponse{
				Error: APIError{Code: m.code, Message: m.message},
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{
			Error: APIError{Code: "deadline_exceeded", Message: "deadline exceeded"},
		}
	}
	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest, ErrorResponse{
			Error: APIError{Code: "canceled", Message: "canceled"},
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{Code: "internal", Message: "internal error"},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
