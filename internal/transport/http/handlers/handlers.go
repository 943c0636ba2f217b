// handlers содержит REST-обработчики поверх сервисного слоя.
package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/config"
	"github.com/vsmolina/photoshare/internal/service/admin"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/service/comments"
	"github.com/vsmolina/photoshare/internal/service/photos"
	"github.com/vsmolina/photoshare/internal/service/ratings"
	"github.com/vsmolina/photoshare/internal/service/users"
	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
)

// Handlers агрегирует зависимости (сервисы и ограничения загрузки).
type Handlers struct {
	auth     *auth.Service
	photos   *photos.Service
	comments *comments.Service
	ratings  *ratings.Service
	admin    *admin.Service
	users    *users.Service
	media    config.MediaConfig
}

// Services — сервисные зависимости HTTP-слоя.
type Services struct {
	Auth     *auth.Service
	Photos   *photos.Service
	Comments *comments.Service
	Ratings  *ratings.Service
	Admin    *admin.Service
	Users    *users.Service
}

func New(svc Services, media config.MediaConfig) *Handlers {
	return &Handlers{
		auth:     svc.Auth,
		photos:   svc.Photos,
		comments: svc.Comments,
		ratings:  svc.Ratings,
		admin:    svc.Admin,
		users:    svc.Users,
		media:    media,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// pathUUID извлекает и парсит UUID из URL-параметра chi.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apierrors.ErrBadRequest
	}

	return id, nil
}

// multipartFile достаёт файл из multipart-формы с проверкой общего размера.
// Возвращённый файл обязан быть закрыт вызывающей стороной.
func (h *Handlers) multipartFile(r *http.Request, field string) (string, int64, multipart.File, error) {
	if err := r.ParseMultipartForm(h.media.MaxSizeBytes); err != nil {
		return "", 0, nil, apierrors.ErrBadRequest
	}

	f, fh, err := r.FormFile(field)
	if err != nil {
		return "", 0, nil, apierrors.ErrBadRequest
	}

	return fh.Header.Get("Content-Type"), fh.Size, f, nil
}
