package handlers

import (
	"net/http"

	"github.com/vsmolina/photoshare/internal/service/users"
	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

// Me возвращает профиль аутентифицированного пользователя.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUser(middleware.UserFrom(r.Context())))
}

type updateProfileRequest struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateMe меняет username/телефон текущего пользователя.
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.UserFrom(r.Context()), users.UpdateProfileInput{
		Username:    in.Username,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(user))
}

// UploadAvatar принимает multipart-форму с полем "file".
func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	contentType, size, file, err := h.multipartFile(r, "file")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer file.Close()

	user, err := h.users.UploadAvatar(r.Context(), middleware.UserFrom(r.Context()), contentType, size, file)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(user))
}

// Profile возвращает публичный профиль по ID.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.users.Profile(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPublicProfile(user))
}

// UserPhotos возвращает фотографии пользователя (новые первыми).
func (h *Handlers) UserPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	list, err := h.photos.PhotosByUser(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhotos(list))
}
