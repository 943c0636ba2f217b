package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vsmolina/photoshare/internal/service/photos"
	"github.com/vsmolina/photoshare/internal/storage"
	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

// UploadPhoto принимает multipart-форму: file (обязательно), description,
// tags (через запятую или повторяющимся полем).
func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	contentType, size, file, err := h.multipartFile(r, "file")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer file.Close()

	photo, err := h.photos.Upload(r.Context(), photos.UploadInput{
		Owner:       middleware.UserFrom(r.Context()),
		ContentType: contentType,
		Size:        size,
		Content:     file,
		Description: r.FormValue("description"),
		Tags:        formTags(r),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPhoto(photo))
}

func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	photo, err := h.photos.PhotoByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

// ReplacePhotoFile заменяет файл фотографии (multipart, поле "file").
func (h *Handlers) ReplacePhotoFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	contentType, size, file, err := h.multipartFile(r, "file")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer file.Close()

	photo, err := h.photos.ReplaceFile(r.Context(), photos.ReplaceFileInput{
		Actor:       middleware.UserFrom(r.Context()),
		PhotoID:     id,
		ContentType: contentType,
		Size:        size,
		Content:     file,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

type updateDescriptionRequest struct {
	Description string `json:"description"`
}

func (h *Handlers) UpdatePhotoDescription(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in updateDescriptionRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	photo, err := h.photos.UpdateDescription(r.Context(), middleware.UserFrom(r.Context()), id, in.Description)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.photos.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addTagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *Handlers) AddTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in addTagsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	photo, err := h.photos.AddTags(r.Context(), middleware.UserFrom(r.Context()), id, in.Tags)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

func (h *Handlers) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	photo, err := h.photos.RemoveTag(r.Context(), middleware.UserFrom(r.Context()), id, name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

func (h *Handlers) ClearTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	photo, err := h.photos.ClearTags(r.Context(), middleware.UserFrom(r.Context()), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhoto(photo))
}

// SearchPhotos ищет по тегам (?tags=a,b) или по ключевому слову (?keyword=).
func (h *Handlers) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if raw := q.Get("tags"); raw != "" {
		list, err := h.photos.SearchByTags(r.Context(), strings.Split(raw, ","))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toPhotos(list))
		return
	}

	if keyword := q.Get("keyword"); keyword != "" {
		list, err := h.photos.SearchByKeyword(r.Context(), keyword)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toPhotos(list))
		return
	}

	apierrors.WriteError(w, r, apierrors.ErrBadRequest)
}

// FilterPhotos выбирает по границам среднего рейтинга и датам создания:
// ?min_rating=&max_rating=&since=&until= (даты — RFC 3339).
func (h *Handlers) FilterPhotos(w http.ResponseWriter, r *http.Request) {
	var f storage.PhotoFilter
	q := r.URL.Query()

	if v := q.Get("min_rating"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}
		f.MinRating = &min
	}

	if v := q.Get("max_rating"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}
		f.MaxRating = &max
	}

	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}
		f.Since = &since
	}

	if v := q.Get("until"); v != "" {
		until, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}
		f.Until = &until
	}

	list, err := h.photos.Filter(r.Context(), f)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPhotos(list))
}

// formTags собирает теги из multipart-формы: повторяющиеся поля "tags"
// и/или значения через запятую.
func formTags(r *http.Request) []string {
	var out []string
	if r.MultipartForm == nil {
		return out
	}

	for _, raw := range r.MultipartForm.Value["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
	}

	return out
}
