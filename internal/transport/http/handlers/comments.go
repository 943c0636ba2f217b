package handlers

import (
	"net/http"

	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in commentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	comment, err := h.comments.Create(r.Context(), middleware.UserFrom(r.Context()), photoID, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toComment(comment))
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	list, err := h.comments.ListByPhoto(r.Context(), photoID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, toComment(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in commentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	comment, err := h.comments.Update(r.Context(), middleware.UserFrom(r.Context()), id, in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toComment(comment))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.comments.Delete(r.Context(), middleware.UserFrom(r.Context()), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
