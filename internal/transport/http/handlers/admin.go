package handlers

import (
	"net/http"

	"github.com/vsmolina/photoshare/internal/models"
	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.ListUsers(r.Context(), middleware.UserFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUser(&list[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in updateRoleRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	user, err := h.admin.UpdateRole(r.Context(), middleware.UserFrom(r.Context()), id, models.Role(in.Role))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(user))
}

type setAllowedRequest struct {
	Allowed bool `json:"allowed"`
}

func (h *Handlers) SetUserAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in setAllowedRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	user, err := h.admin.SetAllowed(r.Context(), middleware.UserFrom(r.Context()), id, in.Allowed)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(user))
}

func (h *Handlers) UserStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	stats, err := h.admin.UserStatistics(r.Context(), middleware.UserFrom(r.Context()), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatistics(stats))
}
