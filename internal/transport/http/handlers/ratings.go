package handlers

import (
	"net/http"

	apierrors "github.com/vsmolina/photoshare/internal/transport/http/errors"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

type rateRequest struct {
	Value int `json:"value"`
}

func (h *Handlers) RatePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in rateRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	rating, err := h.ratings.Rate(r.Context(), middleware.UserFrom(r.Context()), photoID, in.Value)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRating(rating))
}

// PhotoRating возвращает среднюю оценку фотографии (2 знака).
func (h *Handlers) PhotoRating(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	avg, err := h.ratings.AverageForPhoto(r.Context(), photoID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"average": avg})
}
