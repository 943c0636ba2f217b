// ratings содержит бизнес-логику оценок: выставление (1–5, не своей
// фотографии, один раз на пользователя) и агрегаты со средними значениями.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrPhotoNotFound — фотография не найдена. Транспорт: HTTP 404.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrInvalidValue — значение вне диапазона 1..5. Транспорт: HTTP 400.
	ErrInvalidValue = errors.New("rating value must be between 1 and 5")

	// ErrOwnPhoto — попытка оценить собственную фотографию. Транспорт: HTTP 400.
	ErrOwnPhoto = errors.New("cannot rate own photo")

	// ErrAlreadyRated — фотография уже оценена этим пользователем.
	// Транспорт: HTTP 409.
	ErrAlreadyRated = errors.New("photo already rated")
)

// Service описывает бизнес-логику оценок.
type Service struct {
	storage storage.RatingStorage
	photos  storage.PhotoStorage
}

// New создаёт новый экземпляр Service.
func New(st storage.RatingStorage, photos storage.PhotoStorage) *Service {
	return &Service{
		storage: st,
		photos:  photos,
	}
}

// Rate выставляет фотографии оценку от имени actor.
func (s *Service) Rate(ctx context.Context, actor *models.User, photoID uuid.UUID, value int) (*models.Rating, error) {
	const op = "service.ratings.Rate"

	if value < 1 || value > 5 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidValue)
	}

	photo, err := s.photos.PhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if photo.UserID == actor.ID {
		return nil, fmt.Errorf("%s: %w", op, ErrOwnPhoto)
	}

	rating := &models.Rating{
		ID:        uuid.New(),
		PhotoID:   photoID,
		UserID:    actor.ID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.SaveRating(ctx, rating); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyRated)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rating, nil
}

// AverageForPhoto — средняя оценка фотографии, округлённая до 2 знаков.
func (s *Service) AverageForPhoto(ctx context.Context, photoID uuid.UUID) (float64, error) {
	const op = "service.ratings.AverageForPhoto"

	if _, err := s.photos.PhotoByID(ctx, photoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	avg, err := s.storage.AverageForPhoto(ctx, photoID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return round2(avg), nil
}

// AverageReceivedByUser — средняя оценка всех фотографий пользователя.
func (s *Service) AverageReceivedByUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	const op = "service.ratings.AverageReceivedByUser"

	avg, err := s.storage.AverageReceivedByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return round2(avg), nil
}

// AverageGivenByUser — средняя оценка, которую пользователь ставит другим.
func (s *Service) AverageGivenByUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	const op = "service.ratings.AverageGivenByUser"

	avg, err := s.storage.AverageGivenByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return round2(avg), nil
}

// round2 округляет до двух десятичных знаков.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
