package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// RatingStorage выполняет операции над оценками.
type RatingStorage interface {
	// SaveRating сохраняет оценку. Повторная оценка той же фотографии
	// тем же пользователем — ErrAlreadyExists.
	SaveRating(ctx context.Context, rating *models.Rating) error
	// AverageForPhoto — средняя оценка фотографии (0, если оценок нет).
	AverageForPhoto(ctx context.Context, photoID uuid.UUID) (float64, error)
	// AverageReceivedByUser — средняя оценка всех фотографий пользователя.
	AverageReceivedByUser(ctx context.Context, userID uuid.UUID) (float64, error)
	// AverageGivenByUser — средняя оценка, которую пользователь ставит другим.
	AverageGivenByUser(ctx context.Context, userID uuid.UUID) (float64, error)
	// CountPhotosByUser / CountCommentsByUser — счётчики для статистики.
	CountPhotosByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCommentsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
