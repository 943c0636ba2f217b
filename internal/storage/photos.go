package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// PhotoFilter — параметры выборки для фильтра по рейтингу/дате.
// Нулевые указатели означают «без ограничения».
type PhotoFilter struct {
	MinRating *float64
	MaxRating *float64
	Since     *time.Time
	Until     *time.Time
}

// PhotoStorage выполняет операции над фотографиями и их тегами.
type PhotoStorage interface {
	// SavePhoto создаёт запись о фотографии.
	SavePhoto(ctx context.Context, photo *models.Photo) error
	// PhotoByID возвращает фотографию вместе с тегами.
	PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	// PhotosByUser возвращает фотографии пользователя (новые первыми).
	PhotosByUser(ctx context.Context, userID uuid.UUID) ([]models.Photo, error)
	// UpdatePhoto перезаписывает объект/URL/описание.
	UpdatePhoto(ctx context.Context, photo *models.Photo) error
	// UpdateDescription меняет только описание.
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
	// DeletePhoto удаляет запись (связи тегов/комментарии — каскадом).
	DeletePhoto(ctx context.Context, id uuid.UUID) error

	// AddTagToPhoto привязывает тег по имени (создавая его при необходимости).
	// Повторная привязка того же тега — ErrAlreadyExists.
	AddTagToPhoto(ctx context.Context, photoID uuid.UUID, name string) error
	// RemoveTagFromPhoto отвязывает тег по имени. Если тег не привязан — ErrNotFound.
	RemoveTagFromPhoto(ctx context.Context, photoID uuid.UUID, name string) error
	// ClearTags снимает все теги с фотографии.
	ClearTags(ctx context.Context, photoID uuid.UUID) error

	// SearchByTag возвращает фотографии, помеченные хотя бы одним из тегов.
	SearchByTag(ctx context.Context, tags []string) ([]models.Photo, error)
	// SearchByKeyword ищет подстроку в описании (без учёта регистра).
	SearchByKeyword(ctx context.Context, keyword string) ([]models.Photo, error)
	// FilterPhotos выбирает фотографии по среднему рейтингу и дате создания.
	FilterPhotos(ctx context.Context, f PhotoFilter) ([]models.Photo, error)
}
