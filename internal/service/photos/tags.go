package photos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/storage"
)

// AddTags привязывает теги к фотографии (создавая недостающие по имени).
// Суммарное число тегов после привязки не может превышать 5.
// Разрешено владельцу и администратору.
func (s *Service) AddTags(ctx context.Context, actor *models.User, photoID uuid.UUID, names []string) (*models.Photo, error) {
	const op = "service.photos.AddTags"

	tags, err := normalizeTags(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	photo, err := s.PhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOrAdmin(actor, photo.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(photo.Tags)+len(tags) > maxTagsPerPhoto {
		return nil, fmt.Errorf("%s: %w", op, ErrTooManyTags)
	}

	for _, tag := range tags {
		if err := s.storage.AddTagToPhoto(ctx, photoID, tag); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return nil, fmt.Errorf("%s: %w", op, ErrTagAlreadyAdded)
			}
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return s.PhotoByID(ctx, photoID)
}

// RemoveTag отвязывает один тег по имени. Разрешено владельцу и администратору.
func (s *Service) RemoveTag(ctx context.Context, actor *models.User, photoID uuid.UUID, name string) (*models.Photo, error) {
	const op = "service.photos.RemoveTag"

	tags, err := normalizeTags([]string{name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photo, err := s.PhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOrAdmin(actor, photo.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.RemoveTagFromPhoto(ctx, photoID, tags[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.PhotoByID(ctx, photoID)
}

// ClearTags снимает все теги с фотографии. Разрешено владельцу и администратору.
func (s *Service) ClearTags(ctx context.Context, actor *models.User, photoID uuid.UUID) (*models.Photo, error) {
	const op = "service.photos.ClearTags"

	photo, err := s.PhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOrAdmin(actor, photo.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.ClearTags(ctx, photoID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.PhotoByID(ctx, photoID)
}
