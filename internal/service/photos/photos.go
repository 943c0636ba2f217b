package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/pkg/log"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/storage"
)

// UploadInput — загрузка новой фотографии.
type UploadInput struct {
	Owner       *models.User
	ContentType string
	Size        int64
	Content     io.Reader
	Description string
	Tags        []string
}

// Upload сохраняет файл в объектное хранилище и создаёт запись о фотографии
// вместе с тегами (не более 5 уникальных).
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.Photo, error) {
	const op = "service.photos.Upload"

	if in.Owner == nil || in.Content == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := path.Join("photos", in.Owner.ID.String(), uuid.NewString()+extByContentType(in.ContentType))

	url, err := s.media.Upload(ctx, key, in.ContentType, in.Size, in.Content)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidMedia) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidMedia)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	photo := &models.Photo{
		ID:          uuid.New(),
		UserID:      in.Owner.ID,
		ObjectKey:   key,
		URL:         url,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SavePhoto(ctx, photo); err != nil {
		// Объект уже загружен: подчистим, чтобы не копить сирот.
		if rmErr := s.media.Remove(ctx, key); rmErr != nil {
			log.From(ctx).Warn("orphan_object_cleanup_failed",
				slog.String("op", op),
				slog.String("key", key),
				slog.String("err", rmErr.Error()),
			)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, tag := range tags {
		if err := s.storage.AddTagToPhoto(ctx, photo.ID, tag); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return s.PhotoByID(ctx, photo.ID)
}

// PhotoByID возвращает фотографию с тегами.
func (s *Service) PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const op = "service.photos.PhotoByID"

	photo, err := s.storage.PhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

// PhotosByUser возвращает фотографии пользователя (новые первыми).
func (s *Service) PhotosByUser(ctx context.Context, userID uuid.UUID) ([]models.Photo, error) {
	const op = "service.photos.PhotosByUser"

	photos, err := s.storage.PhotosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// ReplaceFileInput — замена файла существующей фотографии.
type ReplaceFileInput struct {
	Actor       *models.User
	PhotoID     uuid.UUID
	ContentType string
	Size        int64
	Content     io.Reader
}

// ReplaceFile заменяет файл фотографии. Разрешено владельцу и администратору.
// Старый объект удаляется после успешной записи нового.
func (s *Service) ReplaceFile(ctx context.Context, in ReplaceFileInput) (*models.Photo, error) {
	const op = "service.photos.ReplaceFile"

	photo, err := s.PhotoByID(ctx, in.PhotoID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOrAdmin(in.Actor, photo.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newKey := path.Join("photos", photo.UserID.String(), uuid.NewString()+extByContentType(in.ContentType))

	url, err := s.media.Upload(ctx, newKey, in.ContentType, in.Size, in.Content)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidMedia) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidMedia)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oldKey := photo.ObjectKey
	photo.ObjectKey = newKey
	photo.URL = url

	if err := s.storage.UpdatePhoto(ctx, photo); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.media.Remove(ctx, oldKey); err != nil {
		log.From(ctx).Warn("stale_object_cleanup_failed",
			slog.String("op", op),
			slog.String("key", oldKey),
			slog.String("err", err.Error()),
		)
	}

	return photo, nil
}

// UpdateDescription меняет описание. Разрешено владельцу и администратору.
func (s *Service) UpdateDescription(ctx context.Context, actor *models.User, photoID uuid.UUID, description string) (*models.Photo, error) {
	const op = "service.photos.UpdateDescription"

	photo, err := s.PhotoByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOrAdmin(actor, photo.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateDescription(ctx, photoID, strings.TrimSpace(description)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.PhotoByID(ctx, photoID)
}

// Delete удаляет фотографию и её объект в хранилище.
// Разрешено владельцу и администратору.
func (s *Service) Delete(ctx context.Context, actor *models.User, photoID uuid.UUID) error {
	const op = "service.photos.Delete"

	photo, err := s.PhotoByID(ctx, photoID)
	if err != nil {
		return err
	}

	if err := auth.RequireOwnerOrAdmin(actor, photo.UserID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeletePhoto(ctx, photoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.media.Remove(ctx, photo.ObjectKey); err != nil {
		log.From(ctx).Warn("object_cleanup_failed",
			slog.String("op", op),
			slog.String("key", photo.ObjectKey),
			slog.String("err", err.Error()),
		)
	}

	return nil
}

// normalizeTags приводит имена тегов к нижнему регистру, отбрасывает дубли
// и проверяет лимит.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))

	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			return nil, ErrInvalidArgument
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		tags = append(tags, name)
	}

	if len(tags) > maxTagsPerPhoto {
		return nil, ErrTooManyTags
	}

	return tags, nil
}

func extByContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
