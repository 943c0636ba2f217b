// comments содержит бизнес-логику комментариев: создание, чтение,
// редактирование владельцем и удаление владельцем/модератором/администратором.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrNotFound — комментарий не найден. Транспорт: HTTP 404.
	ErrNotFound = errors.New("comment not found")

	// ErrPhotoNotFound — фотография, к которой относится комментарий,
	// не найдена. Транспорт: HTTP 404.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrInvalidArgument — пустой текст комментария. Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotAuthorized — попытка изменить чужой комментарий.
	// Транспорт: HTTP 403, сообщение "Not authorized to modify this comment".
	ErrNotAuthorized = errors.New("not authorized to modify this comment")
)

// Service описывает бизнес-логику комментариев.
type Service struct {
	storage storage.CommentStorage
	photos  storage.PhotoStorage
}

// New создаёт новый экземпляр Service.
func New(st storage.CommentStorage, photos storage.PhotoStorage) *Service {
	return &Service{
		storage: st,
		photos:  photos,
	}
}

// Create добавляет комментарий к фотографии.
func (s *Service) Create(ctx context.Context, actor *models.User, photoID uuid.UUID, content string) (*models.Comment, error) {
	const op = "service.comments.Create"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.photos.PhotoByID(ctx, photoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:        uuid.New(),
		PhotoID:   photoID,
		UserID:    actor.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveComment(ctx, comment); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

// ListByPhoto возвращает комментарии фотографии (старые первыми).
func (s *Service) ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error) {
	const op = "service.comments.ListByPhoto"

	if _, err := s.photos.PhotoByID(ctx, photoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := s.storage.CommentsByPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// Update меняет текст комментария. Разрешено только автору.
func (s *Service) Update(ctx context.Context, actor *models.User, commentID uuid.UUID, content string) (*models.Comment, error) {
	const op = "service.comments.Update"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comment, err := s.storage.CommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if comment.UserID != actor.ID {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthorized)
	}

	if err := s.storage.UpdateComment(ctx, commentID, content); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comment.Content = content

	return comment, nil
}

// Delete удаляет комментарий. Разрешено автору, модератору и администратору.
func (s *Service) Delete(ctx context.Context, actor *models.User, commentID uuid.UUID) error {
	const op = "service.comments.Delete"

	comment, err := s.storage.CommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if comment.UserID != actor.ID {
		if err := auth.RequireModeratorOrAdmin(actor); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.storage.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
