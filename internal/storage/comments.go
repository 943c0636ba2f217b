package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// CommentStorage выполняет операции над комментариями.
type CommentStorage interface {
	// SaveComment создаёт комментарий.
	SaveComment(ctx context.Context, comment *models.Comment) error
	// CommentByID возвращает комментарий по ID.
	CommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// CommentsByPhoto возвращает комментарии фотографии (старые первыми).
	CommentsByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error)
	// UpdateComment меняет текст комментария.
	UpdateComment(ctx context.Context, id uuid.UUID, content string) error
	// DeleteComment удаляет комментарий.
	DeleteComment(ctx context.Context, id uuid.UUID) error
}
