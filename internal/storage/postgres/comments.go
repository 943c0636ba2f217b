package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

// SaveComment создаёт комментарий.
func (s *Storage) SaveComment(ctx context.Context, comment *models.Comment) error {
	const op = "storage.postgres.SaveComment"

	query := `
		INSERT INTO comments(id, photo_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		comment.ID,
		comment.PhotoID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CommentByID возвращает комментарий по ID.
func (s *Storage) CommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	const op = "storage.postgres.CommentByID"

	query := `
		SELECT id, photo_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var comment models.Comment
	err := s.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.PhotoID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &comment, nil
}

// CommentsByPhoto возвращает комментарии фотографии (старые первыми).
func (s *Storage) CommentsByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error) {
	const op = "storage.postgres.CommentsByPhoto"

	query := `
		SELECT id, photo_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE photo_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.PhotoID,
			&comment.UserID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

// UpdateComment меняет текст комментария.
func (s *Storage) UpdateComment(ctx context.Context, id uuid.UUID, content string) error {
	const op = "storage.postgres.UpdateComment"

	query := `UPDATE comments SET content = $2, updated_at = now() WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteComment удаляет комментарий.
func (s *Storage) DeleteComment(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteComment"

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
