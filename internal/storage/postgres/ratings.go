package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

// SaveRating сохраняет оценку; повторная оценка — ErrAlreadyExists.
func (s *Storage) SaveRating(ctx context.Context, rating *models.Rating) error {
	const op = "storage.postgres.SaveRating"

	query := `
		INSERT INTO ratings(id, photo_id, user_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		rating.ID,
		rating.PhotoID,
		rating.UserID,
		rating.Value,
		rating.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
			}
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AverageForPhoto — средняя оценка фотографии (0, если оценок нет).
func (s *Storage) AverageForPhoto(ctx context.Context, photoID uuid.UUID) (float64, error) {
	const op = "storage.postgres.AverageForPhoto"

	query := `SELECT COALESCE(AVG(value), 0) FROM ratings WHERE photo_id = $1`

	var avg float64
	if err := s.db.QueryRow(ctx, query, photoID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return avg, nil
}

// AverageReceivedByUser — средняя оценка всех фотографий пользователя.
func (s *Storage) AverageReceivedByUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	const op = "storage.postgres.AverageReceivedByUser"

	query := `
		SELECT COALESCE(AVG(r.value), 0)
		FROM ratings r
		JOIN photos p ON p.id = r.photo_id
		WHERE p.user_id = $1
	`

	var avg float64
	if err := s.db.QueryRow(ctx, query, userID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return avg, nil
}

// AverageGivenByUser — средняя оценка, которую пользователь ставит другим.
func (s *Storage) AverageGivenByUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	const op = "storage.postgres.AverageGivenByUser"

	query := `SELECT COALESCE(AVG(value), 0) FROM ratings WHERE user_id = $1`

	var avg float64
	if err := s.db.QueryRow(ctx, query, userID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return avg, nil
}

// CountPhotosByUser — число фотографий пользователя.
func (s *Storage) CountPhotosByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage.postgres.CountPhotosByUser"

	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM photos WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// CountCommentsByUser — число комментариев пользователя.
func (s *Storage) CountCommentsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage.postgres.CountCommentsByUser"

	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
