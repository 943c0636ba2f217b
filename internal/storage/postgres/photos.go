package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

// SavePhoto создаёт запись о фотографии.
func (s *Storage) SavePhoto(ctx context.Context, photo *models.Photo) error {
	const op = "storage.postgres.SavePhoto"

	query := `
		INSERT INTO photos(id, user_id, object_key, url, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		photo.ID,
		photo.UserID,
		photo.ObjectKey,
		photo.URL,
		photo.Description,
		photo.CreatedAt,
		photo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PhotoByID возвращает фотографию вместе с тегами.
func (s *Storage) PhotoByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const op = "storage.postgres.PhotoByID"

	query := `
		SELECT id, user_id, object_key, url, COALESCE(description, ''), created_at, updated_at
		FROM photos
		WHERE id = $1
	`

	var photo models.Photo
	err := s.db.QueryRow(ctx, query, id).Scan(
		&photo.ID,
		&photo.UserID,
		&photo.ObjectKey,
		&photo.URL,
		&photo.Description,
		&photo.CreatedAt,
		&photo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := s.tagsByPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	photo.Tags = tags

	return &photo, nil
}

// PhotosByUser возвращает фотографии пользователя (новые первыми).
func (s *Storage) PhotosByUser(ctx context.Context, userID uuid.UUID) ([]models.Photo, error) {
	const op = "storage.postgres.PhotosByUser"

	query := `
		SELECT id, user_id, object_key, url, COALESCE(description, ''), created_at, updated_at
		FROM photos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	photos, err := s.queryPhotos(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// UpdatePhoto перезаписывает объект/URL/описание.
func (s *Storage) UpdatePhoto(ctx context.Context, photo *models.Photo) error {
	const op = "storage.postgres.UpdatePhoto"

	query := `
		UPDATE photos
		SET object_key = $2, url = $3, description = $4, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, photo.ID, photo.ObjectKey, photo.URL, photo.Description)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateDescription меняет только описание.
func (s *Storage) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	const op = "storage.postgres.UpdateDescription"

	query := `UPDATE photos SET description = $2, updated_at = now() WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id, description)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeletePhoto удаляет запись; связи тегов и комментарии снимаются каскадом.
func (s *Storage) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeletePhoto"

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// AddTagToPhoto привязывает тег по имени, создавая его при необходимости.
func (s *Storage) AddTagToPhoto(ctx context.Context, photoID uuid.UUID, name string) error {
	const op = "storage.postgres.AddTagToPhoto"

	const upsertTag = `
		INSERT INTO tags(id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var tagID uuid.UUID
	err := s.db.QueryRow(ctx, upsertTag, uuid.New(), name, time.Now().UTC()).Scan(&tagID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const link = `INSERT INTO photo_tags(photo_id, tag_id) VALUES ($1, $2)`

	if _, err := s.db.Exec(ctx, link, photoID, tagID); err != nil {
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

// RemoveTagFromPhoto отвязывает тег по имени.
func (s *Storage) RemoveTagFromPhoto(ctx context.Context, photoID uuid.UUID, name string) error {
	const op = "storage.postgres.RemoveTagFromPhoto"

	query := `
		DELETE FROM photo_tags
		WHERE photo_id = $1
		  AND tag_id = (SELECT id FROM tags WHERE name = $2)
	`

	cmdTag, err := s.db.Exec(ctx, query, photoID, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ClearTags снимает все теги с фотографии.
func (s *Storage) ClearTags(ctx context.Context, photoID uuid.UUID) error {
	const op = "storage.postgres.ClearTags"

	if _, err := s.db.Exec(ctx, `DELETE FROM photo_tags WHERE photo_id = $1`, photoID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SearchByTag возвращает фотографии, помеченные хотя бы одним из тегов.
func (s *Storage) SearchByTag(ctx context.Context, tags []string) ([]models.Photo, error) {
	const op = "storage.postgres.SearchByTag"

	query := `
		SELECT DISTINCT p.id, p.user_id, p.object_key, p.url, COALESCE(p.description, ''),
		       p.created_at, p.updated_at
		FROM photos p
		JOIN photo_tags pt ON pt.photo_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = ANY($1)
		ORDER BY p.created_at DESC
	`

	photos, err := s.queryPhotos(ctx, query, tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// SearchByKeyword ищет подстроку в описании (без учёта регистра).
func (s *Storage) SearchByKeyword(ctx context.Context, keyword string) ([]models.Photo, error) {
	const op = "storage.postgres.SearchByKeyword"

	query := `
		SELECT id, user_id, object_key, url, COALESCE(description, ''), created_at, updated_at
		FROM photos
		WHERE description ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`

	photos, err := s.queryPhotos(ctx, query, keyword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// FilterPhotos выбирает фотографии по среднему рейтингу и дате создания.
func (s *Storage) FilterPhotos(ctx context.Context, f storage.PhotoFilter) ([]models.Photo, error) {
	const op = "storage.postgres.FilterPhotos"

	query := `
		SELECT p.id, p.user_id, p.object_key, p.url, COALESCE(p.description, ''),
		       p.created_at, p.updated_at
		FROM photos p
		LEFT JOIN ratings r ON r.photo_id = p.id
		WHERE ($3::timestamptz IS NULL OR p.created_at >= $3)
		  AND ($4::timestamptz IS NULL OR p.created_at <= $4)
		GROUP BY p.id
		HAVING ($1::float8 IS NULL OR COALESCE(AVG(r.value), 0) >= $1)
		   AND ($2::float8 IS NULL OR COALESCE(AVG(r.value), 0) <= $2)
		ORDER BY p.created_at DESC
	`

	photos, err := s.queryPhotos(ctx, query, f.MinRating, f.MaxRating, f.Since, f.Until)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func (s *Storage) queryPhotos(ctx context.Context, query string, args ...any) ([]models.Photo, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID,
			&photo.UserID,
			&photo.ObjectKey,
			&photo.URL,
			&photo.Description,
			&photo.CreatedAt,
			&photo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

func (s *Storage) tagsByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN photo_tags pt ON pt.tag_id = t.id
		WHERE pt.photo_id = $1
		ORDER BY t.name
	`

	rows, err := s.db.Query(ctx, query, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}
