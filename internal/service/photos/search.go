package photos

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

// SearchByTags возвращает фотографии, помеченные хотя бы одним из тегов.
func (s *Service) SearchByTags(ctx context.Context, names []string) ([]models.Photo, error) {
	const op = "service.photos.SearchByTags"

	tags, err := normalizeTags(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	photos, err := s.storage.SearchByTag(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// SearchByKeyword ищет подстроку в описании (без учёта регистра).
func (s *Service) SearchByKeyword(ctx context.Context, keyword string) ([]models.Photo, error) {
	const op = "service.photos.SearchByKeyword"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	photos, err := s.storage.SearchByKeyword(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

// Filter выбирает фотографии по границам среднего рейтинга и дате создания.
func (s *Service) Filter(ctx context.Context, f storage.PhotoFilter) ([]models.Photo, error) {
	const op = "service.photos.Filter"

	if f.MinRating != nil && f.MaxRating != nil && *f.MinRating > *f.MaxRating {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if f.Since != nil && f.Until != nil && f.Since.After(*f.Until) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	photos, err := s.storage.FilterPhotos(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}
