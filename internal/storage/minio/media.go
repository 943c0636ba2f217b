package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	mclient "github.com/minio/minio-go/v7"

	"github.com/vsmolina/photoshare/internal/storage"
)

// Upload кладёт байты фотографии в бакет по ключу key.
// Валидирует contentType и size согласно конфигу и возвращает публичный URL
// объекта (на базе PublicBaseURL, иначе — endpoint/bucket).
func (s *MediaStorage) Upload(ctx context.Context, key, contentType string, size int64, r io.Reader) (string, error) {
	const op = "storage.minio.Upload"

	if size <= 0 || size > s.cfg.Media.MaxSizeBytes {
		return "", storage.ErrInvalidMedia
	}

	if !isAllowedContentType(s.cfg.Media.AllowedContentTypes, contentType) {
		return "", storage.ErrInvalidMedia
	}

	_, err := s.client.PutObject(ctx, s.cfg.S3.Bucket, key, r, size, mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL(key), nil
}

// Remove удаляет объект; отсутствие объекта ошибкой не считается.
func (s *MediaStorage) Remove(ctx context.Context, key string) error {
	const op = "storage.minio.Remove"

	err := s.client.RemoveObject(ctx, s.cfg.S3.Bucket, key, mclient.RemoveObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *MediaStorage) publicURL(key string) string {
	if s.cfg.S3.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.S3.PublicBaseURL, "/") + "/" + key
	}

	return strings.TrimRight(s.cfg.S3.Endpoint, "/") + "/" + s.cfg.S3.Bucket + "/" + key
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
