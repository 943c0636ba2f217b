package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidMedia — нарушены ограничения загрузки (тип/размер).
	ErrInvalidMedia = errors.New("invalid media")
)

// MediaStorage — контракт хранилища байтов фотографий.
// Семантика трансформаций изображений сознательно за пределами контракта:
// хранилище отвечает только за объект и его публичный URL.
type MediaStorage interface {
	// Upload сохраняет объект и возвращает публичный URL.
	// Внутри — валидация contentType и size по конфигурации.
	Upload(ctx context.Context, key, contentType string, size int64, r io.Reader) (string, error)
	// Remove удаляет объект; отсутствие объекта ошибкой не считается.
	Remove(ctx context.Context, key string) error
}
