package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo — загруженная фотография.
// ObjectKey — ключ объекта в media-хранилище, URL — публичная ссылка.
type Photo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ObjectKey   string
	URL         string
	Description string
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag — метка фотографии; имя глобально уникально,
// на одной фотографии не более пяти уникальных тегов.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
