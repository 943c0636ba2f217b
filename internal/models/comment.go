package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к фотографии.
type Comment struct {
	ID        uuid.UUID
	PhotoID   uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
