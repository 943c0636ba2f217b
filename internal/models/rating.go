package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating — оценка фотографии (1..5). Один пользователь оценивает
// одну фотографию не более одного раза; свои фотографии оценивать нельзя.
type Rating struct {
	ID        uuid.UUID
	PhotoID   uuid.UUID
	UserID    uuid.UUID
	Value     int
	CreatedAt time.Time
}

// UserStatistics — сводка по пользователю для админ-панели.
type UserStatistics struct {
	UserID             uuid.UUID
	Username           string
	PhotoCount         int
	CommentCount       int
	RatingReceived     float64
	AverageRatingGiven float64
}
