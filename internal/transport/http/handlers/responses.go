package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// UserResponse — полное представление пользователя (для него самого и админки).
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Allowed     bool      `json:"allowed"`
	Confirmed   bool      `json:"confirmed"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicProfileResponse — публичный профиль: без email и телефона.
type PublicProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoResponse — фотография с тегами.
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentResponse — комментарий.
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PhotoID   uuid.UUID `json:"photo_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingResponse — выставленная оценка.
type RatingResponse struct {
	ID        uuid.UUID `json:"id"`
	PhotoID   uuid.UUID `json:"photo_id"`
	UserID    uuid.UUID `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// StatisticsResponse — сводка активности пользователя.
type StatisticsResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	Username           string    `json:"username"`
	PhotoCount         int       `json:"photo_count"`
	CommentCount       int       `json:"comment_count"`
	RatingReceived     float64   `json:"rating_received"`
	AverageRatingGiven float64   `json:"average_rating_given"`
}

func toUser(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        string(u.Role),
		Allowed:     u.Allowed,
		Confirmed:   u.Confirmed,
		AvatarURL:   u.AvatarURL,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func toPublicProfile(u *models.User) PublicProfileResponse {
	return PublicProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func toPhoto(p *models.Photo) PhotoResponse {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}

	return PhotoResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		URL:         p.URL,
		Description: p.Description,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPhotos(list []models.Photo) []PhotoResponse {
	out := make([]PhotoResponse, 0, len(list))
	for i := range list {
		out = append(out, toPhoto(&list[i]))
	}

	return out
}

func toComment(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PhotoID:   c.PhotoID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toRating(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		PhotoID:   r.PhotoID,
		UserID:    r.UserID,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
	}
}

func toStatistics(s *models.UserStatistics) StatisticsResponse {
	return StatisticsResponse{
		UserID:             s.UserID,
		Username:           s.Username,
		PhotoCount:         s.PhotoCount,
		CommentCount:       s.CommentCount,
		RatingReceived:     s.RatingReceived,
		AverageRatingGiven: s.AverageRatingGiven,
	}
}
