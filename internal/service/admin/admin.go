// admin содержит операции модерации: смену ролей, мягкую блокировку
// пользователей и сводную статистику по активности.
package admin

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/service/auth"
	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrUserNotFound — пользователь не найден. Транспорт: HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidRole — неизвестная роль. Транспорт: HTTP 400.
	ErrInvalidRole = errors.New("invalid role")

	// ErrSelfDemotion — администратор пытается изменить собственную роль
	// или заблокировать сам себя. Транспорт: HTTP 400.
	ErrSelfDemotion = errors.New("cannot change own role or block yourself")
)

// Service описывает операции модерации.
type Service struct {
	users   storage.UserStorage
	ratings storage.RatingStorage
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, ratings storage.RatingStorage) *Service {
	return &Service{
		users:   users,
		ratings: ratings,
	}
}

// UpdateRole меняет роль пользователя. Только администратор;
// собственную роль менять нельзя.
func (s *Service) UpdateRole(ctx context.Context, actor *models.User, userID uuid.UUID, role models.Role) (*models.User, error) {
	const op = "service.admin.UpdateRole"

	if err := auth.RequireAdmin(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}

	if actor.ID == userID {
		return nil, fmt.Errorf("%s: %w", op, ErrSelfDemotion)
	}

	if err := s.users.UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SetAllowed включает/выключает мягкую блокировку пользователя.
// Только администратор; себя блокировать нельзя.
func (s *Service) SetAllowed(ctx context.Context, actor *models.User, userID uuid.UUID, allowed bool) (*models.User, error) {
	const op = "service.admin.SetAllowed"

	if err := auth.RequireAdmin(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if actor.ID == userID {
		return nil, fmt.Errorf("%s: %w", op, ErrSelfDemotion)
	}

	if err := s.users.SetUserAllowed(ctx, userID, allowed); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ListUsers возвращает всех пользователей. Только администратор.
func (s *Service) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	const op = "service.admin.ListUsers"

	if err := auth.RequireAdmin(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// UserStatistics собирает сводку активности пользователя: число фотографий
// и комментариев, средний полученный и средний выставленный рейтинг.
// Доступно модератору и администратору.
func (s *Service) UserStatistics(ctx context.Context, actor *models.User, userID uuid.UUID) (*models.UserStatistics, error) {
	const op = "service.admin.UserStatistics"

	if err := auth.RequireModeratorOrAdmin(actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	photoCount, err := s.ratings.CountPhotosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	commentCount, err := s.ratings.CountCommentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	received, err := s.ratings.AverageReceivedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	given, err := s.ratings.AverageGivenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.UserStatistics{
		UserID:             user.ID,
		Username:           user.Username,
		PhotoCount:         int(photoCount),
		CommentCount:       int(commentCount),
		RatingReceived:     round2(received),
		AverageRatingGiven: round2(given),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
