package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя. При занятом email — ErrAlreadyExists.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CountUsers возвращает общее число пользователей.
	CountUsers(ctx context.Context) (int64, error)
	// ListUsers возвращает всех пользователей (админ-статистика).
	ListUsers(ctx context.Context) ([]models.User, error)

	// UpdateRefreshToken безусловно перезаписывает слот refresh-токена.
	// Пустое значение очищает слот.
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	// RotateRefreshToken заменяет слот refresh-токена только если его текущее
	// значение равно old. Возвращает false, если слот уже изменён (гонка
	// двух обновлений: выигрывает первый, остальные инвалидируются).
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, old, next string) (bool, error)

	// ConfirmEmail помечает email подтверждённым.
	ConfirmEmail(ctx context.Context, email string) error
	// UpdateUserRole меняет роль пользователя.
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error
	// SetUserAllowed включает/выключает мягкую блокировку.
	SetUserAllowed(ctx context.Context, userID uuid.UUID, allowed bool) error
	// UpdateProfile сохраняет изменяемые поля профиля (username/phone/avatar).
	UpdateProfile(ctx context.Context, user *models.User) error
}
