package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя в системе.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid сообщает, входит ли значение в допустимый набор ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}

	return false
}

// User — модель пользователя.
//
// Инварианты:
//   - Email уникален;
//   - Role всегда одна из трёх: user/moderator/admin;
//   - Allowed=false — мягкая блокировка: валидный токен такого пользователя
//     отклоняется при резолве личности;
//   - RefreshToken — единственный «слот» активного refresh-токена: перезапись
//     при логине/ротации атомарно инвалидирует все ранее выданные.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	Allowed      bool
	Confirmed    bool
	RefreshToken string
	AvatarURL    string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
