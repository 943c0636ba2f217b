package auth

import (
	"errors"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
)

// Ошибки проверок прав. Тексты отдаются клиенту как есть (HTTP 403).
var (
	ErrAdminRequired     = errors.New("Whoops! Seems that administrative privileges required for this action")
	ErrModeratorRequired = errors.New("Uh-oh! Only moderators or admins can perform this action")
	ErrNotOwner          = errors.New("It appears you are not allowed to perform this action")
)

// RequireAdmin пропускает только администратора.
func RequireAdmin(user *models.User) error {
	if user.Role != models.RoleAdmin {
		return ErrAdminRequired
	}

	return nil
}

// RequireModeratorOrAdmin пропускает модератора или администратора.
func RequireModeratorOrAdmin(user *models.User) error {
	if user.Role != models.RoleModerator && user.Role != models.RoleAdmin {
		return ErrModeratorRequired
	}

	return nil
}

// RequireOwnerOrAdmin пропускает владельца ресурса или администратора.
func RequireOwnerOrAdmin(user *models.User, ownerID uuid.UUID) error {
	if user.ID != ownerID && user.Role != models.RoleAdmin {
		return ErrNotOwner
	}

	return nil
}
