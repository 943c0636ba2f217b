// users содержит операции профиля: просмотр своего и публичного профиля,
// изменение username/телефона и загрузку аватара.
package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrUserNotFound — пользователь не найден. Транспорт: HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUsername — имя пользователя короче 5 символов.
	// Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("username must be at least 5 characters")

	// ErrInvalidPhone — телефон содержит меньше 10 цифр. Транспорт: HTTP 400.
	ErrInvalidPhone = errors.New("phone number must contain at least 10 digits")

	// ErrInvalidMedia — нарушены ограничения загрузки аватара.
	// Транспорт: HTTP 400.
	ErrInvalidMedia = errors.New("invalid media")
)

// Service описывает операции профиля.
type Service struct {
	users storage.UserStorage
	media storage.MediaStorage
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, media storage.MediaStorage) *Service {
	return &Service{
		users: users,
		media: media,
	}
}

// Profile возвращает публичный профиль по ID.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service.users.Profile"

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfileInput — изменяемые поля профиля. Пустые значения
// оставляют поле без изменений.
type UpdateProfileInput struct {
	Username    string
	PhoneNumber string
}

// UpdateProfile сохраняет изменённые поля профиля actor.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, in UpdateProfileInput) (*models.User, error) {
	const op = "service.users.UpdateProfile"

	if username := strings.TrimSpace(in.Username); username != "" {
		if len([]rune(username)) < 5 {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}

		actor.Username = username
	}

	if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
		if digitCount(phone) < 10 {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidPhone)
		}

		actor.PhoneNumber = phone
	}

	if err := s.users.UpdateProfile(ctx, actor); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return actor, nil
}

// UploadAvatar загружает аватар actor и сохраняет его публичный URL.
func (s *Service) UploadAvatar(ctx context.Context, actor *models.User, contentType string, size int64, content io.Reader) (*models.User, error) {
	const op = "service.users.UploadAvatar"

	key := path.Join("avatars", actor.ID.String(), uuid.NewString()+extByContentType(contentType))

	url, err := s.media.Upload(ctx, key, contentType, size, content)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidMedia) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidMedia)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	actor.AvatarURL = url

	if err := s.users.UpdateProfile(ctx, actor); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return actor, nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}

	return n
}

func extByContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
