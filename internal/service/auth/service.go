// auth содержит бизнес-логику аутентификации и жизненного цикла сессии:
// регистрацию и вход, выпуск/проверку токенов, ротацию refresh-токена,
// отзыв access-токенов через чёрный список и проверки прав доступа.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища потокобезопасны.
//   - Ошибки возвращаются и далее маппятся транспортом на HTTP-коды
//     (см. комментарии к переменным ошибок ниже).
package auth

import (
	"errors"

	"github.com/vsmolina/photoshare/internal/config"
	"github.com/vsmolina/photoshare/internal/email"
	"github.com/vsmolina/photoshare/internal/storage"
)

var (
	// ErrInvalidEmail — пользователь с таким email не зарегистрирован.
	// Транспорт: HTTP 401, сообщение "Invalid email".
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPassword — пароль не совпал с сохранённым хэшем.
	// Транспорт: HTTP 401, сообщение "Invalid password".
	ErrInvalidPassword = errors.New("invalid password")

	// ErrEmailNotConfirmed — адрес ещё не подтверждён по ссылке из письма.
	// Проверяется только после того, как пользователь найден.
	// Транспорт: HTTP 401.
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи,
	// имеет чужой scope или не совпал со слотом в хранилище.
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк (подпись при этом верна).
	// Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — access-токен отозван через logout и недействителен
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserBlocked — пользователь мягко заблокирован администратором
	// (allowed=false). Транспорт: HTTP 403.
	ErrUserBlocked = errors.New("user is blocked")

	// ErrInvalidEmailFormat — e-mail имеет некорректный формат.
	// Транспорт: HTTP 400.
	ErrInvalidEmailFormat = errors.New("invalid email format")

	// ErrInvalidUsername — имя пользователя короче 5 символов.
	// Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("username must be at least 5 characters")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой.
	// Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику аутентификации.
type Service struct {
	storage   storage.UserStorage
	blacklist storage.TokenBlacklist
	hasher    PasswordHasher
	sender    email.Sender
	cfg       config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(st storage.UserStorage, bl storage.TokenBlacklist, hasher PasswordHasher, sender email.Sender, cfg config.AuthConfig) *Service {
	return &Service{
		storage:   st,
		blacklist: bl,
		hasher:    hasher,
		sender:    sender,
		cfg:       cfg,
	}
}
