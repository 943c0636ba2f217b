package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/vsmolina/photoshare/internal/models"
	"github.com/vsmolina/photoshare/internal/pkg/log"
	"github.com/vsmolina/photoshare/internal/pkg/redact"
	"github.com/vsmolina/photoshare/internal/storage"
)

// TTL токена подтверждения email.
const confirmTokenTTL = 24 * time.Hour

// Signup регистрирует нового пользователя.
//
// Самый первый пользователь сервиса получает роль admin, все последующие —
// user. Пароль хэшируется до записи; открытый текст не сохраняется и не
// логируется. После записи выпускается токен подтверждения email и
// передаётся отправителю писем.
func (s *Service) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	const op = "service.auth.Signup"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmailFormat)
	}

	if len([]rune(strings.TrimSpace(username))) < 5 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	count, err := s.storage.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		Username:     strings.TrimSpace(username),
		PasswordHash: hashed,
		Role:         role,
		Allowed:      true,
		Confirmed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	confirmToken, err := s.issueToken(normEmail, scopeConfirm, confirmTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Недоставленное письмо не откатывает регистрацию: токен можно
	// перевыпустить повторным запросом подтверждения.
	if err := s.sender.SendConfirmation(ctx, normEmail, confirmToken); err != nil {
		log.From(ctx).Warn("confirmation_send_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(normEmail)),
			slog.String("err", err.Error()),
		)
	}

	return user, nil
}

// Login выполняет вход по email+пароль и выпускает пару токенов.
//
// Неизвестный email и неверный пароль дают разные ошибки (ErrInvalidEmail /
// ErrInvalidPassword). Неподтверждённый адрес проверяется только после того,
// как пользователь найден и пароль совпал. Новый refresh-токен безусловно
// перезаписывает слот users.refresh_token: активна ровно одна сессия.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "service.auth.Login"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPassword)
	}

	if !user.Confirmed {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailNotConfirmed)
	}

	pair, refresh, err := s.newTokenPair(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// RefreshAccessToken ротирует пару токенов по refresh-токену.
//
// Предъявленный токен сверяется со слотом users.refresh_token. Несовпадение
// трактуется как повторное использование уже заменённого токена: слот
// очищается, сессия завершается. Сама замена выполняется условным
// обновлением «старое значение → новое», поэтому из двух гонящихся
// запросов с одним и тем же токеном выигрывает ровно один.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.RefreshAccessToken"

	lg := log.From(ctx)

	claims, err := s.verifyToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Scope != scopeRefresh {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.storage.UserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.RefreshToken != refreshToken {
		lg.Warn("refresh_reuse_detected",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)

		if err := s.storage.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	pair, next, err := s.newTokenPair(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rotated, err := s.storage.RotateRefreshToken(ctx, user.ID, refreshToken, next)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !rotated {
		// Слот успел заменить конкурирующий запрос.
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return pair, nil
}

// ResolveCurrentUser возвращает пользователя по access-токену.
func (s *Service) ResolveCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service.auth.ResolveCurrentUser"

	claims, err := s.verifyToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Scope != scopeAccess {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.storage.UserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.Allowed {
		return nil, fmt.Errorf("%s: %w", op, ErrUserBlocked)
	}

	return user, nil
}

// Logout отзывает предъявленный access-токен: он попадает в чёрный список
// до конца своего срока жизни. Слот refresh-токена при этом не очищается.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	const op = "service.auth.Logout"

	claims, err := s.verifyToken(accessToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if claims.Scope != scopeAccess {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	ttl := remainingTTL(claims, time.Now().UTC())
	if err := s.blacklist.Add(ctx, accessToken, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsTokenRevoked сообщает, находится ли токен в чёрном списке.
// Ошибка хранилища возвращается как есть: вызывающая сторона обязана
// отклонить запрос (fail-closed), а не пропустить его.
func (s *Service) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	const op = "service.auth.IsTokenRevoked"

	revoked, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return revoked, nil
}

// ConfirmEmail помечает адрес подтверждённым по токену из письма.
func (s *Service) ConfirmEmail(ctx context.Context, confirmToken string) error {
	const op = "service.auth.ConfirmEmail"

	claims, err := s.verifyToken(confirmToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if claims.Scope != scopeConfirm {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := s.storage.ConfirmEmail(ctx, claims.Subject); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// newTokenPair выпускает пару access+refresh. Возвращает также refresh
// отдельно — вызывающий код сам решает, как записать его в слот.
func (s *Service) newTokenPair(email string) (*models.TokenPair, string, error) {
	access, err := s.issueToken(email, scopeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, "", err
	}

	refresh, err := s.issueToken(email, scopeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, "", err
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, refresh, nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmailFormat
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmailFormat
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	if len(pw) == 0 {
		return ErrEmptyPassword
	}

	if len([]rune(pw)) < 8 {
		return ErrWeakPassword
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return ErrWeakPassword
	}

	return nil
}
