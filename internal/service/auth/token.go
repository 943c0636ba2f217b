package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Значения claim "scope". Проверка принадлежности scope выполняется
// вызывающим кодом после декодирования, а не кодеком.
const (
	scopeAccess  = "access_token"
	scopeRefresh = "refresh_token"
	scopeConfirm = "email_confirm"
)

type tokenClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// issueToken выпускает HS256 JWT с claims: sub (email), scope, iat, exp.
func (s *Service) issueToken(email, scope string, ttl time.Duration) (string, error) {
	const op = "service.auth.issueToken"

	now := time.Now().UTC()

	// jti гарантирует уникальность токенов, выпущенных в одну секунду:
	// ротация слота опирается на различимость старого и нового значения.
	claims := tokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// verifyToken проверяет подпись и срок действия токена.
// Истёкший (но корректно подписанный) токен отличим от сломанного:
// ErrTokenExpired против ErrInvalidToken.
func (s *Service) verifyToken(tokenStr string) (*tokenClaims, error) {
	const op = "service.auth.verifyToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// remainingTTL возвращает остаток жизни токена по claim exp.
func remainingTTL(claims *tokenClaims, now time.Time) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}

	return claims.ExpiresAt.Time.Sub(now)
}
