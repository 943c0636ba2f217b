package storage

import (
	"context"
	"time"
)

// TokenBlacklist — чёрный список отозванных access-токенов.
//
// Хранилище обязано быть долговечным и общим для всех инстансов
// (таблица БД или внешний кэш) — внутрипроцессное множество не переживает
// рестарт и не работает при горизонтальном масштабировании.
//
// Повторное добавление того же значения не является ошибкой.
type TokenBlacklist interface {
	// Add заносит «сырое» значение токена в список. ttl > 0 ограничивает
	// срок хранения записи остаточным временем жизни токена.
	Add(ctx context.Context, token string, ttl time.Duration) error
	// Contains сообщает, отозван ли токен.
	Contains(ctx context.Context, token string) (bool, error)
	// Close закрывает соединение с хранилищем.
	Close() error
}
