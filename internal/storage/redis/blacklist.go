// Package redis реализует storage.TokenBlacklist поверх Redis.
//
// Каждый отозванный токен хранится отдельным ключом с TTL, равным
// остаточному сроку жизни токена: после истечения токен перестаёт
// проходить криптографическую проверку, и запись больше не нужна.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vsmolina/photoshare/internal/storage"
)

type blacklist struct {
	rdb    *redis.Client
	prefix string
}

// NewBlacklist создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:bl:".
func NewBlacklist(redisURL, prefix string) (storage.TokenBlacklist, error) {
	if prefix == "" {
		prefix = "auth:bl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &blacklist{rdb: rdb, prefix: prefix}, nil
}

func (b *blacklist) key(token string) string { return b.prefix + token }

// Add помещает токен в чёрный список на срок ttl.
// Неположительный ttl означает, что токен уже истёк, — запись не нужна.
func (b *blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return b.rdb.Set(ctx, b.key(token), "1", ttl).Err()
}

// Contains сообщает, отозван ли токен.
func (b *blacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Close закрывает клиент Redis.
func (b *blacklist) Close() error { return b.rdb.Close() }
