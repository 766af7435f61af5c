// Package blacklist mantiene en Redis los tokens revocados (logout). El TTL
// de cada entrada es la vida restante del token, así Redis se limpia solo.
package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist registra tokens revocados antes de su expiración natural.
type TokenBlacklist struct {
	rdb *redis.Client
}

// New construye el blacklist sobre un cliente Redis ya conectado.
func New(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func key(token string) string {
	return "blacklist:token:" + token
}

// Revocar agrega el token con TTL hasta expiresAt. Un token ya expirado no
// se registra: el verificador de JWT lo rechaza solo.
func (b *TokenBlacklist) Revocar(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.rdb.Set(ctx, key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist: revocar token: %w", err)
	}
	return nil
}

// EstaRevocado informa si el token fue revocado.
func (b *TokenBlacklist) EstaRevocado(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist: consultar token: %w", err)
	}
	return n > 0, nil
}
