package session

import (
	"context"

	"tennisclub/internal/domain/player"
)

// Store persists authenticated sessions across restarts. Each token maps to
// exactly one serialized Player; writing a token again overwrites it.
type Store interface {
	Create(ctx context.Context, p player.Player) (string, error)
	Get(ctx context.Context, token string) (player.Player, bool, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
