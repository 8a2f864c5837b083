package shared

import (
	"context"
	"time"
)

// IdempotencyStore records processed operation keys so that retried
// callbacks can short-circuit before touching the database.
type IdempotencyStore interface {
	// MarkProcessed records the key. Returns true if the key was fresh,
	// false if it had already been recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key has been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	Close() error
}
