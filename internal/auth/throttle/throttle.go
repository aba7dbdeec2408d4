// Package throttle counts consecutive failed login attempts per email in a
// shared cache so every instance of the service sees the same counter. A
// bounded local shadow keeps the last written value available when the shared
// cache is unreachable.
package throttle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/semaphore"
)

const (
	// KeyPrefix namespaces attempt counters in the shared cache.
	KeyPrefix = "login_attempts"

	// DefaultTTL is how long a counter survives without further failures.
	DefaultTTL = 10 * time.Minute

	// DefaultMaxWriters caps concurrent shared-cache writers across all
	// goroutines in the process.
	DefaultMaxWriters = 10

	shadowMaxEntries = 8192
)

// CacheError wraps a shared-cache failure so callers can distinguish
// infrastructure faults from a genuine attempt count.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("throttle: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Throttle tracks failed login attempts per email.
type Throttle struct {
	rdb     redis.UniversalClient
	ttl     time.Duration
	writers *semaphore.Weighted

	// shadow mirrors the last value written through this process. It is a
	// fallback for reads when the shared cache is down, never the source
	// of truth.
	shadow *lru.LRU[string, int64]
}

// New builds a Throttle over the given redis client with the default TTL and
// writer cap.
func New(rdb redis.UniversalClient) *Throttle {
	return NewWithTTL(rdb, DefaultTTL, DefaultMaxWriters)
}

// NewWithTTL builds a Throttle with explicit TTL and writer cap.
func NewWithTTL(rdb redis.UniversalClient, ttl time.Duration, maxWriters int64) *Throttle {
	return &Throttle{
		rdb:     rdb,
		ttl:     ttl,
		writers: semaphore.NewWeighted(maxWriters),
		shadow:  lru.NewLRU[string, int64](shadowMaxEntries, nil, ttl),
	}
}

func key(email string) string { return KeyPrefix + email }

// Count returns the current failed-attempt count for the email. A missing
// counter reads as zero. When the shared cache is unreachable the local
// shadow value is returned instead, so a burst of failures noticed by this
// instance still locks the account.
func (t *Throttle) Count(ctx context.Context, email string) (int64, error) {
	k := key(email)

	val, err := t.rdb.Get(ctx, k).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		if shadowed, ok := t.shadow.Get(k); ok {
			return shadowed, nil
		}
		return 0, &CacheError{Op: "get", Key: k, Err: err}
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, &CacheError{Op: "parse", Key: k, Err: err}
	}
	return n, nil
}

// Increment bumps the counter and refreshes its TTL, returning the new count.
// Writers are capped process-wide so a credential-stuffing burst cannot pile
// unbounded goroutines onto the shared cache.
func (t *Throttle) Increment(ctx context.Context, email string) (int64, error) {
	k := key(email)

	if err := t.writers.Acquire(ctx, 1); err != nil {
		return 0, &CacheError{Op: "acquire", Key: k, Err: err}
	}
	defer t.writers.Release(1)

	pipe := t.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, t.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, &CacheError{Op: "incr", Key: k, Err: err}
	}

	n := incr.Val()
	t.shadow.Add(k, n)
	return n, nil
}

// Reset clears the counter after a successful login.
func (t *Throttle) Reset(ctx context.Context, email string) error {
	k := key(email)

	if err := t.writers.Acquire(ctx, 1); err != nil {
		return &CacheError{Op: "acquire", Key: k, Err: err}
	}
	defer t.writers.Release(1)

	if err := t.rdb.Del(ctx, k).Err(); err != nil {
		return &CacheError{Op: "del", Key: k, Err: err}
	}

	t.shadow.Remove(k)
	return nil
}
