// Package tokencache wraps a store.Tokens with a per-user read-through cache.
// List reads are served from memory for a short TTL; every write invalidates
// the owning user's entry so the next read goes back to the database.
package tokencache

import (
	"context"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultTTL matches how long a cached token list stays fresh.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds memory; one entry per recently-active user.
	DefaultMaxEntries = 4096

	keyPrefix = "UserTokens_"
)

// Tokens is a caching decorator over any store.Tokens implementation.
type Tokens struct {
	inner store.Tokens
	cache *lru.LRU[string, []domain.Token]
}

var _ store.Tokens = (*Tokens)(nil)

// New wraps inner with a read-through cache using the default TTL and size.
func New(inner store.Tokens) *Tokens {
	return NewWithTTL(inner, DefaultTTL, DefaultMaxEntries)
}

// NewWithTTL wraps inner with an explicit TTL and entry bound.
func NewWithTTL(inner store.Tokens, ttl time.Duration, maxEntries int) *Tokens {
	return &Tokens{
		inner: inner,
		cache: lru.NewLRU[string, []domain.Token](maxEntries, nil, ttl),
	}
}

func cacheKey(userID string) string { return keyPrefix + userID }

// FindAllByUser returns every token row owned by the user, from cache when
// fresh.
func (t *Tokens) FindAllByUser(ctx context.Context, userID string) ([]domain.Token, error) {
	if cached, ok := t.cache.Get(cacheKey(userID)); ok {
		return cloneTokens(cached), nil
	}

	tokens, err := t.inner.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.cache.Add(cacheKey(userID), cloneTokens(tokens))
	return tokens, nil
}

// FindValidByUser reads through the same per-user entry as FindAllByUser and
// filters in memory, so both queries share one cache slot per user.
func (t *Tokens) FindValidByUser(ctx context.Context, userID string) ([]domain.Token, error) {
	all, err := t.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid := make([]domain.Token, 0, len(all))
	for _, tok := range all {
		if tok.Valid() {
			valid = append(valid, tok)
		}
	}
	return valid, nil
}

// FindByValue always hits the store; value lookups are not user-scoped.
func (t *Tokens) FindByValue(ctx context.Context, value string) (domain.Token, error) {
	return t.inner.FindByValue(ctx, value)
}

// Save writes through and invalidates the owning user's entry.
func (t *Tokens) Save(ctx context.Context, tok domain.Token) error {
	if err := t.inner.Save(ctx, tok); err != nil {
		return err
	}
	t.cache.Remove(cacheKey(tok.UserID))
	return nil
}

// SaveAll writes through and invalidates every affected user's entry.
func (t *Tokens) SaveAll(ctx context.Context, toks []domain.Token) error {
	if err := t.inner.SaveAll(ctx, toks); err != nil {
		return err
	}
	for _, userID := range affectedUsers(toks) {
		t.cache.Remove(cacheKey(userID))
	}
	return nil
}

// DeleteAll removes the rows and invalidates every affected user's entry.
func (t *Tokens) DeleteAll(ctx context.Context, toks []domain.Token) error {
	if err := t.inner.DeleteAll(ctx, toks); err != nil {
		return err
	}
	for _, userID := range affectedUsers(toks) {
		t.cache.Remove(cacheKey(userID))
	}
	return nil
}

// DeleteByUser removes the user's rows and invalidates their entry.
func (t *Tokens) DeleteByUser(ctx context.Context, userID string) error {
	if err := t.inner.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	t.cache.Remove(cacheKey(userID))
	return nil
}

// Purge drops every cached entry. Used by tests and administrative resets.
func (t *Tokens) Purge() { t.cache.Purge() }

func affectedUsers(toks []domain.Token) []string {
	seen := make(map[string]struct{}, len(toks))
	users := make([]string, 0, len(toks))
	for _, tok := range toks {
		if _, ok := seen[tok.UserID]; ok {
			continue
		}
		seen[tok.UserID] = struct{}{}
		users = append(users, tok.UserID)
	}
	return users
}

func cloneTokens(toks []domain.Token) []domain.Token {
	out := make([]domain.Token, len(toks))
	copy(out, toks)
	return out
}
