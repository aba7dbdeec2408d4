package service

import (
	"context"
	"log/slog"

	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// Result is the outcome of a mutating operation. Message is user-facing and
// safe to return verbatim; internal causes are logged, never surfaced.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RunInTransaction executes fn inside a transaction. A failed Result rolls
// back but is returned unchanged so the caller sees the original message. An
// error from fn rolls back and collapses to a generic Result carrying
// internalMessage, with the cause logged.
func RunInTransaction(ctx context.Context, s store.Store, internalMessage string, fn func(tx store.Tx) (Result, error)) Result {
	l := slogx.FromContext(ctx)

	tx, err := s.Tx(ctx)
	if err != nil {
		l.Error("failed to begin transaction", slog.Any("error", err))
		return Result{Success: false, Message: internalMessage}
	}

	// Rollback is safe to call even after commit.
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := fn(tx)
	if err != nil {
		l.Error("transactional operation failed", slog.Any("error", err))
		return Result{Success: false, Message: internalMessage}
	}

	if !result.Success {
		return result // rollback happens in defer
	}

	if err := tx.Commit(); err != nil {
		l.Error("failed to commit transaction", slog.Any("error", err))
		return Result{Success: false, Message: internalMessage}
	}

	return result
}
