package sqlite

import (
	"context"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
)

type resetTokensRepo struct {
	q dbtx
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt.UTC(), t.Used, t.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetActiveResetToken(ctx context.Context, tokenHash string) (domain.ResetToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		tokenHash, time.Now().UTC())

	var t domain.ResetToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) MarkResetTokenUsed(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at <= ? OR used = 1`,
		time.Now().UTC())
	return err
}
