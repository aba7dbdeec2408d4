package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
)

type tokensRepo struct {
	q dbtx
}

const tokenColumns = `id, value, token_type, revoked, expired, user_id, created_at`

func (r *tokensRepo) FindValidByUser(ctx context.Context, userID string) ([]domain.Token, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens
		 WHERE user_id = ? AND revoked = 0 AND expired = 0
		 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectTokens(rows)
}

func (r *tokensRepo) FindAllByUser(ctx context.Context, userID string) ([]domain.Token, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectTokens(rows)
}

func (r *tokensRepo) FindByValue(ctx context.Context, value string) (domain.Token, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE value = ?`, value)
	return scanToken(row)
}

func (r *tokensRepo) Save(ctx context.Context, t domain.Token) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tokens (id, value, token_type, revoked, expired, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			value = excluded.value,
			token_type = excluded.token_type,
			revoked = excluded.revoked,
			expired = excluded.expired`,
		t.ID, t.Value, string(t.Type), t.Revoked, t.Expired, t.UserID, t.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *tokensRepo) SaveAll(ctx context.Context, ts []domain.Token) error {
	for _, t := range ts {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *tokensRepo) DeleteAll(ctx context.Context, ts []domain.Token) error {
	if len(ts) == 0 {
		return nil
	}

	placeholders := make([]string, len(ts))
	args := make([]any, len(ts))
	for i, t := range ts {
		placeholders[i] = "?"
		args[i] = t.ID
	}

	_, err := r.q.ExecContext(ctx,
		`DELETE FROM tokens WHERE id IN (`+strings.Join(placeholders, ", ")+`)`, args...)
	return err
}

func (r *tokensRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID)
	return err
}

func collectTokens(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}) ([]domain.Token, error) {
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func scanToken(row rowScanner) (domain.Token, error) {
	var t domain.Token
	var tokenType string
	var createdAt time.Time

	err := row.Scan(&t.ID, &t.Value, &tokenType, &t.Revoked, &t.Expired, &t.UserID, &createdAt)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}

	t.Type = domain.TokenType(tokenType)
	t.CreatedAt = createdAt
	return t, nil
}
