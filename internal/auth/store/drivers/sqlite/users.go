package sqlite

import (
	"context"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, identification_number, badge_number, name, last_name, email,
	phone_number, cpf, password_hash, role, date_of_birth, date_of_joining,
	rank, department, status, access_level, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, identification_number, badge_number, name, last_name, email,
			phone_number, cpf, password_hash, role, date_of_birth, date_of_joining,
			rank, department, status, access_level, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.IdentificationNumber, u.BadgeNumber, u.Name, u.LastName, u.Email,
		u.PhoneNumber, u.CPF, u.PasswordHash, u.Role, u.DateOfBirth, u.DateOfJoining,
		string(u.Rank), string(u.Department), string(u.Status), string(u.AccessLevel),
		now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET
			name = ?, last_name = ?, email = ?, phone_number = ?, cpf = ?,
			date_of_birth = ?, date_of_joining = ?, rank = ?, department = ?,
			status = ?, access_level = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.LastName, u.Email, u.PhoneNumber, u.CPF,
		u.DateOfBirth, u.DateOfJoining, string(u.Rank), string(u.Department),
		string(u.Status), string(u.AccessLevel), u.Role, time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) EmailInUse(ctx context.Context, email, excludingUserID string) (bool, error) {
	return r.fieldInUse(ctx, "email", email, excludingUserID)
}

func (r *usersRepo) PhoneInUse(ctx context.Context, phone, excludingUserID string) (bool, error) {
	return r.fieldInUse(ctx, "phone_number", phone, excludingUserID)
}

func (r *usersRepo) CPFInUse(ctx context.Context, cpf, excludingUserID string) (bool, error) {
	return r.fieldInUse(ctx, "cpf", cpf, excludingUserID)
}

func (r *usersRepo) fieldInUse(ctx context.Context, column, value, excludingUserID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+column+` = ? AND id != ?`,
		value, excludingUserID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) IdentifierInUse(ctx context.Context, identifier string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE identification_number = ? OR badge_number = ?`,
		identifier, identifier).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var rank, department, status, accessLevel string

	err := row.Scan(
		&u.ID, &u.IdentificationNumber, &u.BadgeNumber, &u.Name, &u.LastName, &u.Email,
		&u.PhoneNumber, &u.CPF, &u.PasswordHash, &u.Role, &u.DateOfBirth, &u.DateOfJoining,
		&rank, &department, &status, &accessLevel, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Rank = domain.Rank(rank)
	u.Department = domain.Department(department)
	u.Status = domain.OfficerStatus(status)
	u.AccessLevel = domain.AccessLevel(accessLevel)
	return u, nil
}
