package postgres

import (
	"context"

	"librarydesk/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
		INSERT INTO users (first_name, last_name, email, username, role, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, q,
		u.FirstName, u.LastName, u.Email, u.Username, u.Role, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	return mapErr(err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT id, first_name, last_name, email, username, role, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1)`
	u := &model.User{}
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	const q = `
		SELECT id, first_name, last_name, email, username, role, password_hash, created_at
		FROM users
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.Role, &u.PasswordHash, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
