package profiles

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (user_id, email, first_name, last_name, phone, location, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
  email = EXCLUDED.email,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  phone = EXCLUDED.phone,
  location = EXCLUDED.location,
  updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query,
		p.UserID,
		p.Email,
		nullableString(p.FirstName),
		nullableString(p.LastName),
		nullableString(p.Phone),
		nullableString(p.Location),
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, email, first_name, last_name, phone, location, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var p Profile
	var firstName, lastName, phone, location sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Email,
		&firstName,
		&lastName,
		&phone,
		&location,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.FirstName = firstName.String
	p.LastName = lastName.String
	p.Phone = phone.String
	p.Location = location.String
	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
