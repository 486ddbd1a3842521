package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The résumé snapshot is stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, job_id, status, submission_date, updated_at, attempts, seq, resume_snapshot, job_title, job_company`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var a Application
	var status string
	var snapshot []byte
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.JobID,
		&status,
		&a.SubmissionDate,
		&a.UpdatedAt,
		&a.Attempts,
		&a.Seq,
		&snapshot,
		&a.Job.Title,
		&a.Job.Company,
	)
	if err != nil {
		return Application{}, err
	}
	a.Status = Status(status)
	if err := json.Unmarshal(snapshot, &a.ResumeSnapshot); err != nil {
		return Application{}, fmt.Errorf("decode resume snapshot: %w", err)
	}
	return a, nil
}

func (r *PGRepo) Insert(ctx context.Context, a Application) (Application, error) {
	const query = `
INSERT INTO applications (
    id,
    user_id,
    job_id,
    status,
    submission_date,
    updated_at,
    attempts,
    resume_snapshot,
    job_title,
    job_company
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING seq`

	snapshot, err := json.Marshal(a.ResumeSnapshot)
	if err != nil {
		return Application{}, fmt.Errorf("encode resume snapshot: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, query,
		a.ID,
		a.UserID,
		a.JobID,
		string(a.Status),
		a.SubmissionDate,
		a.UpdatedAt,
		a.Attempts,
		string(snapshot),
		a.Job.Title,
		a.Job.Company,
	).Scan(&a.Seq)
	if err != nil {
		return Application{}, err
	}
	return a, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	query := `SELECT ` + selectColumns + `
FROM applications
WHERE user_id = $1
ORDER BY seq ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Application, error) {
	query := `SELECT ` + selectColumns + `
FROM applications
WHERE user_id = $1 AND id = $2`
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return a, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, u StatusUpdate) error {
	const query = `
UPDATE applications
SET status = $1, attempts = $2, updated_at = $3
WHERE user_id = $4 AND id = $5 AND status = $6`
	res, err := r.DB.ExecContext(ctx, query,
		string(u.To),
		u.Attempts,
		u.UpdatedAt,
		u.UserID,
		u.ID,
		string(u.From),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1 AND id = $2)`
	if err := r.DB.QueryRowContext(ctx, existsQuery, u.UserID, u.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusChanged
}

var _ Repo = (*PGRepo)(nil)
