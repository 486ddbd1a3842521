package tailored

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. application_id is unique.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, application_id, job_id, resume_id, file_name, file_ref, size_bytes, matched_skills, missing_skills, source, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTailored(row rowScanner) (TailoredResume, error) {
	var t TailoredResume
	var source string
	var matched, missing []byte
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ApplicationID,
		&t.JobID,
		&t.ResumeID,
		&t.FileName,
		&t.FileRef,
		&t.SizeBytes,
		&matched,
		&missing,
		&source,
		&t.CreatedAt,
	); err != nil {
		return TailoredResume{}, err
	}
	t.Source = Source(source)
	if err := decodeSkills(matched, &t.MatchedSkills); err != nil {
		return TailoredResume{}, err
	}
	if err := decodeSkills(missing, &t.MissingSkills); err != nil {
		return TailoredResume{}, err
	}
	return t, nil
}

func decodeSkills(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode skills: %w", err)
	}
	return nil
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(raw), nil
}

// Upsert inserts t or replaces the row of the same application.
func (r *PGRepo) Upsert(ctx context.Context, t TailoredResume) error {
	const query = `
INSERT INTO tailored_resumes (
    id, user_id, application_id, job_id, resume_id, file_name, file_ref, size_bytes, matched_skills, missing_skills, source, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (application_id) DO UPDATE SET
    id = EXCLUDED.id,
    file_name = EXCLUDED.file_name,
    file_ref = EXCLUDED.file_ref,
    size_bytes = EXCLUDED.size_bytes,
    matched_skills = EXCLUDED.matched_skills,
    missing_skills = EXCLUDED.missing_skills,
    source = EXCLUDED.source,
    created_at = EXCLUDED.created_at`

	matched, err := encodeSkills(t.MatchedSkills)
	if err != nil {
		return err
	}
	missing, err := encodeSkills(t.MissingSkills)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.ApplicationID,
		t.JobID,
		t.ResumeID,
		t.FileName,
		t.FileRef,
		t.SizeBytes,
		matched,
		missing,
		string(t.Source),
		t.CreatedAt,
	)
	return err
}

// GetByApplication returns the user's tailored résumé for one application.
func (r *PGRepo) GetByApplication(ctx context.Context, userID, applicationID string) (TailoredResume, error) {
	query := `SELECT ` + selectColumns + `
FROM tailored_resumes
WHERE user_id = $1 AND application_id = $2
LIMIT 1`
	t, err := scanTailored(r.DB.QueryRowContext(ctx, query, userID, applicationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TailoredResume{}, ErrNotFound
		}
		return TailoredResume{}, err
	}
	return t, nil
}

// ListByUser lists the user's tailored résumés newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]TailoredResume, error) {
	query := `SELECT ` + selectColumns + `
FROM tailored_resumes
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TailoredResume{}
	for rows.Next() {
		t, err := scanTailored(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
