package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The user_id column is unique.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the user's active résumé.
func (r *PGRepo) Get(ctx context.Context, userID string) (Resume, error) {
	const query = `
SELECT id, user_id, file_name, file_ref, file_type, content_type, size_bytes, keywords, upload_date
FROM resumes
WHERE user_id = $1
LIMIT 1`
	var res Resume
	var fileType string
	var keywords []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&res.ID,
		&res.UserID,
		&res.FileName,
		&res.FileRef,
		&fileType,
		&res.ContentType,
		&res.SizeBytes,
		&keywords,
		&res.UploadDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.FileType = FileType(fileType)
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &res.Keywords); err != nil {
			return Resume{}, fmt.Errorf("decode keywords: %w", err)
		}
	}
	return res, nil
}

// Insert upserts the user's row so the last writer wins.
func (r *PGRepo) Insert(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    file_name,
    file_ref,
    file_type,
    content_type,
    size_bytes,
    keywords,
    upload_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id) DO UPDATE SET
    id = EXCLUDED.id,
    file_name = EXCLUDED.file_name,
    file_ref = EXCLUDED.file_ref,
    file_type = EXCLUDED.file_type,
    content_type = EXCLUDED.content_type,
    size_bytes = EXCLUDED.size_bytes,
    keywords = EXCLUDED.keywords,
    upload_date = EXCLUDED.upload_date`

	keywords := res.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.UserID,
		res.FileName,
		res.FileRef,
		string(res.FileType),
		res.ContentType,
		res.SizeBytes,
		string(raw),
		res.UploadDate,
	)
	return err
}

// Delete removes the user's row.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM resumes WHERE user_id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

var _ Repo = (*PGRepo)(nil)
