package notifications

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, n Notification) (Notification, error) {
	const query = `
INSERT INTO notifications (id, user_id, message, type, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING seq`
	err := r.DB.QueryRowContext(ctx, query,
		n.ID,
		n.UserID,
		n.Message,
		string(n.Type),
		n.Read,
		n.Date,
	).Scan(&n.Seq)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	const query = `
SELECT id, user_id, message, type, read, created_at, seq
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, seq DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &typ, &n.Read, &n.Date, &n.Seq); err != nil {
			return nil, err
		}
		n.Type = Type(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkRead(ctx context.Context, userID, id string) error {
	const query = `UPDATE notifications SET read = true WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) MarkAllRead(ctx context.Context, userID string) error {
	const query = `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

var _ Repo = (*PGRepo)(nil)
