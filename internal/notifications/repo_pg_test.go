package notifications

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepoInsertReturnsSeq(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs("n1", "u1", "hello", "info", false, created).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	repo := &PGRepo{DB: db}
	got, err := repo.Insert(context.Background(), Notification{ID: "n1", UserID: "u1", Message: "hello", Type: TypeInfo, Date: created})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t1 := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "message", "type", "read", "created_at", "seq"}).
		AddRow("n2", "u1", "newer", "success", false, t1, int64(2)).
		AddRow("n1", "u1", "older", "info", true, t0, int64(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, seq DESC")).
		WithArgs("u1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	items, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []Notification{
		{ID: "n2", UserID: "u1", Message: "newer", Type: TypeSuccess, Read: false, Date: t1, Seq: 2},
		{ID: "n1", UserID: "u1", Message: "older", Type: TypeInfo, Read: true, Date: t0, Seq: 1},
	}, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoMarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = true WHERE user_id = $1 AND id = $2")).
		WithArgs("u1", "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = true WHERE user_id = $1 AND id = $2")).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = true WHERE user_id = $1 AND read = false")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := &PGRepo{DB: db}
	require.NoError(t, repo.MarkRead(context.Background(), "u1", "n1"))
	assert.ErrorIs(t, repo.MarkRead(context.Background(), "u1", "missing"), ErrNotFound)
	require.NoError(t, repo.MarkAllRead(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
