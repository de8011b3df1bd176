package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func newSQLKVMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, driver), mock, func() { db.Close() }
}

func TestSQLKVMigrate(t *testing.T) {
	db, mock, cleanup := newSQLKVMock(t, "postgres")
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_store")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewSQLKV(db, nil).Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLKVGetAndMissing(t *testing.T) {
	db, mock, cleanup := newSQLKVMock(t, "postgres")
	defer cleanup()

	observer := &recordingObserver{}
	repo := NewSQLKV(db, observer)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM kv_store WHERE store_key = $1")).
		WithArgs(StudentsKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`[]`))
	got, err := repo.Get(context.Background(), StudentsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM kv_store")).
		WithArgs(RecordsKey).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), RecordsKey)
	assert.ErrorIs(t, err, appErrors.ErrKeyNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"kv_get", "kv_get"}, observer.labels)
}

func TestSQLKVSetUsesDialectUpsert(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		db, mock, cleanup := newSQLKVMock(t, "postgres")
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (store_key) DO UPDATE")).
			WithArgs(SessionKey, `{"id":"1"}`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		require.NoError(t, NewSQLKV(db, nil).Set(context.Background(), SessionKey, []byte(`{"id":"1"}`)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mysql", func(t *testing.T) {
		db, mock, cleanup := newSQLKVMock(t, "mysql")
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
			WithArgs(SessionKey, `{"id":"1"}`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		require.NoError(t, NewSQLKV(db, nil).Set(context.Background(), SessionKey, []byte(`{"id":"1"}`)))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLKVDelete(t *testing.T) {
	db, mock, cleanup := newSQLKVMock(t, "sqlite3")
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE store_key = ?")).
		WithArgs(SessionKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewSQLKV(db, nil).Delete(context.Background(), SessionKey))
	require.NoError(t, mock.ExpectationsWereMet())
}
