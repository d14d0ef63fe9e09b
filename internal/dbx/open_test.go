package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func withSQLOpen(t *testing.T, fn func(driver, dsn string) (*sql.DB, error)) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = fn
	t.Cleanup(func() { sqlOpen = orig })
}

func TestOpen_PingsAndReturnsPool(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	var gotDriver, gotDSN string
	withSQLOpen(t, func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	})

	opts := PoolOptions{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Second}
	got, err := Open(context.Background(), "postgres://x", opts)
	require.NoError(t, err)
	require.Same(t, db, got)
	require.Equal(t, "pgx", gotDriver)
	require.Equal(t, "postgres://x", gotDSN)
	require.Equal(t, 3, got.Stats().MaxOpenConnections)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PingError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	withSQLOpen(t, func(string, string) (*sql.DB, error) { return db, nil })

	_, err = Open(context.Background(), "dsn", DefaultPoolOptions)
	require.ErrorContains(t, err, "db ping error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_OpenError(t *testing.T) {
	withSQLOpen(t, func(string, string) (*sql.DB, error) { return nil, errors.New("bad driver") })

	_, err := Open(context.Background(), "dsn", DefaultPoolOptions)
	require.ErrorContains(t, err, "db open error")
}
