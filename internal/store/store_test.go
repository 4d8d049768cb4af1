package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestOpenDisabledWithoutURL(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestUpsertNewGrant(t *testing.T) {
	s, mock := newMockStore(t)
	expires := time.Now().Add(30 * 24 * time.Hour)

	mock.ExpectExec("INSERT INTO access_grants").
		WithArgs("key-1", 100, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Upsert(context.Background(), "key-1", 100, expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeSpendsOneUnit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE access_grants").
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Consume(context.Background(), "key-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeExhausted(t *testing.T) {
	s, mock := newMockStore(t)

	// No rows match when the grant is spent or expired.
	mock.ExpectExec("UPDATE access_grants").
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Consume(context.Background(), "key-1")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestLookupFound(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"api_key", "remaining", "total", "expires_at", "updated_at"}).
		AddRow("key-1", 42, 100, now.Add(time.Hour), now)
	mock.ExpectQuery("SELECT api_key, remaining, total").
		WithArgs("key-1").
		WillReturnRows(rows)

	g, err := s.Lookup(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 42, g.Remaining)
	assert.Equal(t, 100, g.Total)
}

func TestLookupMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT api_key, remaining, total").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"api_key", "remaining", "total", "expires_at", "updated_at"}))

	g, err := s.Lookup(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestSweepRemovesExpired(t *testing.T) {
	s, mock := newMockStore(t)
	cutoff := time.Now()

	mock.ExpectExec("DELETE FROM access_grants").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Sweep(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
