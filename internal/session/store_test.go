package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	sess := &Session{ID: "s-1", Name: "Ana", Email: "ana@x.com", Token: "tok", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	sess.Token = "tok-2"
	require.NoError(t, s.Save(ctx, sess))
	got, err = s.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.Token)

	require.NoError(t, s.Delete(ctx, "s-1"))
	_, err = s.Get(ctx, "s-1")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, s.Delete(ctx, "s-1"), "deleting twice is fine")
}

func TestStore_Purge(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, exp := range []time.Duration{-time.Hour, 0, time.Hour} {
		require.NoError(t, s.Save(ctx, &Session{
			ID: []string{"old", "edge", "live"}[i], Email: "a@b.com",
			CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(exp),
		}))
	}

	ids, err := s.Purge(ctx, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "edge"}, ids)

	_, err = s.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	s := openMemory(t)
	assert.NoError(t, s.Migrate())
}

func TestStore_Errors(t *testing.T) {
	boom := errors.New("disk I/O error")

	tests := []struct {
		name   string
		setup  func(mock sqlmock.Sqlmock)
		run    func(s *Store) error
		target error
	}{
		{
			name: "save fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO sessions")).WillReturnError(boom)
			},
			run:    func(s *Store) error { return s.Save(context.Background(), &Session{ID: "x"}) },
			target: boom,
		},
		{
			name: "get fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, name, email").WithArgs("x").WillReturnError(boom)
			},
			run: func(s *Store) error {
				_, err := s.Get(context.Background(), "x")
				return err
			},
			target: boom,
		},
		{
			name: "get unknown",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, name, email").WithArgs("x").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "access_token", "created_at", "expires_at"}))
			},
			run: func(s *Store) error {
				_, err := s.Get(context.Background(), "x")
				return err
			},
			target: ErrNoSession,
		},
		{
			name: "delete fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM sessions WHERE id").WithArgs("x").WillReturnError(boom)
			},
			run:    func(s *Store) error { return s.Delete(context.Background(), "x") },
			target: boom,
		},
		{
			name: "purge fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("DELETE FROM sessions WHERE expires_at").WillReturnError(boom)
			},
			run: func(s *Store) error {
				_, err := s.Purge(context.Background(), time.Now())
				return err
			},
			target: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)
			err = tt.run(NewStore(db))
			assert.ErrorIs(t, err, tt.target)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_PurgeReturnsIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Unix(1_800_000_000, 0)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at <= ? RETURNING id")).
		WithArgs(now.Unix()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a").AddRow("b").AddRow("c"))

	ids, err := NewStore(db).Purge(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
