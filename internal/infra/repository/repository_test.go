//go:build unit

package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"park-and-ride/internal/domain/user"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Rows), mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

// errRow is a pgx.Row whose Scan always fails with err.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// recordRow fills an idempotency record scan.
type recordRow struct{ rec usecase.IdempotencyRecord }

func (r recordRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.rec.Key
	*dest[1].(*string) = r.rec.RequestHash
	*dest[2].(*string) = r.rec.Status
	*dest[3].(*[]byte) = r.rec.Response
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserRepository_Create(t *testing.T) {
	email, err := user.NewEmail("driver@example.com")
	require.NoError(t, err)
	u := user.NewUser(email, "hash", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		execErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "success"},
		{name: "duplicate email", execErr: &pgconn.PgError{Code: "23505"}, wantKind: infra.KindDuplicateKey},
		{name: "connection failure", execErr: errors.New("connection refused"), wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbtx := new(MockDBTX)
			dbtx.On("Exec", mock.Anything, insertUserSQL, mock.Anything).
				Return(pgconn.NewCommandTag("INSERT 0 1"), tt.execErr).Once()

			err := NewUserRepository(dbtx, discardLogger()).Create(context.Background(), u)

			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			}
			dbtx.AssertExpectations(t)
		})
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	email, err := user.NewEmail("ghost@example.com")
	require.NoError(t, err)

	dbtx := new(MockDBTX)
	dbtx.On("QueryRow", mock.Anything, findUserByEmailSQL, []any{"ghost@example.com"}).
		Return(errRow{err: pgx.ErrNoRows}).Once()

	_, err = NewUserRepository(dbtx, discardLogger()).FindByEmail(context.Background(), email)

	assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	dbtx.AssertExpectations(t)
}

func TestIdempotencyRepository(t *testing.T) {
	ctx := context.Background()
	ttl := 90 * time.Second

	t.Run("TryInsert reports whether the key was free", func(t *testing.T) {
		for tag, want := range map[string]bool{"INSERT 0 1": true, "INSERT 0 0": false} {
			dbtx := new(MockDBTX)
			dbtx.On("Exec", mock.Anything, tryInsertIdempotencySQL,
				[]any{"key-1", "hash", usecase.IdempotencyStatusProcessing, 90.0}).
				Return(pgconn.NewCommandTag(tag), nil).Once()

			ok, err := NewIdempotencyRepository(dbtx, discardLogger()).TryInsert(ctx, "key-1", "hash", ttl)

			require.NoError(t, err)
			assert.Equal(t, want, ok, tag)
			dbtx.AssertExpectations(t)
		}
	})

	t.Run("Get returns the live record", func(t *testing.T) {
		want := usecase.IdempotencyRecord{
			Key:         "key-1",
			RequestHash: "hash",
			Status:      usecase.IdempotencyStatusCompleted,
			Response:    []byte(`{"slot":{"row":0,"col":0}}`),
		}
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencySQL, []any{"key-1"}).
			Return(recordRow{rec: want}).Once()

		got, err := NewIdempotencyRepository(dbtx, discardLogger()).Get(ctx, "key-1")

		require.NoError(t, err)
		assert.Equal(t, want, *got)
	})

	t.Run("Get maps missing rows to not found", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencySQL, []any{"gone"}).
			Return(errRow{err: pgx.ErrNoRows}).Once()

		_, err := NewIdempotencyRepository(dbtx, discardLogger()).Get(ctx, "gone")

		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	t.Run("Complete on an expired key is not found", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("Exec", mock.Anything, completeIdempotencySQL, mock.Anything).
			Return(pgconn.NewCommandTag("UPDATE 0"), nil).Once()

		err := NewIdempotencyRepository(dbtx, discardLogger()).Complete(ctx, "gone", []byte("{}"), ttl)

		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	t.Run("DeleteExpired returns the number of rows removed", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("Exec", mock.Anything, deleteExpiredIdempotencySQL, []any(nil)).
			Return(pgconn.NewCommandTag("DELETE 3"), nil).Once()

		n, err := NewIdempotencyRepository(dbtx, discardLogger()).DeleteExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
