package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txRecorder counts commits and rollbacks observed by the fake driver and
// lets tests inject failures at the begin and commit steps.
type txRecorder struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
	beginErr  error
	commitErr error
}

func (r *txRecorder) counts() (commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits, r.rollbacks
}

type fakeConnector struct{ rec *txRecorder }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{rec: c.rec}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open not supported")
}

type fakeConn struct{ rec *txRecorder }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	if c.rec.beginErr != nil {
		return nil, c.rec.beginErr
	}
	return &fakeTx{rec: c.rec}, nil
}

type fakeTx struct{ rec *txRecorder }

func (t *fakeTx) Commit() error {
	if t.rec.commitErr != nil {
		return t.rec.commitErr
	}
	t.rec.mu.Lock()
	t.rec.commits++
	t.rec.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rec.mu.Lock()
	t.rec.rollbacks++
	t.rec.mu.Unlock()
	return nil
}

func newFakeDB(rec *txRecorder) *sql.DB {
	return sql.OpenDB(&fakeConnector{rec: rec})
}

func TestRunInTransactionCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	rec := &txRecorder{}
	db := newFakeDB(rec)
	defer db.Close()

	called := false
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called, "transaction function should run")

	commits, rollbacks := rec.counts()
	assert.Equal(t, 1, commits)
	assert.Equal(t, 0, rollbacks)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()

	rec := &txRecorder{}
	db := newFakeDB(rec)
	defer db.Close()

	wantErr := errors.New("card write failed")
	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return wantErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr, "original error should be returned unwrapped")

	commits, rollbacks := rec.counts()
	assert.Equal(t, 0, commits)
	assert.Equal(t, 1, rollbacks)
}

func TestRunInTransactionBeginFailure(t *testing.T) {
	t.Parallel()

	rec := &txRecorder{beginErr: errors.New("connection refused")}
	db := newFakeDB(rec)
	defer db.Close()

	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("transaction function should not run when begin fails")
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionFailed)
}

func TestRunInTransactionCommitFailure(t *testing.T) {
	t.Parallel()

	rec := &txRecorder{commitErr: errors.New("commit lost")}
	db := newFakeDB(rec)
	defer db.Close()

	err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransactionFailed)
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	rec := &txRecorder{}
	db := newFakeDB(rec)
	defer db.Close()

	require.Panics(t, func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})

	commits, rollbacks := rec.counts()
	assert.Equal(t, 0, commits)
	assert.Equal(t, 1, rollbacks)
}
