package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/tiernerd/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestSetGet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "authToken", []byte("old")))
	require.NoError(t, r.Set(ctx, "authToken", []byte("new")))

	v, err := r.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestGet_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	require.NoError(t, r.Set(ctx, "e", []byte{}))
	v, err = r.Get(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, []byte{}, v)

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k": {}, "e": {}}, m)
}

func TestDelete_ManyKeysIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Set(ctx, "c", []byte{3}))

	require.NoError(t, r.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"c": {3}}, m)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestInsideTransaction_RollbackDiscards(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Set(ctx, "k", []byte("v")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := NewSQLiteRepository(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClosedDB_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, `get metadata "k"`)

	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), `set metadata "k"`)
	assert.ErrorContains(t, r.Delete(ctx, "k"), "delete metadata")
	assert.ErrorContains(t, r.Clear(ctx), "clear metadata")

	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "list metadata")
}
