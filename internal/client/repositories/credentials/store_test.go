package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/repositories/metadata"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var alice = models.LocalUser{ID: "u1", Email: "alice@example.com", DisplayName: "alice"}

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok-1", alice))

	creds, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Empty(t, cmp.Diff(alice, creds.User))

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"alice@example.com","displayName":"alice"}`, string(raw))
}

func TestLoad_Empty(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))

	_, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_PartialRecordIsRemoved(t *testing.T) {
	tests := []struct {
		name string
		seed map[string][]byte
	}{
		{name: "token only", seed: map[string][]byte{TokenKey: []byte("tok")}},
		{name: "user only", seed: map[string][]byte{UserKey: []byte(`{"id":"u1"}`)}},
		{name: "corrupt user", seed: map[string][]byte{TokenKey: []byte("tok"), UserKey: []byte(`{nope`)}},
		{name: "user without id", seed: map[string][]byte{TokenKey: []byte("tok"), UserKey: []byte(`{"email":"a@b.com"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			ctx := context.Background()
			repo := metadata.NewSQLiteRepository(db)
			for k, v := range tt.seed {
				require.NoError(t, repo.Set(ctx, k, v))
			}
			require.NoError(t, repo.Set(ctx, "unrelated", []byte("keep")))

			_, ok, err := NewSQLiteStore(db).Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			left, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"unrelated": []byte("keep")}, left)
		})
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", alice))
	bob := models.LocalUser{ID: "u2", Email: "bob@example.com", DisplayName: "bob"}
	require.NoError(t, s.Save(ctx, "new", bob))

	creds, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", creds.Token)
	assert.Equal(t, "u2", creds.User.ID)
}

func TestSave_RejectsEmptyToken(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	require.Error(t, s.Save(context.Background(), "", alice))

	_, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear_Idempotent(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", alice))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosedDB_Errors(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, "tok", alice))
	_, _, err := s.Load(ctx)
	assert.Error(t, err)
	assert.Error(t, s.Clear(ctx))
}
