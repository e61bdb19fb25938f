// Package credentials persists the session's bearer token and user record
// as a pair. Both keys are written or removed in a single transaction so a
// half-written record never survives a crash.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tiernerd/internal/dbx"
)

const (
	TokenKey = "authToken"
	UserKey  = "userData"
)

// Credentials is what survives a restart.
type Credentials struct {
	Token string
	User  models.LocalUser
}

type Store interface {
	Save(ctx context.Context, token string, user models.LocalUser) error
	// Load reports ok=false when nothing usable is stored.
	Load(ctx context.Context) (Credentials, bool, error)
	Clear(ctx context.Context) error
}

// DB is what the SQLite store needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

type SQLiteStore struct {
	db DB
}

func NewSQLiteStore(db DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Save(ctx context.Context, token string, user models.LocalUser) error {
	if token == "" {
		return fmt.Errorf("save credentials: empty token")
	}
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("save credentials: encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		if err := repo.Set(ctx, UserKey, userData); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (Credentials, bool, error) {
	var (
		creds   Credentials
		found   bool
		partial bool
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		token, err := repo.Get(ctx, TokenKey)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		userData, err := repo.Get(ctx, UserKey)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}

		switch {
		case len(token) == 0 && len(userData) == 0:
			return nil
		case len(token) == 0 || len(userData) == 0:
			partial = true
		default:
			if err := json.Unmarshal(userData, &creds.User); err != nil || creds.User.ID == "" {
				partial = true
				break
			}
			creds.Token = string(token)
			found = true
			return nil
		}

		// Half a record is as good as none; drop what is left.
		return repo.Delete(ctx, TokenKey, UserKey)
	})
	if err != nil {
		return Credentials{}, false, err
	}
	if !found || partial {
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadata.NewSQLiteRepository(tx).Delete(ctx, TokenKey, UserKey); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		return nil
	})
}
