// Package postgres implements storage.Store over database/sql with the pgx
// driver. Invariants are enforced in the services; the schema's CHECK and
// UNIQUE constraints are backstops whose violations surface as
// storage.ErrDuplicate.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"librarydesk/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store { return &Store{db: db} }

var _ storage.Store = (*Store)(nil)

func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx   *sql.Tx
	done bool
}

var _ storage.Tx = (*pgTx)(nil)

func (t *pgTx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

// mapErr normalizes driver errors into the storage sentinel errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return storage.ErrDuplicate
	}
	return err
}
