// Package storage defines the persistence contract shared by the catalog,
// shelf, and borrowing services. A Tx brackets every multi-step mutation:
// services lock the rows they touch, apply guarded writes, then commit, so an
// operation either lands whole or not at all.
package storage

import (
	"context"
	"errors"
	"time"

	"librarydesk/model"
)

var (
	// ErrNotFound: the referenced row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate: a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Tx is a transaction handle. Reads marked ForUpdate lock the row until
// Commit or Rollback. Rollback after Commit must be a no-op so callers can
// defer it unconditionally.
type Tx interface {
	// Catalog rows.
	ItemForUpdate(ctx context.Context, id int64) (*model.Item, error)
	// AdjustAvailability applies available_copies += delta, guarded so the
	// result stays within [0, total_copies]. Returns false when the guard
	// rejects the write.
	AdjustAvailability(ctx context.Context, id, delta int64) (bool, error)
	DeleteItem(ctx context.Context, id int64) error

	// Shelf rows and placement fields.
	ShelfForUpdate(ctx context.Context, id int64) (*model.Shelf, error)
	Occupancy(ctx context.Context, shelfID int64) (int64, error)
	PositionTaken(ctx context.Context, shelfID, position int64) (bool, error)
	SetPlacement(ctx context.Context, itemID, shelfID, position int64) error
	ClearPlacement(ctx context.Context, itemID int64) error
	TouchShelf(ctx context.Context, shelfID int64, at time.Time) error

	// Borrowing rows.
	HasOpenBorrowing(ctx context.Context, userID, itemID int64) (bool, error)
	HasOpenBorrowingForItem(ctx context.Context, itemID int64) (bool, error)
	InsertBorrowing(ctx context.Context, b *model.Borrowing) error
	BorrowingForUpdate(ctx context.Context, id int64) (*model.Borrowing, error)
	MarkReturned(ctx context.Context, id int64, at time.Time) error

	Commit() error
	Rollback() error
}

// Store is the durable backend. Single-row operations that need no
// cross-entity coordination run outside a Tx.
type Store interface {
	Begin(ctx context.Context) (Tx, error)

	InsertItem(ctx context.Context, it *model.Item) error
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)

	InsertShelf(ctx context.Context, s *model.Shelf) error
	GetShelf(ctx context.Context, id int64) (*model.Shelf, error)
	ListShelves(ctx context.Context) ([]model.Shelf, error)
	ShelfOccupancy(ctx context.Context, shelfID int64) (int64, error)

	GetBorrowing(ctx context.Context, id int64) (*model.Borrowing, error)
	ListBorrowingsByUser(ctx context.Context, userID int64) ([]model.Borrowing, error)
	// MarkOverdue flips every ACTIVE borrowing with due_date before now to
	// OVERDUE and returns the rows it changed. Already-overdue rows are
	// untouched, so reruns return nothing.
	MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error)

	Stats(ctx context.Context) (*model.DashboardStats, error)

	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}
