// Package borrowing drives the loan state machine:
//
//	ACTIVE --Return--> RETURNED (terminal)
//	ACTIVE --SweepOverdue--> OVERDUE --Return--> RETURNED
//
// Borrow and Return pair the ledger write with the availability counter
// change in one transaction through the catalog choke point.
package borrowing

import (
	"context"
	"errors"
	"time"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/storage"
)

// Catalog is the slice of the catalog service the ledger needs.
type Catalog interface {
	AdjustAvailability(ctx context.Context, tx storage.Tx, itemID, delta int64) error
}

type Service interface {
	Borrow(ctx context.Context, userID, itemID int64, loanPeriodDays int) (*model.Borrowing, error)
	Return(ctx context.Context, borrowingID int64) (*model.Borrowing, error)
	SweepOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error)
	History(ctx context.Context, userID int64) ([]model.Borrowing, error)
}

type service struct {
	store           storage.Store
	catalog         Catalog
	defaultLoanDays int
	now             func() time.Time
}

func New(store storage.Store, catalog Catalog, defaultLoanDays int) Service {
	if defaultLoanDays <= 0 {
		defaultLoanDays = 14
	}
	return &service{
		store:           store,
		catalog:         catalog,
		defaultLoanDays: defaultLoanDays,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Borrow(ctx context.Context, userID, itemID int64, loanPeriodDays int) (_ *model.Borrowing, err error) {
	if userID <= 0 || itemID <= 0 {
		return nil, apperr.Validation("user and item ids are required")
	}
	days := loanPeriodDays
	if days <= 0 {
		days = s.defaultLoanDays
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ItemForUpdate(ctx, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	open, err := tx.HasOpenBorrowing(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperr.Conflict("user already borrowed this item")
	}
	if err = s.catalog.AdjustAvailability(ctx, tx, itemID, -1); err != nil {
		return nil, err
	}

	now := s.now()
	b := &model.Borrowing{
		UserID:     userID,
		ItemID:     itemID,
		Status:     model.BorrowingActive,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, days),
	}
	if err = tx.InsertBorrowing(ctx, b); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("user already borrowed this item")
		}
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Return(ctx context.Context, borrowingID int64) (_ *model.Borrowing, err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	b, err := tx.BorrowingForUpdate(ctx, borrowingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("borrowing not found")
		}
		return nil, err
	}
	if b.Status == model.BorrowingReturned {
		return nil, apperr.Conflict("borrowing already returned")
	}

	now := s.now()
	if err = tx.MarkReturned(ctx, borrowingID, now); err != nil {
		return nil, err
	}
	if err = s.catalog.AdjustAvailability(ctx, tx, b.ItemID, +1); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	b.Status = model.BorrowingReturned
	b.ReturnDate = &now
	return b, nil
}

// SweepOverdue reclassifies every ACTIVE borrowing past due. Pure status
// change: the copy is still out, so no counter moves. Safe to rerun.
func (s *service) SweepOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	if now.IsZero() {
		now = s.now()
	}
	return s.store.MarkOverdue(ctx, now)
}

func (s *service) History(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	return s.store.ListBorrowingsByUser(ctx, userID)
}
