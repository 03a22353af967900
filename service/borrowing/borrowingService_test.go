package borrowing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/service/borrowing"
	"librarydesk/service/catalog"
	"librarydesk/storage/memory"
)

type fixture struct {
	store   *memory.Store
	catalog catalog.Service
	ledger  borrowing.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	cs := catalog.New(st)
	return &fixture{store: st, catalog: cs, ledger: borrowing.New(st, cs, 14)}
}

func (f *fixture) item(t *testing.T, copies int64) *model.Item {
	t.Helper()
	it, err := f.catalog.Create(context.Background(), catalog.CreateItemReq{
		Title: "The Go Programming Language", Author: "Donovan & Kernighan",
		ISBN: "978-0134190440", TotalCopies: copies,
	})
	require.NoError(t, err)
	return it
}

func TestBorrowReturn_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 2)

	b, err := f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.NoError(t, err)
	require.Equal(t, model.BorrowingActive, b.Status)
	require.Nil(t, b.ReturnDate)
	require.Equal(t, b.BorrowDate.AddDate(0, 0, 14), b.DueDate)

	got, err := f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AvailableCopies)

	ret, err := f.ledger.Return(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowingReturned, ret.Status)
	require.NotNil(t, ret.ReturnDate)

	got, err = f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.AvailableCopies)
}

func TestBorrow_LoanPeriodOverride(t *testing.T) {
	f := setup(t)
	it := f.item(t, 1)

	b, err := f.ledger.Borrow(context.Background(), 1, it.ID, 7)
	require.NoError(t, err)
	require.Equal(t, b.BorrowDate.AddDate(0, 0, 7), b.DueDate)
}

func TestBorrow_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 1)

	_, err := f.ledger.Borrow(ctx, 1, 999, 0)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	_, err = f.ledger.Borrow(ctx, 0, it.ID, 0)
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))

	_, err = f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.NoError(t, err)

	// Same user, same item: duplicate loan.
	_, err = f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	// Different user, no copies left.
	_, err = f.ledger.Borrow(ctx, 2, it.ID, 0)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))
}

func TestBorrow_ExhaustAndRecover(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 3)

	var loans []*model.Borrowing
	for user := int64(1); user <= 3; user++ {
		b, err := f.ledger.Borrow(ctx, user, it.ID, 0)
		require.NoError(t, err)
		loans = append(loans, b)
	}

	got, err := f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.AvailableCopies)

	_, err = f.ledger.Borrow(ctx, 4, it.ID, 0)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))

	_, err = f.ledger.Return(ctx, loans[0].ID)
	require.NoError(t, err)

	got, err = f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AvailableCopies)
}

func TestReturn_Idempotency(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 1)

	b, err := f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.NoError(t, err)

	_, err = f.ledger.Return(ctx, b.ID)
	require.NoError(t, err)

	// Second return is rejected and does not re-increment.
	_, err = f.ledger.Return(ctx, b.ID)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	got, err := f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AvailableCopies)

	_, err = f.ledger.Return(ctx, 999)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestBorrow_ConcurrentLastCopy(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.Borrow(ctx, int64(i+1), it.ID, 0)
		}(i)
	}
	wg.Wait()

	var okCount, capacityCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case apperr.Code(err) == apperr.ErrCapacity:
			capacityCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, okCount)
	require.Equal(t, 1, capacityCount)

	got, err := f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.AvailableCopies)
}

func TestSweepOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 2)

	b, err := f.ledger.Borrow(ctx, 1, it.ID, 14)
	require.NoError(t, err)

	// Before the due date nothing moves.
	flipped, err := f.ledger.SweepOverdue(ctx, b.DueDate.Add(-time.Hour))
	require.NoError(t, err)
	require.Empty(t, flipped)

	// A day late: reclassified, counters untouched.
	flipped, err = f.ledger.SweepOverdue(ctx, b.DueDate.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, flipped, 1)
	require.Equal(t, model.BorrowingOverdue, flipped[0].Status)

	got, err := f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AvailableCopies)

	// Rerunning is a no-op.
	flipped, err = f.ledger.SweepOverdue(ctx, b.DueDate.Add(48*time.Hour))
	require.NoError(t, err)
	require.Empty(t, flipped)

	// An overdue loan can still be returned.
	ret, err := f.ledger.Return(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowingReturned, ret.Status)
	require.NotNil(t, ret.ReturnDate)

	got, err = f.catalog.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.AvailableCopies)
}

func TestHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	it := f.item(t, 2)

	b, err := f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.NoError(t, err)
	_, err = f.ledger.Return(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.ledger.Borrow(ctx, 1, it.ID, 0)
	require.NoError(t, err)

	rows, err := f.ledger.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = f.ledger.History(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, rows)
}
