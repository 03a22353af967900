package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/service/borrowing"
	"librarydesk/service/catalog"
	"librarydesk/storage/memory"
)

func newSvc(t *testing.T) (catalog.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return catalog.New(st), st
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)

	cases := []struct {
		name string
		req  catalog.CreateItemReq
	}{
		{"missing title", catalog.CreateItemReq{Author: "a", ISBN: "978-0132350884", TotalCopies: 1}},
		{"missing author and publisher", catalog.CreateItemReq{Title: "t", ISBN: "978-0132350884", TotalCopies: 1}},
		{"missing isbn", catalog.CreateItemReq{Title: "t", Author: "a", TotalCopies: 1}},
		{"malformed isbn", catalog.CreateItemReq{Title: "t", Author: "a", ISBN: "not-an-isbn", TotalCopies: 1}},
		{"zero copies", catalog.CreateItemReq{Title: "t", Author: "a", ISBN: "978-0132350884"}},
		{"bad kind", catalog.CreateItemReq{Kind: "CD", Title: "t", Author: "a", ISBN: "978-0132350884", TotalCopies: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, tc.req)
			require.Error(t, err)
			require.Equal(t, apperr.ErrValidation, apperr.Code(err))
		})
	}
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)

	it, err := s.Create(ctx, catalog.CreateItemReq{
		Title:       "Clean Code",
		Author:      "Robert C. Martin",
		ISBN:        "978-0132350884",
		TotalCopies: 3,
	})
	require.NoError(t, err)
	require.Equal(t, model.KindBook, it.Kind)
	require.Equal(t, int64(3), it.TotalCopies)
	require.Equal(t, int64(3), it.AvailableCopies)
	require.NotZero(t, it.ID)

	got, err := s.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, it.Title, got.Title)
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newSvc(t)
	_, err := s.Get(context.Background(), 99)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestAdjust_Bounds(t *testing.T) {
	ctx := context.Background()
	s, _ := newSvc(t)

	it, err := s.Create(ctx, catalog.CreateItemReq{
		Kind: model.KindJournal, Title: "Nature", Publisher: "Springer",
		ISBN: "0028-0836", TotalCopies: 2,
	})
	require.NoError(t, err)

	// Above total.
	_, err = s.Adjust(ctx, it.ID, +1)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))

	// Down to zero is fine, below zero is not.
	got, err := s.Adjust(ctx, it.ID, -2)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.AvailableCopies)

	_, err = s.Adjust(ctx, it.ID, -1)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))

	// Failed adjustments left the counter alone.
	got, err = s.Get(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.AvailableCopies)
}

func TestDelete_WithOpenBorrowing(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cs := catalog.New(st)
	bs := borrowing.New(st, cs, 14)

	it, err := cs.Create(ctx, catalog.CreateItemReq{
		Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441013593", TotalCopies: 1,
	})
	require.NoError(t, err)

	b, err := bs.Borrow(ctx, 7, it.ID, 0)
	require.NoError(t, err)

	err = cs.Delete(ctx, it.ID)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	_, err = bs.Return(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, cs.Delete(ctx, it.ID))
	_, err = cs.Get(ctx, it.ID)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	// Closed loans go with the item.
	hist, err := bs.History(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, hist)
}

func TestDelete_NotFound(t *testing.T) {
	s, _ := newSvc(t)
	err := s.Delete(context.Background(), 123)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}
