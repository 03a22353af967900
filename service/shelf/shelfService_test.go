package shelf_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/service/catalog"
	"librarydesk/service/shelf"
	"librarydesk/storage/memory"
)

type fixture struct {
	store   *memory.Store
	shelves shelf.Service
	catalog catalog.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	return &fixture{store: st, shelves: shelf.New(st), catalog: catalog.New(st)}
}

func (f *fixture) item(t *testing.T, title string) *model.Item {
	t.Helper()
	it, err := f.catalog.Create(context.Background(), catalog.CreateItemReq{
		Title: title, Author: "author", ISBN: "978-0132350884", TotalCopies: 1,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) shelf(t *testing.T, capacity int64) *model.Shelf {
	t.Helper()
	sh, err := f.shelves.Create(context.Background(), shelf.CreateShelfReq{
		Category: "fiction", Capacity: capacity, ShelfNumber: fmt.Sprintf("S-%d", capacity),
	})
	require.NoError(t, err)
	return sh
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.shelves.Create(ctx, shelf.CreateShelfReq{Capacity: 2, ShelfNumber: "A1"})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))

	_, err = f.shelves.Create(ctx, shelf.CreateShelfReq{Category: "c", ShelfNumber: "A1"})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

func TestPlace_CapacityAndPosition(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sh := f.shelf(t, 2)
	a := f.item(t, "A")
	b := f.item(t, "B")
	c := f.item(t, "C")

	require.NoError(t, f.shelves.Place(ctx, a.ID, sh.ID, 1))

	// Same position is taken.
	err := f.shelves.Place(ctx, b.ID, sh.ID, 1)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	require.NoError(t, f.shelves.Place(ctx, b.ID, sh.ID, 2))

	// Shelf is full now.
	err = f.shelves.Place(ctx, c.ID, sh.ID, 3)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))

	occ, err := f.shelves.Occupancy(ctx, sh.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), occ)

	got, err := f.shelves.Get(ctx, sh.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastReorganized)
}

func TestPlace_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sh := f.shelf(t, 2)
	a := f.item(t, "A")

	err := f.shelves.Place(ctx, 999, sh.ID, 1)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	err = f.shelves.Place(ctx, a.ID, 999, 1)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	require.NoError(t, f.shelves.Place(ctx, a.ID, sh.ID, 1))

	// An already-shelved item must be relocated, not placed twice.
	err = f.shelves.Place(ctx, a.ID, sh.ID, 2)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
}

func TestRemove_NoopWhenUnplaced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.item(t, "A")
	require.NoError(t, f.shelves.Remove(ctx, a.ID))

	sh := f.shelf(t, 1)
	require.NoError(t, f.shelves.Place(ctx, a.ID, sh.ID, 1))
	require.NoError(t, f.shelves.Remove(ctx, a.ID))

	occ, err := f.shelves.Occupancy(ctx, sh.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), occ)

	it, err := f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, it.Placed())
}

func TestRelocate_Atomic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	src := f.shelf(t, 1)
	dst := f.shelf(t, 1)
	a := f.item(t, "A")
	blocker := f.item(t, "B")

	require.NoError(t, f.shelves.Place(ctx, a.ID, src.ID, 1))
	require.NoError(t, f.shelves.Place(ctx, blocker.ID, dst.ID, 1))

	// Destination full: the move fails and the original placement survives.
	err := f.shelves.Relocate(ctx, a.ID, dst.ID, 2)
	require.Equal(t, apperr.ErrCapacity, apperr.Code(err))

	it, err := f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, it.Placed())
	require.Equal(t, src.ID, *it.ShelfID)
	require.Equal(t, int64(1), *it.Position)

	// Free the destination and the same move succeeds.
	require.NoError(t, f.shelves.Remove(ctx, blocker.ID))
	require.NoError(t, f.shelves.Relocate(ctx, a.ID, dst.ID, 1))

	it, err = f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, dst.ID, *it.ShelfID)

	occ, err := f.shelves.Occupancy(ctx, src.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), occ)
}

func TestRelocate_BetweenShelves(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lo := f.shelf(t, 2)
	hi := f.shelf(t, 2)
	require.Less(t, lo.ID, hi.ID)
	a := f.item(t, "A")

	// Moves work in both id directions.
	require.NoError(t, f.shelves.Place(ctx, a.ID, lo.ID, 1))
	require.NoError(t, f.shelves.Relocate(ctx, a.ID, hi.ID, 1))
	require.NoError(t, f.shelves.Relocate(ctx, a.ID, lo.ID, 2))

	it, err := f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, lo.ID, *it.ShelfID)
	require.Equal(t, int64(2), *it.Position)

	occ, err := f.shelves.Occupancy(ctx, hi.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), occ)

	sh, err := f.shelves.Get(ctx, hi.ID)
	require.NoError(t, err)
	require.NotNil(t, sh.LastReorganized)

	// Missing destination leaves the placement alone.
	err = f.shelves.Relocate(ctx, a.ID, 999, 1)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	it, err = f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, lo.ID, *it.ShelfID)
}

func TestRelocate_WithinShelf(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sh := f.shelf(t, 1)
	a := f.item(t, "A")
	require.NoError(t, f.shelves.Place(ctx, a.ID, sh.ID, 1))

	// Moving within a full shelf works because the item frees its own slot
	// inside the same transaction.
	require.NoError(t, f.shelves.Relocate(ctx, a.ID, sh.ID, 2))

	it, err := f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), *it.Position)
}
