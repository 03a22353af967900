package memory

import (
	"context"
	"time"

	"librarydesk/model"
	"librarydesk/storage"
)

// memTx holds the store mutex for its whole lifetime. Writes go to staged
// copies; Commit moves them into the store, Rollback drops them.
type memTx struct {
	s    *Store
	done bool

	items      map[int64]*model.Item
	borrowings map[int64]*model.Borrowing
	shelves    map[int64]*model.Shelf
	deleted    map[int64]bool // item ids
}

func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	s.mu.Lock()
	return &memTx{
		s:          s,
		items:      make(map[int64]*model.Item),
		borrowings: make(map[int64]*model.Borrowing),
		shelves:    make(map[int64]*model.Shelf),
		deleted:    make(map[int64]bool),
	}, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	for id, it := range t.items {
		t.s.items[id] = it
	}
	for id, b := range t.borrowings {
		t.s.borrowings[id] = b
	}
	for id, sh := range t.shelves {
		t.s.shelves[id] = sh
	}
	// Deleting an item takes its borrowing history with it.
	for id := range t.deleted {
		delete(t.s.items, id)
		for bid, b := range t.s.borrowings {
			if b.ItemID == id {
				delete(t.s.borrowings, bid)
			}
		}
	}
	t.s.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *memTx) item(id int64) (*model.Item, bool) {
	if t.deleted[id] {
		return nil, false
	}
	if it, ok := t.items[id]; ok {
		return it, true
	}
	if it, ok := t.s.items[id]; ok {
		staged := cloneItem(it)
		t.items[id] = staged
		return staged, true
	}
	return nil, false
}

func (t *memTx) borrowing(id int64) (*model.Borrowing, bool) {
	if b, ok := t.borrowings[id]; ok {
		return b, true
	}
	if b, ok := t.s.borrowings[id]; ok {
		staged := cloneBorrowing(b)
		t.borrowings[id] = staged
		return staged, true
	}
	return nil, false
}

func (t *memTx) shelf(id int64) (*model.Shelf, bool) {
	if sh, ok := t.shelves[id]; ok {
		return sh, true
	}
	if sh, ok := t.s.shelves[id]; ok {
		staged := cloneShelf(sh)
		t.shelves[id] = staged
		return staged, true
	}
	return nil, false
}

// eachItem visits the staged view of every live item.
func (t *memTx) eachItem(fn func(it *model.Item)) {
	for id := range t.s.items {
		if it, ok := t.item(id); ok {
			fn(it)
		}
	}
	for id, it := range t.items {
		if _, inBase := t.s.items[id]; !inBase && !t.deleted[id] {
			fn(it)
		}
	}
}

func (t *memTx) eachBorrowing(fn func(b *model.Borrowing)) {
	for id := range t.s.borrowings {
		if b, ok := t.borrowing(id); ok {
			fn(b)
		}
	}
	for id, b := range t.borrowings {
		if _, inBase := t.s.borrowings[id]; !inBase {
			fn(b)
		}
	}
}

// ---- catalog ----

func (t *memTx) ItemForUpdate(ctx context.Context, id int64) (*model.Item, error) {
	it, ok := t.item(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneItem(it), nil
}

func (t *memTx) AdjustAvailability(ctx context.Context, id, delta int64) (bool, error) {
	it, ok := t.item(id)
	if !ok {
		return false, storage.ErrNotFound
	}
	next := it.AvailableCopies + delta
	if next < 0 || next > it.TotalCopies {
		return false, nil
	}
	it.AvailableCopies = next
	return true, nil
}

func (t *memTx) DeleteItem(ctx context.Context, id int64) error {
	if _, ok := t.item(id); !ok {
		return storage.ErrNotFound
	}
	delete(t.items, id)
	t.deleted[id] = true
	return nil
}

// ---- shelf ----

func (t *memTx) ShelfForUpdate(ctx context.Context, id int64) (*model.Shelf, error) {
	sh, ok := t.shelf(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneShelf(sh), nil
}

func (t *memTx) Occupancy(ctx context.Context, shelfID int64) (int64, error) {
	var n int64
	t.eachItem(func(it *model.Item) {
		if it.ShelfID != nil && *it.ShelfID == shelfID {
			n++
		}
	})
	return n, nil
}

func (t *memTx) PositionTaken(ctx context.Context, shelfID, position int64) (bool, error) {
	var taken bool
	t.eachItem(func(it *model.Item) {
		if it.ShelfID != nil && *it.ShelfID == shelfID &&
			it.Position != nil && *it.Position == position {
			taken = true
		}
	})
	return taken, nil
}

func (t *memTx) SetPlacement(ctx context.Context, itemID, shelfID, position int64) error {
	it, ok := t.item(itemID)
	if !ok {
		return storage.ErrNotFound
	}
	taken, _ := t.PositionTaken(ctx, shelfID, position)
	if taken {
		return storage.ErrDuplicate
	}
	it.ShelfID = &shelfID
	it.Position = &position
	return nil
}

func (t *memTx) ClearPlacement(ctx context.Context, itemID int64) error {
	it, ok := t.item(itemID)
	if !ok {
		return storage.ErrNotFound
	}
	it.ShelfID = nil
	it.Position = nil
	return nil
}

func (t *memTx) TouchShelf(ctx context.Context, shelfID int64, at time.Time) error {
	sh, ok := t.shelf(shelfID)
	if !ok {
		return storage.ErrNotFound
	}
	ts := at
	sh.LastReorganized = &ts
	return nil
}

// ---- borrowings ----

func (t *memTx) HasOpenBorrowing(ctx context.Context, userID, itemID int64) (bool, error) {
	var open bool
	t.eachBorrowing(func(b *model.Borrowing) {
		if b.UserID == userID && b.ItemID == itemID && b.Open() {
			open = true
		}
	})
	return open, nil
}

func (t *memTx) HasOpenBorrowingForItem(ctx context.Context, itemID int64) (bool, error) {
	var open bool
	t.eachBorrowing(func(b *model.Borrowing) {
		if b.ItemID == itemID && b.Open() {
			open = true
		}
	})
	return open, nil
}

func (t *memTx) InsertBorrowing(ctx context.Context, b *model.Borrowing) error {
	if b.Open() {
		dup, _ := t.HasOpenBorrowing(ctx, b.UserID, b.ItemID)
		if dup {
			return storage.ErrDuplicate
		}
	}
	t.s.nextBorrowing++
	b.ID = t.s.nextBorrowing
	t.borrowings[b.ID] = cloneBorrowing(b)
	return nil
}

func (t *memTx) BorrowingForUpdate(ctx context.Context, id int64) (*model.Borrowing, error) {
	b, ok := t.borrowing(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneBorrowing(b), nil
}

func (t *memTx) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	b, ok := t.borrowing(id)
	if !ok {
		return storage.ErrNotFound
	}
	if !b.Open() {
		return storage.ErrNotFound
	}
	ts := at
	b.Status = model.BorrowingReturned
	b.ReturnDate = &ts
	return nil
}
