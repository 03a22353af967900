// Package memory implements storage.Store in process, for development runs
// without a database and for service tests. A transaction takes the store
// mutex at Begin and releases it at Commit/Rollback, so transactions are
// fully serialized; writes are staged on copies and only land on Commit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"librarydesk/model"
	"librarydesk/storage"
)

type Store struct {
	mu sync.Mutex

	items      map[int64]*model.Item
	shelves    map[int64]*model.Shelf
	borrowings map[int64]*model.Borrowing
	users      map[int64]*model.User

	nextItem      int64
	nextShelf     int64
	nextBorrowing int64
	nextUser      int64
}

func New() *Store {
	return &Store{
		items:      make(map[int64]*model.Item),
		shelves:    make(map[int64]*model.Shelf),
		borrowings: make(map[int64]*model.Borrowing),
		users:      make(map[int64]*model.User),
	}
}

var _ storage.Store = (*Store)(nil)

func cloneItem(it *model.Item) *model.Item {
	c := *it
	if it.ShelfID != nil {
		v := *it.ShelfID
		c.ShelfID = &v
	}
	if it.Position != nil {
		v := *it.Position
		c.Position = &v
	}
	return &c
}

func cloneShelf(sh *model.Shelf) *model.Shelf {
	c := *sh
	if sh.LastReorganized != nil {
		v := *sh.LastReorganized
		c.LastReorganized = &v
	}
	return &c
}

func cloneBorrowing(b *model.Borrowing) *model.Borrowing {
	c := *b
	if b.ReturnDate != nil {
		v := *b.ReturnDate
		c.ReturnDate = &v
	}
	return &c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

// ---- non-transactional operations ----

func (s *Store) InsertItem(ctx context.Context, it *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItem++
	it.ID = s.nextItem
	it.CreatedAt = time.Now().UTC()
	s.items[it.ID] = cloneItem(it)
	return nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneItem(it), nil
}

func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) InsertShelf(ctx context.Context, sh *model.Shelf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextShelf++
	sh.ID = s.nextShelf
	sh.CreatedAt = time.Now().UTC()
	s.shelves[sh.ID] = cloneShelf(sh)
	return nil
}

func (s *Store) GetShelf(ctx context.Context, id int64) (*model.Shelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shelves[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneShelf(sh), nil
}

func (s *Store) ListShelves(ctx context.Context) ([]model.Shelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Shelf, 0, len(s.shelves))
	for _, sh := range s.shelves {
		out = append(out, *cloneShelf(sh))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ShelfOccupancy(ctx context.Context, shelfID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shelves[shelfID]; !ok {
		return 0, storage.ErrNotFound
	}
	var n int64
	for _, it := range s.items {
		if it.ShelfID != nil && *it.ShelfID == shelfID {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetBorrowing(ctx context.Context, id int64) (*model.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.borrowings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneBorrowing(b), nil
}

func (s *Store) ListBorrowingsByUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Borrowing
	for _, b := range s.borrowings {
		if b.UserID == userID {
			out = append(out, *cloneBorrowing(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Borrowing
	for _, b := range s.borrowings {
		if b.Status == model.BorrowingActive && b.DueDate.Before(now) {
			b.Status = model.BorrowingOverdue
			out = append(out, *cloneBorrowing(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (*model.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &model.DashboardStats{}
	for _, it := range s.items {
		st.TotalItems++
		st.TotalCopies += it.TotalCopies
		st.AvailableCopies += it.AvailableCopies
		if it.ShelfID != nil {
			st.OccupiedSlots++
		}
	}
	for _, b := range s.borrowings {
		switch b.Status {
		case model.BorrowingActive:
			st.ActiveBorrowings++
		case model.BorrowingOverdue:
			st.OverdueBorrowings++
		}
	}
	st.Shelves = int64(len(s.shelves))
	return st, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || strings.EqualFold(existing.Username, u.Username) {
			return storage.ErrDuplicate
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
