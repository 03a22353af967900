// Package shelf owns Shelf records and is the only writer of the placement
// fields on items. Every placement runs inside one transaction: capacity and
// position are checked against locked rows, never assumed.
package shelf

import (
	"context"
	"errors"
	"strings"
	"time"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/storage"
)

type CreateShelfReq struct {
	Category    string
	Capacity    int64
	ShelfNumber string
	PosX        float64
	PosY        float64
}

type Service interface {
	Create(ctx context.Context, req CreateShelfReq) (*model.Shelf, error)
	Get(ctx context.Context, id int64) (*model.Shelf, error)
	List(ctx context.Context) ([]model.Shelf, error)
	Occupancy(ctx context.Context, shelfID int64) (int64, error)

	Place(ctx context.Context, itemID, shelfID, position int64) error
	Remove(ctx context.Context, itemID int64) error
	Relocate(ctx context.Context, itemID, newShelfID, newPosition int64) error
}

type service struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store) Service {
	return &service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, req CreateShelfReq) (*model.Shelf, error) {
	req.Category = strings.TrimSpace(req.Category)
	req.ShelfNumber = strings.TrimSpace(req.ShelfNumber)
	if req.Category == "" {
		return nil, apperr.Validation("category is required")
	}
	if req.ShelfNumber == "" {
		return nil, apperr.Validation("shelf_number is required")
	}
	if req.Capacity <= 0 {
		return nil, apperr.Validation("capacity must be positive")
	}
	sh := &model.Shelf{
		Category:    req.Category,
		Capacity:    req.Capacity,
		ShelfNumber: req.ShelfNumber,
		PosX:        req.PosX,
		PosY:        req.PosY,
	}
	if err := s.store.InsertShelf(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Shelf, error) {
	sh, err := s.store.GetShelf(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("shelf not found")
		}
		return nil, err
	}
	return sh, nil
}

func (s *service) List(ctx context.Context) ([]model.Shelf, error) {
	return s.store.ListShelves(ctx)
}

func (s *service) Occupancy(ctx context.Context, shelfID int64) (int64, error) {
	n, err := s.store.ShelfOccupancy(ctx, shelfID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, apperr.NotFound("shelf not found")
		}
		return 0, err
	}
	return n, nil
}

func (s *service) Place(ctx context.Context, itemID, shelfID, position int64) (err error) {
	if position <= 0 {
		return apperr.Validation("position must be positive")
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := tx.ItemForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return err
	}
	if it.Placed() {
		return apperr.Conflict("item is already shelved; relocate it instead")
	}
	if err = s.place(ctx, tx, itemID, shelfID, position); err != nil {
		return err
	}
	return tx.Commit()
}

// place runs inside the caller's transaction with the item row locked.
func (s *service) place(ctx context.Context, tx storage.Tx, itemID, shelfID, position int64) error {
	sh, err := tx.ShelfForUpdate(ctx, shelfID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("shelf not found")
		}
		return err
	}
	return s.placeLocked(ctx, tx, itemID, sh, position)
}

// placeLocked assumes the caller already holds the shelf row lock.
func (s *service) placeLocked(ctx context.Context, tx storage.Tx, itemID int64, sh *model.Shelf, position int64) error {
	occ, err := tx.Occupancy(ctx, sh.ID)
	if err != nil {
		return err
	}
	if occ >= sh.Capacity {
		return apperr.Capacity("shelf is full")
	}
	taken, err := tx.PositionTaken(ctx, sh.ID, position)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("position is already occupied")
	}
	if err := tx.SetPlacement(ctx, itemID, sh.ID, position); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.Conflict("position is already occupied")
		}
		return err
	}
	return tx.TouchShelf(ctx, sh.ID, s.now())
}

func (s *service) Remove(ctx context.Context, itemID int64) (err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := tx.ItemForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return err
	}
	if !it.Placed() {
		// Already unplaced.
		return tx.Commit()
	}
	if err = tx.ClearPlacement(ctx, itemID); err != nil {
		return err
	}
	if err = tx.TouchShelf(ctx, *it.ShelfID, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

// Relocate clears the old slot and claims the new one in a single
// transaction; on any failure the original placement survives.
func (s *service) Relocate(ctx context.Context, itemID, newShelfID, newPosition int64) (err error) {
	if newPosition <= 0 {
		return apperr.Validation("position must be positive")
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := tx.ItemForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return err
	}
	if !it.Placed() {
		if err = s.place(ctx, tx, itemID, newShelfID, newPosition); err != nil {
			return err
		}
		return tx.Commit()
	}

	// Both shelf rows lock in ascending id order so two opposite-direction
	// moves cannot deadlock each other.
	oldShelfID := *it.ShelfID
	var newShelf *model.Shelf
	for _, id := range lockOrder(oldShelfID, newShelfID) {
		sh, shErr := tx.ShelfForUpdate(ctx, id)
		if shErr != nil {
			if errors.Is(shErr, storage.ErrNotFound) {
				return apperr.NotFound("shelf not found")
			}
			return shErr
		}
		if id == newShelfID {
			newShelf = sh
		}
	}
	if err = tx.ClearPlacement(ctx, itemID); err != nil {
		return err
	}
	if err = tx.TouchShelf(ctx, oldShelfID, s.now()); err != nil {
		return err
	}
	if err = s.placeLocked(ctx, tx, itemID, newShelf, newPosition); err != nil {
		return err
	}
	return tx.Commit()
}

func lockOrder(a, b int64) []int64 {
	switch {
	case a == b:
		return []int64{a}
	case a < b:
		return []int64{a, b}
	default:
		return []int64{b, a}
	}
}
