// Package catalog owns Item records and their availability counters.
// AdjustAvailability is the single choke point for availability mutation;
// the borrowing service calls it inside its own transaction.
package catalog

import (
	"context"
	"errors"
	"strings"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/storage"
)

type CreateItemReq struct {
	Kind        model.ItemKind
	Title       string
	Author      string
	Publisher   string
	ISBN        string
	TotalCopies int64
}

type Service interface {
	Create(ctx context.Context, req CreateItemReq) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Delete(ctx context.Context, id int64) error

	// Adjust applies a manual correction in its own transaction.
	Adjust(ctx context.Context, id, delta int64) (*model.Item, error)
	// AdjustAvailability applies the counter change inside the caller's
	// transaction. Callers lock the item row first.
	AdjustAvailability(ctx context.Context, tx storage.Tx, id, delta int64) error
}

type service struct {
	store storage.Store
}

func New(store storage.Store) Service { return &service{store: store} }

func validateCreate(req *CreateItemReq) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.Publisher = strings.TrimSpace(req.Publisher)
	req.ISBN = strings.TrimSpace(req.ISBN)

	if req.Kind == "" {
		req.Kind = model.KindBook
	}
	if req.Kind != model.KindBook && req.Kind != model.KindJournal {
		return apperr.Validation("kind must be BOOK or JOURNAL")
	}
	if req.Title == "" {
		return apperr.Validation("title is required")
	}
	if req.Author == "" && req.Publisher == "" {
		return apperr.Validation("author or publisher is required")
	}
	if !isbnLike(req.ISBN) {
		return apperr.Validation("isbn is required and must look like an ISBN/ISSN")
	}
	if req.TotalCopies <= 0 {
		return apperr.Validation("total_copies must be positive")
	}
	return nil
}

// isbnLike accepts digits with optional hyphens and a trailing X check digit.
// Both ISBN-10/13 and ISSN shapes pass.
func isbnLike(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
		case (r == 'X' || r == 'x') && i == len(s)-1:
			digits++
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 13
}

func (s *service) Create(ctx context.Context, req CreateItemReq) (*model.Item, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}
	it := &model.Item{
		Kind:            req.Kind,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		AvailableCopies: req.TotalCopies,
		TotalCopies:     req.TotalCopies,
	}
	if err := s.store.InsertItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.store.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	return it, nil
}

func (s *service) List(ctx context.Context) ([]model.Item, error) {
	return s.store.ListItems(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) (err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ItemForUpdate(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return err
	}
	open, err := tx.HasOpenBorrowingForItem(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return apperr.Conflict("item has open borrowings")
	}
	if err = tx.DeleteItem(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Adjust(ctx context.Context, id, delta int64) (_ *model.Item, err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ItemForUpdate(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	if err = s.AdjustAvailability(ctx, tx, id, delta); err != nil {
		return nil, err
	}
	it, err := tx.ItemForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) AdjustAvailability(ctx context.Context, tx storage.Tx, id, delta int64) error {
	ok, err := tx.AdjustAvailability(ctx, id, delta)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("item not found")
		}
		return err
	}
	if !ok {
		return apperr.Capacity("availability out of bounds")
	}
	return nil
}
