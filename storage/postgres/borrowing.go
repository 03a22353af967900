package postgres

import (
	"context"
	"time"

	"librarydesk/model"
	"librarydesk/storage"
)

const borrowingCols = `id, user_id, item_id, status, borrow_date, due_date, return_date`

func (s *Store) GetBorrowing(ctx context.Context, id int64) (*model.Borrowing, error) {
	const q = `SELECT ` + borrowingCols + ` FROM borrowings WHERE id = $1`
	b := &model.Borrowing{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.Status, &b.BorrowDate, &b.DueDate, &b.ReturnDate,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

func (s *Store) ListBorrowingsByUser(ctx context.Context, userID int64) ([]model.Borrowing, error) {
	const q = `SELECT ` + borrowingCols + `
		FROM borrowings
		WHERE user_id = $1
		ORDER BY borrow_date DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrowing
	for rows.Next() {
		var b model.Borrowing
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.ItemID, &b.Status, &b.BorrowDate, &b.DueDate, &b.ReturnDate,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MarkOverdue is a single filtered update so concurrent sweeps and returns
// cannot double-apply: a row already RETURNED or OVERDUE never matches.
func (s *Store) MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	const q = `
		UPDATE borrowings
		SET status = 'OVERDUE'
		WHERE status = 'ACTIVE'
		AND due_date < $1
		RETURNING ` + borrowingCols
	rows, err := s.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrowing
	for rows.Next() {
		var b model.Borrowing
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.ItemID, &b.Status, &b.BorrowDate, &b.DueDate, &b.ReturnDate,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (t *pgTx) HasOpenBorrowing(ctx context.Context, userID, itemID int64) (bool, error) {
	var open bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM borrowings
			WHERE user_id = $1 AND item_id = $2
			AND status IN ('ACTIVE','OVERDUE')
		)`, userID, itemID,
	).Scan(&open)
	return open, err
}

func (t *pgTx) HasOpenBorrowingForItem(ctx context.Context, itemID int64) (bool, error) {
	var open bool
	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM borrowings
			WHERE item_id = $1
			AND status IN ('ACTIVE','OVERDUE')
		)`, itemID,
	).Scan(&open)
	return open, err
}

func (t *pgTx) InsertBorrowing(ctx context.Context, b *model.Borrowing) error {
	const q = `
		INSERT INTO borrowings (user_id, item_id, status, borrow_date, due_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	err := t.tx.QueryRowContext(ctx, q,
		b.UserID, b.ItemID, b.Status, b.BorrowDate, b.DueDate,
	).Scan(&b.ID)
	return mapErr(err)
}

func (t *pgTx) BorrowingForUpdate(ctx context.Context, id int64) (*model.Borrowing, error) {
	const q = `SELECT ` + borrowingCols + ` FROM borrowings WHERE id = $1 FOR UPDATE`
	b := &model.Borrowing{}
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.Status, &b.BorrowDate, &b.DueDate, &b.ReturnDate,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

func (t *pgTx) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	// Guard on status so a racing double return cannot re-apply.
	const q = `
		UPDATE borrowings
		SET status = 'RETURNED', return_date = $2
		WHERE id = $1
		AND status IN ('ACTIVE','OVERDUE')`
	res, err := t.tx.ExecContext(ctx, q, id, at)
	if err != nil {
		return mapErr(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}
