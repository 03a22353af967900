package postgres

import (
	"context"

	"librarydesk/model"
	"librarydesk/storage"
)

const itemCols = `id, kind, title, author, publisher, isbn,
	available_copies, total_copies, shelf_id, position, created_at`

func (s *Store) InsertItem(ctx context.Context, it *model.Item) error {
	const q = `
		INSERT INTO items (kind, title, author, publisher, isbn, available_copies, total_copies)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, q,
		it.Kind, it.Title, it.Author, it.Publisher, it.ISBN,
		it.AvailableCopies, it.TotalCopies,
	).Scan(&it.ID, &it.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE id = $1`
	it := &model.Item{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Kind, &it.Title, &it.Author, &it.Publisher, &it.ISBN,
		&it.AvailableCopies, &it.TotalCopies, &it.ShelfID, &it.Position, &it.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items ORDER BY id DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ID, &it.Kind, &it.Title, &it.Author, &it.Publisher, &it.ISBN,
			&it.AvailableCopies, &it.TotalCopies, &it.ShelfID, &it.Position, &it.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (t *pgTx) ItemForUpdate(ctx context.Context, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE id = $1 FOR UPDATE`
	it := &model.Item{}
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Kind, &it.Title, &it.Author, &it.Publisher, &it.ISBN,
		&it.AvailableCopies, &it.TotalCopies, &it.ShelfID, &it.Position, &it.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return it, nil
}

func (t *pgTx) AdjustAvailability(ctx context.Context, id, delta int64) (bool, error) {
	// Guard: only apply while the result stays within [0, total_copies].
	const q = `
		UPDATE items
		SET available_copies = available_copies + $2
		WHERE id = $1
		AND available_copies + $2 >= 0
		AND available_copies + $2 <= total_copies`
	res, err := t.tx.ExecContext(ctx, q, id, delta)
	if err != nil {
		return false, mapErr(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

func (t *pgTx) DeleteItem(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
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
