package postgres

import (
	"context"
	"time"

	"librarydesk/model"
	"librarydesk/storage"
)

const shelfCols = `id, category, capacity, shelf_number, pos_x, pos_y, last_reorganized, created_at`

func (s *Store) InsertShelf(ctx context.Context, sh *model.Shelf) error {
	const q = `
		INSERT INTO shelves (category, capacity, shelf_number, pos_x, pos_y)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, q,
		sh.Category, sh.Capacity, sh.ShelfNumber, sh.PosX, sh.PosY,
	).Scan(&sh.ID, &sh.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetShelf(ctx context.Context, id int64) (*model.Shelf, error) {
	const q = `SELECT ` + shelfCols + ` FROM shelves WHERE id = $1`
	sh := &model.Shelf{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&sh.ID, &sh.Category, &sh.Capacity, &sh.ShelfNumber,
		&sh.PosX, &sh.PosY, &sh.LastReorganized, &sh.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return sh, nil
}

func (s *Store) ListShelves(ctx context.Context) ([]model.Shelf, error) {
	const q = `SELECT ` + shelfCols + ` FROM shelves ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shelf
	for rows.Next() {
		var sh model.Shelf
		if err := rows.Scan(
			&sh.ID, &sh.Category, &sh.Capacity, &sh.ShelfNumber,
			&sh.PosX, &sh.PosY, &sh.LastReorganized, &sh.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) ShelfOccupancy(ctx context.Context, shelfID int64) (int64, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shelves WHERE id = $1)`, shelfID,
	).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, storage.ErrNotFound
	}
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE shelf_id = $1`, shelfID,
	).Scan(&n)
	return n, err
}

func (t *pgTx) ShelfForUpdate(ctx context.Context, id int64) (*model.Shelf, error) {
	const q = `SELECT ` + shelfCols + ` FROM shelves WHERE id = $1 FOR UPDATE`
	sh := &model.Shelf{}
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&sh.ID, &sh.Category, &sh.Capacity, &sh.ShelfNumber,
		&sh.PosX, &sh.PosY, &sh.LastReorganized, &sh.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return sh, nil
}

func (t *pgTx) Occupancy(ctx context.Context, shelfID int64) (int64, error) {
	var n int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE shelf_id = $1`, shelfID,
	).Scan(&n)
	return n, err
}

func (t *pgTx) PositionTaken(ctx context.Context, shelfID, position int64) (bool, error) {
	var taken bool
	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE shelf_id = $1 AND position = $2)`,
		shelfID, position,
	).Scan(&taken)
	return taken, err
}

func (t *pgTx) SetPlacement(ctx context.Context, itemID, shelfID, position int64) error {
	const q = `
		UPDATE items
		SET shelf_id = $2, position = $3
		WHERE id = $1`
	res, err := t.tx.ExecContext(ctx, q, itemID, shelfID, position)
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

func (t *pgTx) ClearPlacement(ctx context.Context, itemID int64) error {
	const q = `
		UPDATE items
		SET shelf_id = NULL, position = NULL
		WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, itemID)
	return mapErr(err)
}

func (t *pgTx) TouchShelf(ctx context.Context, shelfID int64, at time.Time) error {
	const q = `
		UPDATE shelves
		SET last_reorganized = $2
		WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, shelfID, at)
	return mapErr(err)
}
