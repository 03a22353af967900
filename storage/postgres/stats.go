package postgres

import (
	"context"

	"librarydesk/model"
)

func (s *Store) Stats(ctx context.Context) (*model.DashboardStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM items),
			(SELECT COALESCE(SUM(total_copies), 0) FROM items),
			(SELECT COALESCE(SUM(available_copies), 0) FROM items),
			(SELECT COUNT(*) FROM borrowings WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM borrowings WHERE status = 'OVERDUE'),
			(SELECT COUNT(*) FROM shelves),
			(SELECT COUNT(*) FROM items WHERE shelf_id IS NOT NULL)`
	st := &model.DashboardStats{}
	err := s.db.QueryRowContext(ctx, q).Scan(
		&st.TotalItems, &st.TotalCopies, &st.AvailableCopies,
		&st.ActiveBorrowings, &st.OverdueBorrowings,
		&st.Shelves, &st.OccupiedSlots,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}
