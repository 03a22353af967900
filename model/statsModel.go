// model/stats.go
package model

// DashboardStats feeds the admin dashboard charts.
type DashboardStats struct {
	TotalItems        int64 `json:"total_items"`
	TotalCopies       int64 `json:"total_copies"`
	AvailableCopies   int64 `json:"available_copies"`
	ActiveBorrowings  int64 `json:"active_borrowings"`
	OverdueBorrowings int64 `json:"overdue_borrowings"`
	Shelves           int64 `json:"shelves"`
	OccupiedSlots     int64 `json:"occupied_slots"`
}
