// model/borrowing.go
package model

import "time"

type BorrowingStatus string

const (
	BorrowingActive   BorrowingStatus = "ACTIVE"
	BorrowingReturned BorrowingStatus = "RETURNED"
	BorrowingOverdue  BorrowingStatus = "OVERDUE"
)

// Borrowing is a loan record linking a user to an item for a bounded period.
// ReturnDate is set exactly when Status is RETURNED. OVERDUE means the due
// date passed while the copy was still out; a return still closes it.
type Borrowing struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	ItemID     int64           `json:"item_id"`
	Status     BorrowingStatus `json:"status"`
	BorrowDate time.Time       `json:"borrow_date"`
	DueDate    time.Time       `json:"due_date"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
}

// Open reports whether the borrowing still holds a copy out.
func (b *Borrowing) Open() bool {
	return b.Status == BorrowingActive || b.Status == BorrowingOverdue
}
