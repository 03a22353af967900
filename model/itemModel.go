// model/item.go
package model

import "time"

type ItemKind string

const (
	KindBook    ItemKind = "BOOK"
	KindJournal ItemKind = "JOURNAL"
)

// Item is a catalog entry (book or journal) with copy-availability tracking.
// AvailableCopies always stays within [0, TotalCopies].
type Item struct {
	ID              int64     `json:"id"`
	Kind            ItemKind  `json:"kind"`
	Title           string    `json:"title"`
	Author          string    `json:"author,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	ISBN            string    `json:"isbn"`
	AvailableCopies int64     `json:"available_copies"`
	TotalCopies     int64     `json:"total_copies"`
	ShelfID         *int64    `json:"shelf_id,omitempty"`
	Position        *int64    `json:"position,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Placed reports whether the item currently occupies a shelf slot.
func (i *Item) Placed() bool { return i.ShelfID != nil && i.Position != nil }
