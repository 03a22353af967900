// model/shelf.go
package model

import "time"

// Shelf is a physical storage unit with bounded capacity and positional slots.
// Positions are unique per shelf; the occupant count never exceeds Capacity.
type Shelf struct {
	ID              int64      `json:"id"`
	Category        string     `json:"category"`
	Capacity        int64      `json:"capacity"`
	ShelfNumber     string     `json:"shelf_number"`
	PosX            float64    `json:"pos_x"`
	PosY            float64    `json:"pos_y"`
	LastReorganized *time.Time `json:"last_reorganized,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
