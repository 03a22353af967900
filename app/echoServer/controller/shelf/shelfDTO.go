package shelf

type CreateShelfReq struct {
	Category    string  `json:"category" validate:"required"`
	Capacity    int64   `json:"capacity" validate:"required,gt=0"`
	ShelfNumber string  `json:"shelf_number" validate:"required"`
	PosX        float64 `json:"pos_x"`
	PosY        float64 `json:"pos_y"`
}

type PlaceItemReq struct {
	ItemID   int64 `json:"item_id" validate:"required,gt=0"`
	Position int64 `json:"position" validate:"required,gt=0"`
}

type RelocateReq struct {
	ShelfID  int64 `json:"shelf_id" validate:"required,gt=0"`
	Position int64 `json:"position" validate:"required,gt=0"`
}
