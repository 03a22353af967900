package item

type CreateItemReq struct {
	Kind        string `json:"kind" validate:"omitempty,oneof=BOOK JOURNAL"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required_without=Publisher"`
	Publisher   string `json:"publisher" validate:"required_without=Author"`
	ISBN        string `json:"isbn" validate:"required"`
	TotalCopies int64  `json:"total_copies" validate:"required,gt=0"`
}

type AdjustReq struct {
	Delta int64 `json:"delta" validate:"required"`
}
