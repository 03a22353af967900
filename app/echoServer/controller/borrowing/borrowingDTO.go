package borrowing

type BorrowReq struct {
	ItemID         int64 `json:"item_id" validate:"required,gt=0"`
	LoanPeriodDays int   `json:"loan_period_days" validate:"omitempty,gt=0,lte=365"`
}
