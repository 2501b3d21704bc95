package request

// UpdateDraftRequest represents an update to the draft invoice header
type UpdateDraftRequest struct {
	CustomerName  *string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone *string `json:"customer_phone" binding:"omitempty,max=50"`
	Date          *string `json:"date" binding:"omitempty,max=50"`
}

// AddStockItemRequest adds an inventory-backed line to the draft
type AddStockItemRequest struct {
	PartID   uint `json:"part_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// AddManualItemRequest adds a free-form line to the draft
type AddManualItemRequest struct {
	Description string  `json:"description" binding:"required,max=255"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"omitempty,min=1"`
}
