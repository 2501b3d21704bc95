package request

// CreatePartRequest represents a part creation request
type CreatePartRequest struct {
	Company     string  `json:"company" binding:"omitempty,max=255"`
	ProductCode string  `json:"product_code" binding:"required,max=100"`
	PartName    string  `json:"part_name" binding:"required,min=2,max=255"`
	CarModel    string  `json:"car_model" binding:"omitempty,max=255"`
	ModelYear   string  `json:"model_year" binding:"omitempty,max=20"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
	BuyPrice    float64 `json:"buy_price" binding:"min=0"`
	SellPrice   float64 `json:"sell_price" binding:"min=0"`
}

// UpdatePartRequest represents a part update request
type UpdatePartRequest struct {
	Company     *string  `json:"company" binding:"omitempty,max=255"`
	ProductCode *string  `json:"product_code" binding:"omitempty,min=1,max=100"`
	PartName    *string  `json:"part_name" binding:"omitempty,min=2,max=255"`
	CarModel    *string  `json:"car_model" binding:"omitempty,max=255"`
	ModelYear   *string  `json:"model_year" binding:"omitempty,max=20"`
	Quantity    *int     `json:"quantity" binding:"omitempty,min=0"`
	BuyPrice    *float64 `json:"buy_price" binding:"omitempty,min=0"`
	SellPrice   *float64 `json:"sell_price" binding:"omitempty,min=0"`
}

// PartFilterRequest represents part filter parameters
type PartFilterRequest struct {
	Search    string `form:"search"`
	Company   string `form:"company"`
	CarModel  string `form:"car_model"`
	ModelYear string `form:"model_year"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
