package entity

import (
	"encoding/json"
	"math"
	"time"
)

// Part represents one stocked auto part
type Part struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Company     string    `gorm:"size:255" json:"company"`
	ProductCode string    `gorm:"size:100;not null;index" json:"product_code"`
	PartName    string    `gorm:"size:255;not null" json:"part_name"`
	CarModel    string    `gorm:"size:255" json:"car_model"`
	ModelYear   string    `gorm:"size:20" json:"model_year"`
	Quantity    int       `gorm:"default:1" json:"quantity"`
	BuyPrice    int64     `gorm:"default:0" json:"buy_price"`  // Stored in cents
	SellPrice   int64     `gorm:"default:0" json:"sell_price"` // Stored in cents
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Part model
func (Part) TableName() string {
	return "parts"
}

// GetBuyPriceDecimal returns the buy price as a decimal (for display)
func (p *Part) GetBuyPriceDecimal() float64 {
	return float64(p.BuyPrice) / 100
}

// GetSellPriceDecimal returns the sell price as a decimal (for display)
func (p *Part) GetSellPriceDecimal() float64 {
	return float64(p.SellPrice) / 100
}

// SetBuyPriceFromDecimal sets the buy price from a decimal value
func (p *Part) SetBuyPriceFromDecimal(price float64) {
	p.BuyPrice = int64(math.Round(price * 100))
}

// SetSellPriceFromDecimal sets the sell price from a decimal value
func (p *Part) SetSellPriceFromDecimal(price float64) {
	p.SellPrice = int64(math.Round(price * 100))
}

// PartJSON is a helper struct for JSON marshaling with decimal prices
type PartJSON struct {
	ID          uint      `json:"id"`
	Company     string    `json:"company"`
	ProductCode string    `json:"product_code"`
	PartName    string    `json:"part_name"`
	CarModel    string    `json:"car_model"`
	ModelYear   string    `json:"model_year"`
	Quantity    int       `json:"quantity"`
	BuyPrice    float64   `json:"buy_price"`  // Decimal value for JSON
	SellPrice   float64   `json:"sell_price"` // Decimal value for JSON
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MarshalJSON converts Part to JSON with decimal prices
func (p Part) MarshalJSON() ([]byte, error) {
	return json.Marshal(PartJSON{
		ID:          p.ID,
		Company:     p.Company,
		ProductCode: p.ProductCode,
		PartName:    p.PartName,
		CarModel:    p.CarModel,
		ModelYear:   p.ModelYear,
		Quantity:    p.Quantity,
		BuyPrice:    p.GetBuyPriceDecimal(),
		SellPrice:   p.GetSellPriceDecimal(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}
