package entity

import (
	"encoding/json"
	"time"

	"github.com/eraycetin/autoparts-api/internal/domain/enum"
)

// Invoice is either the single in-progress draft or an archived (committed)
// invoice. Commit is the only draft-to-archived transition; archived invoices
// are never edited, only viewed or deleted.
type Invoice struct {
	ID            int64              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	InvoiceNumber string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	CustomerName  string             `gorm:"size:255" json:"customer_name"`
	CustomerPhone string             `gorm:"size:50" json:"customer_phone"`
	Date          string             `gorm:"size:50" json:"date"`
	Status        enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	Subtotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	GrandTotal    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CommittedAt   *time.Time         `json:"committed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal   float64 `json:"subtotal"`
		GrandTotal float64 `json:"grand_total"`
	}{
		Alias:      Alias(i),
		Subtotal:   float64(i.Subtotal) / 100,
		GrandTotal: float64(i.GrandTotal) / 100,
	})
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// RecomputeTotals recalculates the subtotal from the line items. The grand
// total equals the subtotal, there is no tax or discount layer.
func (i *Invoice) RecomputeTotals() {
	var subtotal int64
	for idx := range i.Items {
		i.Items[idx].Total = i.Items[idx].UnitPrice * int64(i.Items[idx].Quantity)
		subtotal += i.Items[idx].Total
	}
	i.Subtotal = subtotal
	i.GrandTotal = subtotal
}

// InvoiceItem represents a line item in an invoice. Inventory lines reference
// a Part and carry a snapshot of its code, name, car model and sell price;
// manual lines carry only what was typed in.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   int64           `gorm:"not null;index" json:"invoice_id"`
	Source      enum.ItemSource `gorm:"default:0" json:"source"`
	PartID      *uint           `gorm:"index" json:"part_id,omitempty"`
	Code        string          `gorm:"size:100" json:"code,omitempty"`
	Description string          `gorm:"size:255;not null" json:"description"`
	CarModel    string          `gorm:"size:255" json:"car_model,omitempty"`
	UnitPrice   int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Quantity    int             `gorm:"not null" json:"quantity"`
	Total       int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time       `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(it),
		UnitPrice: float64(it.UnitPrice) / 100,
		Total:     float64(it.Total) / 100,
	})
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceCounter is the single persisted row backing invoice number
// sequencing. Value holds the last issued sequence number. A number is drawn
// on every draft creation, so abandoned drafts permanently consume numbers.
type InvoiceCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     uint64    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceCounter model
func (InvoiceCounter) TableName() string {
	return "invoice_counters"
}
