package repository

import (
	"context"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

// PartFilterParams represents filtering parameters for listing parts
type PartFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // case-insensitive substring across name, code, car model, model year, company
	Company    string // exact match
	CarModel   string // exact match
	ModelYear  string // exact match
}

// PartAggregates holds the derived inventory totals, recomputed on demand
type PartAggregates struct {
	TotalItems  int64 `json:"total_items"`
	TotalCost   int64 `json:"total_cost"`   // sum of buy prices, in cents
	TotalProfit int64 `json:"total_profit"` // sum of (sell - buy), in cents
	LowStock    int64 `json:"low_stock"`
}

// PartRepository defines the interface for part data access
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id uint) (*entity.Part, error)
	GetByCode(ctx context.Context, code string) (*entity.Part, error)
	Update(ctx context.Context, part *entity.Part) error
	// Delete removes a part by id; deleting an absent id is not an error.
	Delete(ctx context.Context, id uint) error
	// List returns parts in insertion (id) order with the given filters.
	List(ctx context.Context, params *PartFilterParams) ([]entity.Part, int64, error)
	// ListAll returns every part in insertion order, for CSV export.
	ListAll(ctx context.Context) ([]entity.Part, error)
	Aggregates(ctx context.Context, lowStockThreshold int) (*PartAggregates, error)
}
