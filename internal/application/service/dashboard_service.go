package service

import (
	"context"

	"github.com/eraycetin/autoparts-api/internal/domain/repository"
)

// DashboardService combines inventory and invoice figures for the overview
type DashboardService struct {
	partRepo          repository.PartRepository
	invoiceRepo       repository.InvoiceRepository
	lowStockThreshold int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(partRepo repository.PartRepository, invoiceRepo repository.InvoiceRepository, lowStockThreshold int) *DashboardService {
	return &DashboardService{
		partRepo:          partRepo,
		invoiceRepo:       invoiceRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// DashboardStats is the combined shop overview
type DashboardStats struct {
	TotalParts      int64   `json:"total_parts"`
	TotalStockCost  float64 `json:"total_stock_cost"`
	PotentialProfit float64 `json:"potential_profit"`
	LowStockCount   int64   `json:"low_stock_count"`
	TotalInvoices   int64   `json:"total_invoices"`
	InvoicedRevenue float64 `json:"invoiced_revenue"`
}

// GetStats recomputes all dashboard figures from current data
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	agg, err := s.partRepo.Aggregates(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	invoiceStats, err := s.invoiceRepo.ArchivedStats(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalParts:      agg.TotalItems,
		TotalStockCost:  float64(agg.TotalCost) / 100,
		PotentialProfit: float64(agg.TotalProfit) / 100,
		LowStockCount:   agg.LowStock,
		TotalInvoices:   invoiceStats.Count,
		InvoicedRevenue: float64(invoiceStats.Revenue) / 100,
	}, nil
}
