package repository

import (
	"context"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

// ArchivedInvoiceStats holds history-wide totals for the dashboard
type ArchivedInvoiceStats struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"` // sum of grand totals, in cents
}

// StockDecrement asks for a part's stock to drop by Quantity when an invoice
// is committed.
type StockDecrement struct {
	PartID   uint
	Quantity int
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	// ReplaceDraft deletes any existing draft (and its items) and stores the
	// given invoice as the new single draft.
	ReplaceDraft(ctx context.Context, invoice *entity.Invoice) error
	// GetDraft returns the current draft with its items, or nil if none.
	GetDraft(ctx context.Context) (*entity.Invoice, error)
	// Save persists the invoice row and rewrites its line items.
	Save(ctx context.Context, invoice *entity.Invoice) error
	// Commit archives the invoice and applies the stock decrements in one
	// transaction: either the invoice is archived with all decrements
	// applied (each floored at zero), or nothing changes.
	Commit(ctx context.Context, invoice *entity.Invoice, decrements []StockDecrement) error
	// GetByID returns an invoice with its items, or nil if absent.
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// Delete removes an invoice and its items.
	Delete(ctx context.Context, id int64) error
	// ListArchived returns committed invoices, most recent first.
	ListArchived(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
	ArchivedStats(ctx context.Context) (*ArchivedInvoiceStats, error)
	// NextSequence draws the next invoice sequence number from the persistent
	// counter, initializing it from archived history when no counter exists.
	NextSequence(ctx context.Context) (uint64, error)
}
