package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/internal/domain/enum"
	"github.com/eraycetin/autoparts-api/internal/domain/repository"
	"github.com/eraycetin/autoparts-api/pkg/apperror"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

// InvoiceService manages the single working draft and the archived history
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	partRepo     repository.PartRepository
	node         *snowflake.Node
	numberPrefix string
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, partRepo repository.PartRepository, node *snowflake.Node, numberPrefix string) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		partRepo:     partRepo,
		node:         node,
		numberPrefix: numberPrefix,
	}
}

// CreateDraft starts a fresh empty draft, superseding any current one. Each
// draft consumes the next counter value even if it is later abandoned, so
// numbers are strictly increasing but may have gaps.
func (s *InvoiceService) CreateDraft(ctx context.Context) (*entity.Invoice, error) {
	seq, err := s.invoiceRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	draft := &entity.Invoice{
		ID:            s.node.Generate().Int64(),
		InvoiceNumber: fmt.Sprintf("%s%07d", s.numberPrefix, seq),
		Date:          time.Now().Format("2006-01-02"),
		Status:        enum.InvoiceStatusDraft,
		Items:         []entity.InvoiceItem{},
	}
	if err := s.invoiceRepo.ReplaceDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft returns the current draft, creating one if none exists
func (s *InvoiceService) GetDraft(ctx context.Context) (*entity.Invoice, error) {
	draft, err := s.invoiceRepo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return s.CreateDraft(ctx)
	}
	return draft, nil
}

// UpdateDraftInput carries the editable header fields of the draft
type UpdateDraftInput struct {
	CustomerName  *string
	CustomerPhone *string
	Date          *string
}

// UpdateDraft updates the draft's customer details and date
func (s *InvoiceService) UpdateDraft(ctx context.Context, input *UpdateDraftInput) (*entity.Invoice, error) {
	draft, err := s.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		draft.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		draft.CustomerPhone = *input.CustomerPhone
	}
	if input.Date != nil {
		draft.Date = *input.Date
	}

	if err := s.invoiceRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddFromStock puts quantity units of an inventory part on the draft. The
// unit price is snapshotted from the part's current sell price. Adding the
// same part again raises the existing line instead of creating a second one,
// and the check is against the cumulative quantity: the draft can never ask
// for more units than the shelf holds right now.
func (s *InvoiceService) AddFromStock(ctx context.Context, partID uint, quantity int) (*entity.Invoice, error) {
	if quantity < 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be at least 1"},
		})
	}

	draft, err := s.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	part, err := s.partRepo.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, apperror.NewNotFoundError("Part")
	}

	lineIdx := -1
	for i := range draft.Items {
		item := &draft.Items[i]
		if item.Source == enum.ItemSourceInventory && item.PartID != nil && *item.PartID == partID {
			lineIdx = i
			break
		}
	}

	cumulative := quantity
	if lineIdx >= 0 {
		cumulative += draft.Items[lineIdx].Quantity
	}
	if cumulative > part.Quantity {
		return nil, apperror.NewInsufficientStockError(part.PartName, cumulative, part.Quantity)
	}

	if lineIdx >= 0 {
		draft.Items[lineIdx].Quantity = cumulative
	} else {
		partID := partID
		draft.Items = append(draft.Items, entity.InvoiceItem{
			Source:      enum.ItemSourceInventory,
			PartID:      &partID,
			Code:        part.ProductCode,
			Description: part.PartName,
			CarModel:    part.CarModel,
			UnitPrice:   part.SellPrice,
			Quantity:    quantity,
		})
	}

	draft.RecomputeTotals()
	if err := s.invoiceRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddManualInput describes a free-form line not backed by inventory
type AddManualInput struct {
	Description string
	UnitPrice   float64
	Quantity    int
}

// AddManual appends a free-form line to the draft. Manual lines never merge,
// even with identical descriptions.
func (s *InvoiceService) AddManual(ctx context.Context, input *AddManualInput) (*entity.Invoice, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Description) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "Description is required"})
	}
	if input.UnitPrice <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "Unit price must be positive"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	draft, err := s.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	draft.Items = append(draft.Items, entity.InvoiceItem{
		Source:      enum.ItemSourceManual,
		Description: input.Description,
		UnitPrice:   int64(math.Round(input.UnitPrice * 100)),
		Quantity:    quantity,
	})

	draft.RecomputeTotals()
	if err := s.invoiceRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// RemoveLine deletes the line at the given position from the draft
func (s *InvoiceService) RemoveLine(ctx context.Context, index int) (*entity.Invoice, error) {
	draft, err := s.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(draft.Items) {
		return nil, apperror.NewBadRequestError("Line index out of range")
	}

	draft.Items = append(draft.Items[:index], draft.Items[index+1:]...)
	draft.RecomputeTotals()
	if err := s.invoiceRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Commit finalizes the draft: totals are recomputed, then stock decrements
// for every inventory-backed line (each floored at zero if the shelf count
// moved since the line was added) and the archive write land in one
// transaction. A fresh empty draft takes the archived invoice's place and
// the archived invoice is returned.
func (s *InvoiceService) Commit(ctx context.Context) (*entity.Invoice, error) {
	draft, err := s.invoiceRepo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperror.NewBadRequestError("There is no draft invoice to commit")
	}

	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(draft.CustomerName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "Customer name is required"})
	}
	if len(draft.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "Invoice must have at least one line"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	draft.RecomputeTotals()

	var decrements []repository.StockDecrement
	for i := range draft.Items {
		item := &draft.Items[i]
		if item.Source == enum.ItemSourceInventory && item.PartID != nil {
			decrements = append(decrements, repository.StockDecrement{
				PartID:   *item.PartID,
				Quantity: item.Quantity,
			})
		}
	}

	now := time.Now()
	draft.Status = enum.InvoiceStatusArchived
	draft.CommittedAt = &now
	if err := s.invoiceRepo.Commit(ctx, draft, decrements); err != nil {
		return nil, err
	}

	if _, err := s.CreateDraft(ctx); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetInvoice retrieves any invoice, draft or archived, by id
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListHistory lists archived invoices, most recently committed first
func (s *InvoiceService) ListHistory(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.ListArchived(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// DeleteFromHistory removes an archived invoice. Stock is not restored and
// the counter does not move back; the number is simply retired.
func (s *InvoiceService) DeleteFromHistory(ctx context.Context, id int64) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.InvoiceStatusArchived {
		return apperror.NewBadRequestError("Only archived invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}
