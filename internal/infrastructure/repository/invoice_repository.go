package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/internal/domain/enum"
	domainRepo "github.com/eraycetin/autoparts-api/internal/domain/repository"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) ReplaceDraft(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staleIDs []int64
		if err := tx.Model(&entity.Invoice{}).
			Where("status = ?", enum.InvoiceStatusDraft).
			Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		if len(staleIDs) > 0 {
			if err := tx.Where("invoice_id IN ?", staleIDs).Delete(&entity.InvoiceItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", staleIDs).Delete(&entity.Invoice{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(invoice).Error
	})
}

func (r *invoiceRepository) GetDraft(ctx context.Context) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id ASC") }).
		First(&invoice, "status = ?", enum.InvoiceStatusDraft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// Save rewrites the invoice row and its line items. Item rows are replaced
// wholesale; at shop scale this is simpler and safer than diffing.
func (r *invoiceRepository) Save(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoice(tx, invoice)
	})
}

func saveInvoice(tx *gorm.DB, invoice *entity.Invoice) error {
	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := tx.Omit("Items").Save(invoice).Error; err != nil {
		return err
	}
	for i := range invoice.Items {
		invoice.Items[i].ID = 0
		invoice.Items[i].InvoiceID = invoice.ID
	}
	if len(invoice.Items) > 0 {
		if err := tx.Create(&invoice.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Commit applies the stock decrements and archives the invoice in a single
// transaction. Each decrement clamps at zero in SQL so a commit can never
// drive stock negative; a failure anywhere rolls everything back.
func (r *invoiceRepository) Commit(ctx context.Context, invoice *entity.Invoice, decrements []domainRepo.StockDecrement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dec := range decrements {
			err := tx.Model(&entity.Part{}).
				Where("id = ?", dec.PartID).
				Update("quantity", gorm.Expr("CASE WHEN quantity >= ? THEN quantity - ? ELSE 0 END", dec.Quantity, dec.Quantity)).Error
			if err != nil {
				return err
			}
		}
		return saveInvoice(tx, invoice)
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id ASC") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}

func (r *invoiceRepository) ListArchived(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("status = ?", enum.InvoiceStatusArchived)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("committed_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ArchivedStats(ctx context.Context) (*domainRepo.ArchivedInvoiceStats, error) {
	stats := &domainRepo.ArchivedInvoiceStats{}
	row := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("status = ?", enum.InvoiceStatusArchived).
		Select("COUNT(*), COALESCE(SUM(grand_total), 0)").
		Row()
	if err := row.Scan(&stats.Count, &stats.Revenue); err != nil {
		return nil, err
	}
	return stats, nil
}

// NextSequence increments the persistent counter and returns the new value.
// A missing counter row is seeded from the highest sequence found in the
// archived history, so restoring a backup without the counter row keeps
// numbers unique.
func (r *invoiceRepository) NextSequence(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter entity.InvoiceCounter
		err := tx.First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seed, serr := maxArchivedSequence(tx)
			if serr != nil {
				return serr
			}
			counter = entity.InvoiceCounter{ID: 1, Value: seed}
			if cerr := tx.Create(&counter).Error; cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		}

		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		next = counter.Value
		return nil
	})
	return next, err
}

func maxArchivedSequence(tx *gorm.DB) (uint64, error) {
	var numbers []string
	if err := tx.Model(&entity.Invoice{}).Pluck("invoice_number", &numbers).Error; err != nil {
		return 0, err
	}
	var max uint64
	for _, n := range numbers {
		if seq := parseSequence(n); seq > max {
			max = seq
		}
	}
	return max, nil
}

// parseSequence extracts the trailing digit run of an invoice number
// ("INV-0000012" -> 12). Numbers without one count as zero.
func parseSequence(number string) uint64 {
	i := len(number)
	for i > 0 && number[i-1] >= '0' && number[i-1] <= '9' {
		i--
	}
	if i == len(number) {
		return 0
	}
	seq, err := strconv.ParseUint(number[i:], 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
