package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	domainRepo "github.com/eraycetin/autoparts-api/internal/domain/repository"
	"gorm.io/gorm"
)

type partRepository struct {
	db *gorm.DB
}

// NewPartRepository creates a new part repository
func NewPartRepository(db *gorm.DB) domainRepo.PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *partRepository) GetByID(ctx context.Context, id uint) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &part, err
}

func (r *partRepository) GetByCode(ctx context.Context, code string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).First(&part, "product_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &part, err
}

func (r *partRepository) Update(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *partRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Part{}, "id = ?", id).Error
}

func (r *partRepository) List(ctx context.Context, params *domainRepo.PartFilterParams) ([]entity.Part, int64, error) {
	var parts []entity.Part
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Part{})

	if params.Search != "" {
		// LOWER + LIKE works identically on sqlite and postgres
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(part_name) LIKE ? OR LOWER(car_model) LIKE ? OR LOWER(model_year) LIKE ? OR LOWER(company) LIKE ? OR LOWER(product_code) LIKE ?",
			term, term, term, term, term)
	}

	if params.Company != "" {
		query = query.Where("company = ?", params.Company)
	}
	if params.CarModel != "" {
		query = query.Where("car_model = ?", params.CarModel)
	}
	if params.ModelYear != "" {
		query = query.Where("model_year = ?", params.ModelYear)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("id ASC").
		Find(&parts).Error

	return parts, total, err
}

func (r *partRepository) ListAll(ctx context.Context) ([]entity.Part, error) {
	var parts []entity.Part
	err := r.db.WithContext(ctx).Order("id ASC").Find(&parts).Error
	return parts, err
}

func (r *partRepository) Aggregates(ctx context.Context, lowStockThreshold int) (*domainRepo.PartAggregates, error) {
	agg := &domainRepo.PartAggregates{}

	row := r.db.WithContext(ctx).Model(&entity.Part{}).
		Select("COUNT(*), COALESCE(SUM(buy_price), 0), COALESCE(SUM(sell_price - buy_price), 0)").
		Row()
	if err := row.Scan(&agg.TotalItems, &agg.TotalCost, &agg.TotalProfit); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Model(&entity.Part{}).
		Where("quantity <= ?", lowStockThreshold).
		Count(&agg.LowStock).Error
	if err != nil {
		return nil, err
	}

	return agg, nil
}

