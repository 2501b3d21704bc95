package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/internal/domain/repository"
	"github.com/eraycetin/autoparts-api/pkg/apperror"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

// InventoryService handles part-related operations
type InventoryService struct {
	partRepo          repository.PartRepository
	lowStockThreshold int
}

// NewInventoryService creates a new inventory service
func NewInventoryService(partRepo repository.PartRepository, lowStockThreshold int) *InventoryService {
	return &InventoryService{
		partRepo:          partRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// PartInput represents the fields of a part as entered in the add/edit form
type PartInput struct {
	Company     string
	ProductCode string
	PartName    string
	CarModel    string
	ModelYear   string
	Quantity    int
	BuyPrice    float64
	SellPrice   float64
}

// CreatePartResult is the outcome of a create attempt. A duplicate product
// code is not an error: the caller gets both the existing part and the
// unpersisted candidate and must resolve the collision explicitly.
type CreatePartResult struct {
	Part      *entity.Part `json:"part,omitempty"`
	Duplicate bool         `json:"duplicate"`
	Existing  *entity.Part `json:"existing,omitempty"`
	Candidate *entity.Part `json:"candidate,omitempty"`
}

func validatePartInput(input *PartInput) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.ProductCode) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_code", Message: "Product code is required"})
	}
	if strings.TrimSpace(input.PartName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "part_name", Message: "Part name is required"})
	}
	if input.SellPrice < input.BuyPrice {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sell_price", Message: "Sell price cannot be below buy price"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func buildPart(input *PartInput) *entity.Part {
	quantity := input.Quantity
	if quantity < 0 {
		quantity = 1
	}
	part := &entity.Part{
		Company:     input.Company,
		ProductCode: input.ProductCode,
		PartName:    input.PartName,
		CarModel:    input.CarModel,
		ModelYear:   input.ModelYear,
		Quantity:    quantity,
	}
	part.SetBuyPriceFromDecimal(input.BuyPrice)
	part.SetSellPriceFromDecimal(input.SellPrice)
	return part
}

// CreatePart validates the input and creates the part, unless another part
// already carries the same product code. In that case nothing is persisted
// and the result routes the caller to ResolveAsNew or ResolveAsEdit.
func (s *InventoryService) CreatePart(ctx context.Context, input *PartInput) (*CreatePartResult, error) {
	if err := validatePartInput(input); err != nil {
		return nil, err
	}

	existing, err := s.partRepo.GetByCode(ctx, input.ProductCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreatePartResult{
			Duplicate: true,
			Existing:  existing,
			Candidate: buildPart(input),
		}, nil
	}

	part := buildPart(input)
	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, err
	}
	return &CreatePartResult{Part: part}, nil
}

// ResolveAsNew persists a duplicate candidate under a fresh id. The same
// product code recurring across distinct parts is a legitimate outcome here.
func (s *InventoryService) ResolveAsNew(ctx context.Context, input *PartInput) (*entity.Part, error) {
	if err := validatePartInput(input); err != nil {
		return nil, err
	}
	part := buildPart(input)
	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// ResolveAsEdit hands the existing part with the colliding code to the
// caller's edit flow.
func (s *InventoryService) ResolveAsEdit(ctx context.Context, productCode string) (*entity.Part, error) {
	part, err := s.partRepo.GetByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, apperror.NewNotFoundError("Part")
	}
	return part, nil
}

// GetPart retrieves a part by id
func (s *InventoryService) GetPart(ctx context.Context, id uint) (*entity.Part, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, apperror.NewNotFoundError("Part")
	}
	return part, nil
}

// UpdatePartInput represents a partial update of a part
type UpdatePartInput struct {
	Company     *string
	ProductCode *string
	PartName    *string
	CarModel    *string
	ModelYear   *string
	Quantity    *int
	BuyPrice    *float64
	SellPrice   *float64
}

// UpdatePart replaces the given fields in place. The price relation is
// re-checked against the merged result; a rejected update leaves the stored
// part untouched.
func (s *InventoryService) UpdatePart(ctx context.Context, id uint, input *UpdatePartInput) (*entity.Part, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, apperror.NewNotFoundError("Part")
	}

	buyPrice := part.BuyPrice
	sellPrice := part.SellPrice
	if input.BuyPrice != nil {
		buyPrice = int64(math.Round(*input.BuyPrice * 100))
	}
	if input.SellPrice != nil {
		sellPrice = int64(math.Round(*input.SellPrice * 100))
	}
	if sellPrice < buyPrice {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "sell_price", Message: "Sell price cannot be below buy price"},
		})
	}

	if input.Company != nil {
		part.Company = *input.Company
	}
	if input.ProductCode != nil && strings.TrimSpace(*input.ProductCode) != "" {
		part.ProductCode = *input.ProductCode
	}
	if input.PartName != nil && strings.TrimSpace(*input.PartName) != "" {
		part.PartName = *input.PartName
	}
	if input.CarModel != nil {
		part.CarModel = *input.CarModel
	}
	if input.ModelYear != nil {
		part.ModelYear = *input.ModelYear
	}
	if input.Quantity != nil && *input.Quantity >= 0 {
		part.Quantity = *input.Quantity
	}
	part.BuyPrice = buyPrice
	part.SellPrice = sellPrice

	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// DeletePart removes a part by id. Deleting an id that is already gone is a
// no-op, not an error.
func (s *InventoryService) DeletePart(ctx context.Context, id uint) error {
	return s.partRepo.Delete(ctx, id)
}

// ListParts lists parts with filtering, in insertion order
func (s *InventoryService) ListParts(ctx context.Context, params *repository.PartFilterParams) (*pagination.PaginatedResult[entity.Part], error) {
	parts, total, err := s.partRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(parts, pag), nil
}

// InventoryAggregates holds the derived inventory totals with decimal amounts
type InventoryAggregates struct {
	TotalItems    int64   `json:"total_items"`
	TotalCost     float64 `json:"total_cost"`
	TotalProfit   float64 `json:"total_profit"`
	LowStockCount int64   `json:"low_stock_count"`
}

// Aggregates recomputes the inventory totals on demand
func (s *InventoryService) Aggregates(ctx context.Context) (*InventoryAggregates, error) {
	agg, err := s.partRepo.Aggregates(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &InventoryAggregates{
		TotalItems:    agg.TotalItems,
		TotalCost:     float64(agg.TotalCost) / 100,
		TotalProfit:   float64(agg.TotalProfit) / 100,
		LowStockCount: agg.LowStock,
	}, nil
}

// LowStockThreshold returns the configured low-stock cutoff
func (s *InventoryService) LowStockThreshold() int {
	return s.lowStockThreshold
}

var csvHeader = []string{"company", "productCode", "partName", "carModel", "modelYear", "quantity", "buyPrice", "sellPrice"}

// csvBOM is prepended to exports so spreadsheet apps pick up UTF-8.
const csvBOM = "\uFEFF"

func formatPrice(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
}

// ExportCSV renders the whole inventory in storage order: a header row, then
// one row per part with string fields quoted and numeric fields bare.
func (s *InventoryService) ExportCSV(ctx context.Context) ([]byte, error) {
	parts, err := s.partRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(csvBOM)
	b.WriteString(strings.Join(csvHeader, ","))
	for i := range parts {
		p := &parts[i]
		b.WriteString("\n")
		b.WriteString(strings.Join([]string{
			`"` + p.Company + `"`,
			`"` + p.ProductCode + `"`,
			`"` + p.PartName + `"`,
			`"` + p.CarModel + `"`,
			`"` + p.ModelYear + `"`,
			strconv.Itoa(p.Quantity),
			formatPrice(p.BuyPrice),
			formatPrice(p.SellPrice),
		}, ","))
	}
	return []byte(b.String()), nil
}

// TemplateCSV returns an import template with one example row
func (s *InventoryService) TemplateCSV() []byte {
	example := []string{"Toyota", "TYT-2023-BRK", "Brake Pad", "Camry", "2023", "10", "25.50", "45.99"}
	return []byte(csvBOM + strings.Join(csvHeader, ",") + "\n" + strings.Join(example, ","))
}

// ImportResult contains the result of a CSV import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// partPatch is the parsed form of one CSV row: only columns present in the
// file carry a value, so merging into an existing part touches nothing else.
type partPatch struct {
	Company     *string
	ProductCode string
	PartName    string
	CarModel    *string
	ModelYear   *string
	Quantity    *int
	BuyPrice    *int64
	SellPrice   *int64
}

// unquoteField trims whitespace and a surrounding pair of double quotes, the
// inverse of the export quoting. There is no escape handling: a comma inside
// a quoted field corrupts the split. This is a documented format limitation.
func unquoteField(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return v
}

func parseRow(headers, values []string) *partPatch {
	record := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			record[h] = unquoteField(values[i])
		} else {
			record[h] = ""
		}
	}

	patch := &partPatch{
		ProductCode: record["productCode"],
		PartName:    record["partName"],
	}
	if v, ok := record["company"]; ok {
		patch.Company = &v
	}
	if v, ok := record["carModel"]; ok {
		patch.CarModel = &v
	}
	if v, ok := record["modelYear"]; ok {
		patch.ModelYear = &v
	}
	if v, ok := record["quantity"]; ok {
		quantity, err := strconv.Atoi(v)
		if err != nil || quantity < 0 {
			quantity = 1
		}
		patch.Quantity = &quantity
	}
	if v, ok := record["buyPrice"]; ok {
		patch.BuyPrice = parsePriceCents(v)
	}
	if v, ok := record["sellPrice"]; ok {
		patch.SellPrice = parsePriceCents(v)
	}
	return patch
}

func parsePriceCents(v string) *int64 {
	price, err := strconv.ParseFloat(v, 64)
	if err != nil || price < 0 {
		price = 0
	}
	cents := int64(math.Round(price * 100))
	return &cents
}

func (p *partPatch) applyTo(part *entity.Part) {
	part.ProductCode = p.ProductCode
	part.PartName = p.PartName
	if p.Company != nil {
		part.Company = *p.Company
	}
	if p.CarModel != nil {
		part.CarModel = *p.CarModel
	}
	if p.ModelYear != nil {
		part.ModelYear = *p.ModelYear
	}
	if p.Quantity != nil {
		part.Quantity = *p.Quantity
	}
	if p.BuyPrice != nil {
		part.BuyPrice = *p.BuyPrice
	}
	if p.SellPrice != nil {
		part.SellPrice = *p.SellPrice
	}
}

// ImportCSV loads parts from CSV text. Columns are mapped by header name, so
// column order does not matter. Rows missing a product code or part name are
// reported with their 1-based data row number and skipped; a row whose code
// matches an existing part overwrites that part's fields in place (no price
// validation on import), any other row becomes a new part. Valid rows commit
// regardless of how many others fail.
func (s *InventoryService) ImportCSV(ctx context.Context, data []byte) (*ImportResult, error) {
	content := strings.TrimPrefix(string(data), csvBOM)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, apperror.NewBadRequestError("Import file is empty")
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	result := &ImportResult{TotalRows: len(lines) - 1}

	for i := 1; i < len(lines); i++ {
		patch := parseRow(headers, strings.Split(lines[i], ","))

		if patch.ProductCode == "" || patch.PartName == "" {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     i,
				Field:   "productCode",
				Message: "Missing required fields",
			})
			continue
		}

		existing, err := s.partRepo.GetByCode(ctx, patch.ProductCode)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: i, Message: "Error checking code: " + err.Error()})
			continue
		}

		if existing != nil {
			patch.applyTo(existing)
			if err := s.partRepo.Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: i, Message: "Failed to update part: " + err.Error()})
				continue
			}
		} else {
			part := &entity.Part{Quantity: 1}
			patch.applyTo(part)
			if err := s.partRepo.Create(ctx, part); err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: i, Message: "Failed to create part: " + err.Error()})
				continue
			}
		}
		result.Successful++
	}

	result.Failed = len(result.Errors)
	return result, nil
}
