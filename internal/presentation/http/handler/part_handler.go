package handler

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/eraycetin/autoparts-api/internal/application/service"
	"github.com/eraycetin/autoparts-api/internal/domain/repository"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/dto/request"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/dto/response"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
	"github.com/eraycetin/autoparts-api/pkg/qrlabel"
)

// PartHandler handles part-related HTTP requests
type PartHandler struct {
	inventoryService *service.InventoryService
}

// NewPartHandler creates a new part handler
func NewPartHandler(inventoryService *service.InventoryService) *PartHandler {
	return &PartHandler{inventoryService: inventoryService}
}

// List handles listing parts with search and filters
func (h *PartHandler) List(c *gin.Context) {
	var filter request.PartFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PartFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Company:   filter.Company,
		CarModel:  filter.CarModel,
		ModelYear: filter.ModelYear,
	}

	result, err := h.inventoryService.ListParts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Parts retrieved successfully", result)
}

func toPartInput(req *request.CreatePartRequest) *service.PartInput {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	return &service.PartInput{
		Company:     req.Company,
		ProductCode: req.ProductCode,
		PartName:    req.PartName,
		CarModel:    req.CarModel,
		ModelYear:   req.ModelYear,
		Quantity:    quantity,
		BuyPrice:    req.BuyPrice,
		SellPrice:   req.SellPrice,
	}
}

// Create handles creating a part. A duplicate product code answers 409 with
// both the existing part and the rejected candidate so the client can offer
// the keep-both or edit-existing choice.
func (h *PartHandler) Create(c *gin.Context) {
	var req request.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.inventoryService.CreatePart(c.Request.Context(), toPartInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Duplicate {
		response.Conflict(c, "Product code already exists", result)
		return
	}

	response.Created(c, "Part created successfully", result.Part)
}

// ResolveNew handles persisting a duplicate candidate as a separate part
func (h *PartHandler) ResolveNew(c *gin.Context) {
	var req request.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	part, err := h.inventoryService.ResolveAsNew(c.Request.Context(), toPartInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Part created successfully", part)
}

// GetByCode handles looking up the part carrying a product code, backing the
// edit-existing resolution of a duplicate
func (h *PartHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Product code is required")
		return
	}

	part, err := h.inventoryService.ResolveAsEdit(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Part retrieved successfully", part)
}

// Get handles getting a single part
func (h *PartHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid part id")
		return
	}

	part, err := h.inventoryService.GetPart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Part retrieved successfully", part)
}

// Update handles updating a part
func (h *PartHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid part id")
		return
	}

	var req request.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	part, err := h.inventoryService.UpdatePart(c.Request.Context(), id, &service.UpdatePartInput{
		Company:     req.Company,
		ProductCode: req.ProductCode,
		PartName:    req.PartName,
		CarModel:    req.CarModel,
		ModelYear:   req.ModelYear,
		Quantity:    req.Quantity,
		BuyPrice:    req.BuyPrice,
		SellPrice:   req.SellPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Part updated successfully", part)
}

// Delete handles deleting a part
func (h *PartHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid part id")
		return
	}

	if err := h.inventoryService.DeletePart(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Part deleted successfully", nil)
}

// Aggregates handles the inventory totals
func (h *PartHandler) Aggregates(c *gin.Context) {
	agg, err := h.inventoryService.Aggregates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aggregates retrieved successfully", agg)
}

// ExportCSV streams the whole inventory as a CSV download
func (h *PartHandler) ExportCSV(c *gin.Context) {
	data, err := h.inventoryService.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="parts.csv"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}

// ImportTemplate serves a CSV template with the expected columns
func (h *PartHandler) ImportTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="parts_template.csv"`)
	c.Data(200, "text/csv; charset=utf-8", h.inventoryService.TemplateCSV())
}

// ImportCSV loads parts from CSV text in the request body
func (h *PartHandler) ImportCSV(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	result, err := h.inventoryService.ImportCSV(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import completed", result)
}

// Label serves a part's identification label. With format=png the payload is
// rendered as a QR code; if rendering fails, or with format=text, the plain
// payload string is served instead so the label can still be printed.
func (h *PartHandler) Label(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid part id")
		return
	}

	part, err := h.inventoryService.GetPart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := qrlabel.Payload(part.ProductCode, part.PartName, part.CarModel, part.ModelYear, part.GetSellPriceDecimal())

	if c.DefaultQuery("format", "png") == "png" {
		if png, err := qrlabel.Render(payload, qrlabel.DefaultSize); err == nil {
			c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="label_%d.png"`, part.ID))
			c.Data(200, "image/png", png)
			return
		}
	}

	c.Data(200, "text/plain; charset=utf-8", []byte(payload))
}
