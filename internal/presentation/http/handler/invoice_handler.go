package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eraycetin/autoparts-api/internal/application/service"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/dto/request"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/dto/response"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// GetDraft handles fetching the working draft, creating one if needed
func (h *InvoiceHandler) GetDraft(c *gin.Context) {
	draft, err := h.invoiceService.GetDraft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft retrieved successfully", draft)
}

// NewDraft handles discarding the current draft and starting a fresh one
func (h *InvoiceHandler) NewDraft(c *gin.Context) {
	draft, err := h.invoiceService.CreateDraft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft created successfully", draft)
}

// UpdateDraft handles updating the draft's customer details and date
func (h *InvoiceHandler) UpdateDraft(c *gin.Context) {
	var req request.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.invoiceService.UpdateDraft(c.Request.Context(), &service.UpdateDraftInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft updated successfully", draft)
}

// AddStockItem handles adding an inventory-backed line to the draft
func (h *InvoiceHandler) AddStockItem(c *gin.Context) {
	var req request.AddStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.invoiceService.AddFromStock(c.Request.Context(), req.PartID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added successfully", draft)
}

// AddManualItem handles adding a free-form line to the draft
func (h *InvoiceHandler) AddManualItem(c *gin.Context) {
	var req request.AddManualItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.invoiceService.AddManual(c.Request.Context(), &service.AddManualInput{
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added successfully", draft)
}

// RemoveItem handles removing the draft line at a position
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	index, ok := parseInt64Param(c, "index")
	if !ok || index < 0 {
		response.BadRequest(c, "Invalid line index")
		return
	}

	draft, err := h.invoiceService.RemoveLine(c.Request.Context(), int(index))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", draft)
}

// Commit handles finalizing the draft into the archive
func (h *InvoiceHandler) Commit(c *gin.Context) {
	archived, err := h.invoiceService.Commit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice committed successfully", archived)
}

// List handles listing archived invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.invoiceService.ListHistory(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", result)
}

// Get handles fetching a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Delete handles removing an archived invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice id")
		return
	}

	if err := h.invoiceService.DeleteFromHistory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}
