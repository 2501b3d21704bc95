package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eraycetin/autoparts-api/internal/application/service"
	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	infrarepo "github.com/eraycetin/autoparts-api/internal/infrastructure/repository"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/middleware"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

type invoiceFixture struct {
	router    *gin.Engine
	invoices  *service.InvoiceService
	inventory *service.InventoryService
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handlerDBCounter++
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", handlerDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Part{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceCounter{},
		&entity.IdempotencyKey{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	partRepo := infrarepo.NewPartRepository(db)
	invoiceRepo := infrarepo.NewInvoiceRepository(db)

	inventory := service.NewInventoryService(partRepo, 2)
	invoices := service.NewInvoiceService(invoiceRepo, partRepo, node, "INV-")
	h := NewInvoiceHandler(invoices)

	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: infrarepo.NewIdempotencyRepository(db),
	})

	router := gin.New()
	group := router.Group("/api/v1/invoices")
	group.GET("/draft", h.GetDraft)
	group.POST("/draft/commit", idempotency, h.Commit)
	return &invoiceFixture{router: router, invoices: invoices, inventory: inventory}
}

func (f *invoiceFixture) commit(t *testing.T, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/draft/commit", nil)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func invoiceNumberOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.InvoiceNumber
}

func TestCommitRetryWithIdempotencyKeyDoesNotDoubleDecrement(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.inventory.CreatePart(ctx, &service.PartInput{
		Company:     "Toyota",
		ProductCode: "TYT-2023-BRK",
		PartName:    "Brake Pad",
		CarModel:    "Camry",
		ModelYear:   "2023",
		Quantity:    10,
		BuyPrice:    25.50,
		SellPrice:   45.99,
	})
	require.NoError(t, err)

	_, err = f.invoices.AddFromStock(ctx, created.Part.ID, 2)
	require.NoError(t, err)
	name := "Ali Veli"
	_, err = f.invoices.UpdateDraft(ctx, &service.UpdateDraftInput{CustomerName: &name})
	require.NoError(t, err)

	first := f.commit(t, "commit-abc123")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	part, err := f.inventory.GetPart(ctx, created.Part.ID)
	require.NoError(t, err)
	require.Equal(t, 8, part.Quantity)

	// a retried commit with the same key replays the stored response
	// instead of committing the fresh draft
	second := f.commit(t, "commit-abc123")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, invoiceNumberOf(t, first), invoiceNumberOf(t, second))

	// stock was not decremented again and no second invoice was archived
	part, err = f.inventory.GetPart(ctx, created.Part.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, part.Quantity)

	history, err := f.invoices.ListHistory(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Len(t, history.Items, 1)
}

func TestCommitRetryWithoutKeyCommitsEmptyDraftError(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := f.inventory.CreatePart(ctx, &service.PartInput{
		ProductCode: "HND-OIL",
		PartName:    "Oil Filter",
		Quantity:    5,
		BuyPrice:    5,
		SellPrice:   9,
	})
	require.NoError(t, err)

	_, err = f.invoices.AddFromStock(ctx, created.Part.ID, 1)
	require.NoError(t, err)
	name := "Walk-in"
	_, err = f.invoices.UpdateDraft(ctx, &service.UpdateDraftInput{CustomerName: &name})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, f.commit(t, "").Code)

	// without a key the retry reaches the handler and fails on the fresh
	// empty draft rather than silently double-committing
	retry := f.commit(t, "")
	assert.Equal(t, http.StatusUnprocessableEntity, retry.Code)
}
