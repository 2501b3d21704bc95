package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	"github.com/eraycetin/autoparts-api/internal/domain/enum"
	"github.com/eraycetin/autoparts-api/internal/domain/repository"
	infrarepo "github.com/eraycetin/autoparts-api/internal/infrastructure/repository"
	"github.com/eraycetin/autoparts-api/pkg/apperror"
	"github.com/eraycetin/autoparts-api/pkg/pagination"
)

func seedPart(t *testing.T, inventory *InventoryService, quantity int) *entity.Part {
	t.Helper()
	input := brakePadInput()
	input.Quantity = quantity
	result, err := inventory.CreatePart(context.Background(), input)
	require.NoError(t, err)
	return result.Part
}

func TestGetDraftAutoCreates(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-0000001", draft.InvoiceNumber)
	assert.Equal(t, enum.InvoiceStatusDraft, draft.Status)
	assert.Empty(t, draft.Items)

	// a second call returns the same draft rather than a new one
	again, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, again.ID)
}

func TestInvoiceNumbersStrictlyIncrease(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-0000001", first.InvoiceNumber)

	// abandoning a draft burns its number
	second, err := svc.CreateDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-0000002", second.InvoiceNumber)
}

func TestCounterSeededFromHistory(t *testing.T) {
	svc, _, db := newInvoiceService(t)
	ctx := context.Background()

	// pre-existing archived invoice with a high sequence, no counter row
	now := time.Now()
	archived := &entity.Invoice{
		ID:            1,
		InvoiceNumber: "INV-0000041",
		CustomerName:  "Walk-in",
		Status:        enum.InvoiceStatusArchived,
		CommittedAt:   &now,
	}
	require.NoError(t, db.Create(archived).Error)

	draft, err := svc.CreateDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-0000042", draft.InvoiceNumber)
}

func TestAddFromStockSnapshotsAndMerges(t *testing.T) {
	svc, inventory, _ := newInvoiceService(t)
	ctx := context.Background()
	part := seedPart(t, inventory, 10)

	draft, err := svc.AddFromStock(ctx, part.ID, 2)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)

	item := draft.Items[0]
	assert.Equal(t, enum.ItemSourceInventory, item.Source)
	assert.Equal(t, "TYT-2023-BRK", item.Code)
	assert.Equal(t, "Brake Pad", item.Description)
	assert.Equal(t, "Camry", item.CarModel)
	assert.Equal(t, int64(4599), item.UnitPrice)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, int64(9198), item.Total)
	assert.Equal(t, int64(9198), draft.Subtotal)
	assert.Equal(t, int64(9198), draft.GrandTotal)

	// same part again raises the line instead of adding a second one
	draft, err = svc.AddFromStock(ctx, part.ID, 3)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 5, draft.Items[0].Quantity)
}

func TestAddFromStockCumulativeStockCheck(t *testing.T) {
	svc, inventory, _ := newInvoiceService(t)
	ctx := context.Background()
	part := seedPart(t, inventory, 5)

	_, err := svc.AddFromStock(ctx, part.ID, 4)
	require.NoError(t, err)

	// 4 on the draft + 2 more would exceed the 5 on the shelf
	_, err = svc.AddFromStock(ctx, part.ID, 2)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = svc.AddFromStock(ctx, part.ID, 1)
	require.NoError(t, err)
}

func TestAddFromStockUnknownPart(t *testing.T) {
	svc, _, _ := newInvoiceService(t)

	_, err := svc.AddFromStock(context.Background(), 9999, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestAddManualNeverMerges(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	input := &AddManualInput{Description: "Labor", UnitPrice: 30, Quantity: 1}
	_, err := svc.AddManual(ctx, input)
	require.NoError(t, err)

	draft, err := svc.AddManual(ctx, input)
	require.NoError(t, err)
	assert.Len(t, draft.Items, 2)
	assert.Equal(t, int64(6000), draft.GrandTotal)
}

func TestAddManualValidation(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	_, err := svc.AddManual(ctx, &AddManualInput{Description: "  ", UnitPrice: 30})
	require.Error(t, err)

	_, err = svc.AddManual(ctx, &AddManualInput{Description: "Labor", UnitPrice: 0})
	require.Error(t, err)

	// quantity defaults to 1, price lands on the exact cent
	draft, err := svc.AddManual(ctx, &AddManualInput{Description: "Labor", UnitPrice: 19.99})
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Items[0].Quantity)
	assert.Equal(t, int64(1999), draft.Items[0].UnitPrice)
}

func TestRemoveLine(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	_, err := svc.AddManual(ctx, &AddManualInput{Description: "First", UnitPrice: 10})
	require.NoError(t, err)
	_, err = svc.AddManual(ctx, &AddManualInput{Description: "Second", UnitPrice: 20})
	require.NoError(t, err)

	draft, err := svc.RemoveLine(ctx, 0)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "Second", draft.Items[0].Description)
	assert.Equal(t, int64(2000), draft.GrandTotal)

	_, err = svc.RemoveLine(ctx, 5)
	require.Error(t, err)
}

func TestCommitArchivesAndDecrementsStock(t *testing.T) {
	svc, inventory, _ := newInvoiceService(t)
	ctx := context.Background()
	part := seedPart(t, inventory, 10)

	_, err := svc.AddFromStock(ctx, part.ID, 2)
	require.NoError(t, err)

	name := "Ali Veli"
	_, err = svc.UpdateDraft(ctx, &UpdateDraftInput{CustomerName: &name})
	require.NoError(t, err)

	archived, err := svc.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusArchived, archived.Status)
	assert.NotNil(t, archived.CommittedAt)
	assert.Equal(t, "INV-0000001", archived.InvoiceNumber)
	assert.Equal(t, int64(9198), archived.GrandTotal)

	updated, err := inventory.GetPart(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)

	// committing leaves a fresh empty draft with the next number
	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, archived.ID, draft.ID)
	assert.Equal(t, "INV-0000002", draft.InvoiceNumber)
	assert.Empty(t, draft.Items)

	history, err := svc.ListHistory(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, archived.ID, history.Items[0].ID)
}

func TestCommitClampsStockAtZero(t *testing.T) {
	svc, inventory, _ := newInvoiceService(t)
	ctx := context.Background()
	part := seedPart(t, inventory, 5)

	_, err := svc.AddFromStock(ctx, part.ID, 4)
	require.NoError(t, err)

	// stock shrinks after the line was added
	quantity := 3
	_, err = inventory.UpdatePart(ctx, part.ID, &UpdatePartInput{Quantity: &quantity})
	require.NoError(t, err)

	name := "Ali Veli"
	_, err = svc.UpdateDraft(ctx, &UpdateDraftInput{CustomerName: &name})
	require.NoError(t, err)

	_, err = svc.Commit(ctx)
	require.NoError(t, err)

	updated, err := inventory.GetPart(ctx, part.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.Quantity)
}

func TestCommitRollsBackStockOnFailure(t *testing.T) {
	_, inventory, db := newInvoiceService(t)
	ctx := context.Background()
	part := seedPart(t, inventory, 5)

	now := time.Now()
	require.NoError(t, db.Create(&entity.Invoice{
		ID:            1,
		InvoiceNumber: "INV-0000009",
		CustomerName:  "Walk-in",
		Status:        enum.InvoiceStatusArchived,
		CommittedAt:   &now,
	}).Error)

	// colliding invoice number makes the archive write fail after the
	// decrements ran inside the same transaction
	partID := part.ID
	colliding := &entity.Invoice{
		ID:            2,
		InvoiceNumber: "INV-0000009",
		CustomerName:  "Ali Veli",
		Status:        enum.InvoiceStatusArchived,
		CommittedAt:   &now,
		Items: []entity.InvoiceItem{{
			Source:      enum.ItemSourceInventory,
			PartID:      &partID,
			Description: "Brake Pad",
			UnitPrice:   4599,
			Quantity:    2,
			Total:       9198,
		}},
	}

	repo := infrarepo.NewInvoiceRepository(db)
	err := repo.Commit(ctx, colliding, []repository.StockDecrement{{PartID: part.ID, Quantity: 2}})
	require.Error(t, err)

	// the failed commit left stock untouched
	updated, err := inventory.GetPart(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCommitValidation(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	// empty draft with no customer name
	_, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	_, err = svc.Commit(ctx)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 2)

	// lines but still no customer name
	_, err = svc.AddManual(ctx, &AddManualInput{Description: "Labor", UnitPrice: 30})
	require.NoError(t, err)
	_, err = svc.Commit(ctx)
	require.Error(t, err)
}

func TestDeleteFromHistory(t *testing.T) {
	svc, _, _ := newInvoiceService(t)
	ctx := context.Background()

	_, err := svc.AddManual(ctx, &AddManualInput{Description: "Labor", UnitPrice: 30})
	require.NoError(t, err)
	name := "Ali Veli"
	_, err = svc.UpdateDraft(ctx, &UpdateDraftInput{CustomerName: &name})
	require.NoError(t, err)

	archived, err := svc.Commit(ctx)
	require.NoError(t, err)

	// the live draft cannot be deleted through history
	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	err = svc.DeleteFromHistory(ctx, draft.ID)
	require.Error(t, err)

	require.NoError(t, svc.DeleteFromHistory(ctx, archived.ID))

	history, err := svc.ListHistory(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Empty(t, history.Items)

	err = svc.DeleteFromHistory(ctx, archived.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
