package service

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eraycetin/autoparts-api/internal/domain/entity"
	infrarepo "github.com/eraycetin/autoparts-api/internal/infrastructure/repository"
)

var testDBCounter int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entity.Part{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceCounter{},
	)
	require.NoError(t, err)
	return db
}

func newInventoryService(t *testing.T) (*InventoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewInventoryService(infrarepo.NewPartRepository(db), 2), db
}

func newInvoiceService(t *testing.T) (*InvoiceService, *InventoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	partRepo := infrarepo.NewPartRepository(db)
	invoiceRepo := infrarepo.NewInvoiceRepository(db)
	return NewInvoiceService(invoiceRepo, partRepo, node, "INV-"),
		NewInventoryService(partRepo, 2),
		db
}
