package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// newTestDB opens a private in-memory database per test. The shared cache
// plus a single connection keeps GORM's pool on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{}, &model.Category{}))
	return db
}

func newTestRecorder(t *testing.T) (TransactionService, repository.ProductRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	return NewTransactionService(productRepo, txRepo, db, nil), productRepo, db
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID, sku string, quantity int, cost, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		TenantID: tenantID,
		SKU:      sku,
		Name:     "Product " + sku,
		Category: "Electronics",
		Cost:     dec(cost),
		Price:    dec(price),
		Quantity: quantity,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func reloadProduct(t *testing.T, db *gorm.DB, p *model.Product) *model.Product {
	t.Helper()
	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", p.ID).Error)
	return &fresh
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}
