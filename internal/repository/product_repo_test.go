package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go-stockledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var repoDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", repoDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Transaction{}))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, repo ProductRepository, tenantID, sku, name, category string, qty int) *model.Product {
	t.Helper()
	product := &model.Product{
		TenantID: tenantID,
		SKU:      sku,
		Name:     name,
		Category: category,
		Cost:     dec("5"),
		Price:    dec("8"),
		Quantity: qty,
	}
	require.NoError(t, repo.Create(product))
	return product
}

func TestApplyDelta_GuardRefusesNegativeQuantity(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	product := seedProduct(t, repo, "t1", "SKU-1", "Widget", "Tools", 3)

	err := repo.ApplyDelta(db, "t1", product.ID, -5, nil, nil)
	require.ErrorIs(t, err, ErrStockGuard)

	fresh, err := repo.FindByID("t1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Quantity, "a refused delta must not change the row")
}

func TestApplyDelta_AppliesQuantityAndOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	product := seedProduct(t, repo, "t1", "SKU-1", "Widget", "Tools", 3)

	newCost := dec("6")
	newPrice := dec("9")
	require.NoError(t, repo.ApplyDelta(db, "t1", product.ID, 5, &newCost, &newPrice))

	fresh, err := repo.FindByID("t1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, fresh.Quantity)
	assert.True(t, fresh.Cost.Equal(newCost))
	assert.True(t, fresh.Price.Equal(newPrice))
}

func TestApplyDelta_IsTenantScoped(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	product := seedProduct(t, repo, "t1", "SKU-1", "Widget", "Tools", 3)

	err := repo.ApplyDelta(db, "t2", product.ID, 5, nil, nil)
	require.ErrorIs(t, err, ErrStockGuard, "foreign tenant may not touch the row")

	fresh, err := repo.FindByID("t1", product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Quantity)
}

func TestFindAll_FiltersAndSorts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	seedProduct(t, repo, "t1", "SKU-1", "USB Cable", "Electronics", 5)
	seedProduct(t, repo, "t1", "SKU-2", "HDMI Cable", "Electronics", 2)
	seedProduct(t, repo, "t1", "SKU-3", "Notebook", "Stationery", 9)
	seedProduct(t, repo, "t2", "SKU-1", "USB Cable", "Electronics", 5)

	electronics, err := repo.FindAll("t1", ProductFilter{Category: "Electronics"})
	require.NoError(t, err)
	assert.Len(t, electronics, 2)

	cables, err := repo.FindAll("t1", ProductFilter{Search: "cable"})
	require.NoError(t, err)
	assert.Len(t, cables, 2)

	bySKU, err := repo.FindAll("t1", ProductFilter{Search: "sku-3"})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Notebook", bySKU[0].Name)

	byQty, err := repo.FindAll("t1", ProductFilter{SortBy: "quantity", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, byQty, 3)
	assert.Equal(t, 9, byQty[0].Quantity)

	// unknown sort column falls back to name instead of injecting input
	byBogus, err := repo.FindAll("t1", ProductFilter{SortBy: "drop table"})
	require.NoError(t, err)
	require.Len(t, byBogus, 3)
	assert.Equal(t, "HDMI Cable", byBogus[0].Name)
}

func TestFindByID_DoesNotCrossTenants(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	product := seedProduct(t, repo, "t1", "SKU-1", "Widget", "Tools", 3)

	_, err := repo.FindByID("t2", product.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
