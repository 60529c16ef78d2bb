package repository

import (
	"errors"
	"strings"
	"time"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockGuard is returned when the SQL-level quantity guard refuses a
// delta that would drive the on-hand quantity negative.
var ErrStockGuard = errors.New("stock adjustment would drive quantity negative")

// ProductFilter mirrors the list query parameters
type ProductFilter struct {
	Category  string
	Search    string // matches name or SKU, case-insensitive
	SortBy    string
	SortOrder string
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(tenantID string, filter ProductFilter) ([]model.Product, error)
	FindByID(tenantID string, id uuid.UUID) (*model.Product, error)
	FindBySKU(tenantID, sku string) (*model.Product, error)
	Update(product *model.Product) error
	FindForUpdate(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Product, error)
	ApplyDelta(tx *gorm.DB, tenantID string, id uuid.UUID, delta int, newCost, newPrice *decimal.Decimal) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

var productSortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"price":      "price",
	"cost":       "cost",
	"quantity":   "quantity",
	"created_at": "created_at",
}

func (r *productRepo) FindAll(tenantID string, filter ProductFilter) ([]model.Product, error) {
	q := r.db.Where("tenant_id = ?", tenantID)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "DESC"
	}

	var products []model.Product
	err := q.Order(column + " " + order).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(tenantID string, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(tenantID, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "tenant_id = ? AND sku = ?", tenantID, sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// FindForUpdate loads the product with a row lock inside the caller's
// transaction so the read-check-write sequence is serialized per product.
// SQLite serializes writers itself and rejects FOR UPDATE, so the lock
// clause is only added on Postgres.
func (r *productRepo) FindForUpdate(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Product, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product model.Product
	if err := q.First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ApplyDelta adjusts on-hand quantity by delta and optionally overwrites
// cost/price. The WHERE guard refuses a resulting negative quantity even if
// the caller's pre-check raced; callers must run this inside the same
// transaction as FindForUpdate.
func (r *productRepo) ApplyDelta(tx *gorm.DB, tenantID string, id uuid.UUID, delta int, newCost, newPrice *decimal.Decimal) error {
	updates := map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": time.Now(),
	}
	if newCost != nil {
		updates["cost"] = *newCost
	}
	if newPrice != nil {
		updates["price"] = *newPrice
	}

	res := tx.Model(&model.Product{}).
		Where("tenant_id = ? AND id = ? AND quantity + ? >= 0", tenantID, id, delta).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockGuard
	}
	return nil
}
