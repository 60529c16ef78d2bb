package repository

import (
	"strings"
	"time"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows the transaction list query
type TransactionFilter struct {
	Type        model.TransactionType
	ProductName string
	Since       *time.Time
	Until       *time.Time
}

// TrendPoint carries one day's traded value for chart data
type TrendPoint struct {
	Date      string          `json:"date"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// TopProduct is one row of the best-sellers aggregate
type TopProduct struct {
	ProductID    uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DashboardSummary is the tenant's headline numbers
type DashboardSummary struct {
	SalesToday     decimal.Decimal `json:"sales_today"`
	PurchasesToday decimal.Decimal `json:"purchases_today"`
	ProfitToday    decimal.Decimal `json:"profit_today"`
	InventoryWorth decimal.Decimal `json:"inventory_worth"`
	LowStockCount  int64           `json:"low_stock_count"`
}

type TransactionRepository interface {
	FindByID(tenantID string, id uuid.UUID) (*model.Transaction, error)
	FindForUpdate(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Transaction, error)
	Create(tx *gorm.DB, t *model.Transaction) error
	Update(tx *gorm.DB, t *model.Transaction) error
	Delete(tx *gorm.DB, tenantID string, id uuid.UUID) error
	Search(tenantID string, f TransactionFilter, page, limit int) ([]model.Transaction, int64, error)
	FindAllFiltered(tenantID string, f TransactionFilter) ([]model.Transaction, error)
	FindRecent(tenantID string, limit int) ([]model.Transaction, error)
	GetTradeValue(tenantID string, txType model.TransactionType, since time.Time) (decimal.Decimal, error)
	GetDailyTrends(tenantID string, startDate, endDate time.Time) ([]TrendPoint, error)
	GetTopProducts(tenantID string, limit int) ([]TopProduct, error)
	GetInventoryStats(tenantID string, lowStockThreshold int) (decimal.Decimal, int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindByID(tenantID string, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Product").First(&transaction, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindForUpdate loads the transaction inside the caller's atomic unit so an
// amend/delete reverses the state it actually read.
func (r *transactionRepo) FindForUpdate(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := tx.First(&transaction, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) Update(tx *gorm.DB, t *model.Transaction) error {
	return tx.Save(t).Error
}

func (r *transactionRepo) Delete(tx *gorm.DB, tenantID string, id uuid.UUID) error {
	return tx.Delete(&model.Transaction{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *transactionRepo) searchQuery(tenantID string, f TransactionFilter) *gorm.DB {
	q := r.db.Model(&model.Transaction{}).Where("transactions.tenant_id = ?", tenantID)

	if f.Type != "" {
		q = q.Where("transactions.type = ?", f.Type)
	}
	if f.ProductName != "" {
		pattern := "%" + strings.ToLower(f.ProductName) + "%"
		q = q.Joins("JOIN products ON products.id = transactions.product_id").
			Where("LOWER(products.name) LIKE ?", pattern)
	}
	if f.Since != nil {
		q = q.Where("transactions.created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("transactions.created_at <= ?", *f.Until)
	}
	return q
}

func (r *transactionRepo) Search(tenantID string, f TransactionFilter, page, limit int) ([]model.Transaction, int64, error) {
	var total int64
	if err := r.searchQuery(tenantID, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []model.Transaction
	err := r.searchQuery(tenantID, f).
		Preload("Product").
		Order("transactions.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) FindAllFiltered(tenantID string, f TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.searchQuery(tenantID, f).
		Preload("Product").
		Order("transactions.created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindRecent(tenantID string, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// GetTradeValue sums price * quantity of one transaction type since a cutoff
func (r *transactionRepo) GetTradeValue(tenantID string, txType model.TransactionType, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.Model(&model.Transaction{}).
		Where("tenant_id = ? AND type = ? AND created_at >= ?", tenantID, txType, since).
		Select("COALESCE(SUM(price * quantity), 0)").
		Row()
	err := row.Scan(&total)
	return total, err
}

func (r *transactionRepo) GetDailyTrends(tenantID string, startDate, endDate time.Time) ([]TrendPoint, error) {
	var results []TrendPoint

	// Aggregate traded value per day
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'sale' THEN price * quantity ELSE 0 END), 0) as sales,
			COALESCE(SUM(CASE WHEN type = 'purchase' THEN price * quantity ELSE 0 END), 0) as purchases
		`).
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point TrendPoint
		if err := rows.Scan(&point.Date, &point.Sales, &point.Purchases); err != nil {
			return nil, err
		}
		results = append(results, point)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetTopProducts(tenantID string, limit int) ([]TopProduct, error) {
	var results []TopProduct

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			transactions.product_id,
			products.name,
			COALESCE(SUM(transactions.quantity), 0) as quantity_sold,
			COALESCE(SUM(transactions.price * transactions.quantity), 0) as revenue
		`).
		Joins("JOIN products ON products.id = transactions.product_id").
		Where("transactions.tenant_id = ? AND transactions.type = ?", tenantID, model.TxSale).
		Group("transactions.product_id, products.name").
		Order("revenue DESC").
		Limit(limit).
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, err
		}
		results = append(results, p)
	}

	return results, rows.Err()
}

// GetInventoryStats returns total stock valuation and the low-stock count
func (r *transactionRepo) GetInventoryStats(tenantID string, lowStockThreshold int) (decimal.Decimal, int64, error) {
	var worth decimal.Decimal
	row := r.db.Model(&model.Product{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(price * quantity), 0)").
		Row()
	if err := row.Scan(&worth); err != nil {
		return decimal.Zero, 0, err
	}

	var lowStock int64
	err := r.db.Model(&model.Product{}).
		Where("tenant_id = ? AND quantity < ?", tenantID, lowStockThreshold).
		Count(&lowStock).Error
	return worth, lowStock, err
}
