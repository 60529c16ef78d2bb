package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale     TransactionType = "sale"
	TxPurchase TransactionType = "purchase"
)

type Transaction struct {
	BaseModel
	TenantID  string          `gorm:"type:varchar(64);not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product" validate:"-"` // Relasi - skip validation
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=sale purchase"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"` // sale price for a sale, unit cost for a purchase

	// SalePrice is only meaningful on purchases: when set, the purchase also
	// updates the product's forward sale price.
	SalePrice decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"sale_price,omitempty"`
}
