package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	TenantID string          `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_tenant_sku" json:"-"`
	SKU      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_sku" json:"sku" validate:"required"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string          `gorm:"type:varchar(100)" json:"category"`
	Cost     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cost"`  // unit acquisition cost
	Price    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"` // unit sale price
	Quantity int             `gorm:"not null;default:0" json:"quantity"`       // on-hand units, never negative

	// Relasi
	Transactions []Transaction `json:"transactions,omitempty"`
}
