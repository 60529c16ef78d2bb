package model

type Category struct {
	BaseModel
	TenantID string `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_tenant_category" json:"-"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_category" json:"name" validate:"required"`
}
