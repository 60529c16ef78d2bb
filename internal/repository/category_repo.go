package repository

import (
	"go-stockledger/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(tenantID string) ([]model.Category, error)
	FindByName(tenantID, name string) (*model.Category, error)
	Create(category *model.Category) error
	DeleteByName(tenantID, name string) (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) FindAll(tenantID string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByName(tenantID, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "tenant_id = ? AND name = ?", tenantID, name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) DeleteByName(tenantID, name string) (int64, error) {
	res := r.db.Delete(&model.Category{}, "tenant_id = ? AND name = ?", tenantID, name)
	return res.RowsAffected, res.Error
}
