package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateProduct(tenantID, userName string, req *model.Product) error
	UpdateProduct(tenantID, userName string, id uuid.UUID, req *model.Product) (*model.Product, error)
	GetProducts(tenantID string, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(tenantID string, id uuid.UUID) (*model.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func validateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidInput, first.FailedField, first.Tag)
	}
	if req.Cost.IsNegative() || req.Price.IsNegative() {
		return fmt.Errorf("%w: cost and price must be non-negative", ErrInvalidInput)
	}
	if req.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrInvalidInput)
	}
	return nil
}

func (s *inventoryService) CreateProduct(tenantID, userName string, req *model.Product) error {
	req.TenantID = tenantID
	if err := validateProduct(req); err != nil {
		return err
	}

	// Per-tenant SKU uniqueness; the composite unique index backs this up.
	existing, _ := s.productRepo.FindBySKU(tenantID, req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return fmt.Errorf("%w: SKU already exists", ErrInvalidInput)
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.publishProductEvent("product_created", tenantID, userName, req)
	return nil
}

// UpdateProduct is the direct attribute edit path. Quantity set here is an
// owner-declared recount, not a ledger movement; stock that has to stay
// consistent with transactions goes through the transaction service instead.
func (s *inventoryService) UpdateProduct(tenantID, userName string, id uuid.UUID, req *model.Product) (*model.Product, error) {
	req.TenantID = tenantID
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := runAtomic(s.db, func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindForUpdate(tx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product", ErrNotFound)
			}
			return err
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Category = req.Category
		existing.Cost = req.Cost
		existing.Price = req.Price
		existing.Quantity = req.Quantity

		if err := tx.Save(existing).Error; err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishProductEvent("product_updated", tenantID, userName, updated)
	return updated, nil
}

func (s *inventoryService) GetProducts(tenantID string, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(tenantID, filter)
}

func (s *inventoryService) GetProduct(tenantID string, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) publishProductEvent(action, tenantID, userName string, product *model.Product) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"product": map[string]interface{}{
				"id":       product.ID,
				"sku":      product.SKU,
				"name":     product.Name,
				"quantity": product.Quantity,
				"price":    product.Price,
			},
			"message": fmt.Sprintf("%s: %s '%s'", userName, action, product.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- ws.Event{TenantID: tenantID, Payload: msg}
	}()
}
