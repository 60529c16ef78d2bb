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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionInput is the request body for recording or amending a
// transaction. Price must be positive; SalePrice, when present, must be
// positive and only matters on purchases.
type TransactionInput struct {
	Type      model.TransactionType `json:"type" validate:"required,oneof=sale purchase"`
	ProductID uuid.UUID             `json:"product_id" validate:"uuid_required"`
	Quantity  int                   `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal       `json:"price"`
	SalePrice decimal.NullDecimal   `json:"sale_price"`
}

// TransactionList is the filtered/paginated listing plus the profit figures
// aggregated over the whole filtered set (not just the returned page).
type TransactionList struct {
	Transactions []model.Transaction `json:"transactions"`
	TotalPages   int                 `json:"total_pages"`
	ProfitSummary
}

type TransactionService interface {
	Record(tenantID, userName string, input TransactionInput) (*model.Transaction, error)
	Amend(tenantID, userName string, id uuid.UUID, input TransactionInput) (*model.Transaction, error)
	Remove(tenantID, userName string, id uuid.UUID) error
	List(tenantID string, filter repository.TransactionFilter, page, limit int) (*TransactionList, error)
	GetByID(tenantID string, id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewTransactionService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) TransactionService {
	return &transactionService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
	}
}

func validateTransactionInput(input *TransactionInput) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidInput, first.FailedField, first.Tag)
	}
	if !input.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if input.SalePrice.Valid && !input.SalePrice.Decimal.IsPositive() {
		return fmt.Errorf("%w: sale price must be positive", ErrInvalidInput)
	}
	return nil
}

// applyEffect locks the product, pre-checks the resulting quantity, then
// writes the guarded delta. Runs inside the caller's atomic unit; any error
// rolls the whole unit back.
func (s *transactionService) applyEffect(tx *gorm.DB, tenantID string, eff stockEffect) (*model.Product, error) {
	product, err := s.productRepo.FindForUpdate(tx, tenantID, eff.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}

	if product.Quantity+eff.Delta < 0 {
		return nil, fmt.Errorf("%w: product '%s' has %d on hand, needs %d more",
			ErrInsufficientStock, product.Name, product.Quantity, -(product.Quantity + eff.Delta))
	}

	if err := s.productRepo.ApplyDelta(tx, tenantID, eff.ProductID, eff.Delta, eff.Cost, eff.Price); err != nil {
		if errors.Is(err, repository.ErrStockGuard) {
			return nil, fmt.Errorf("%w: concurrent update consumed the stock", ErrInsufficientStock)
		}
		return nil, err
	}

	product.Quantity += eff.Delta
	if eff.Cost != nil {
		product.Cost = *eff.Cost
	}
	if eff.Price != nil {
		product.Price = *eff.Price
	}
	return product, nil
}

func (s *transactionService) Record(tenantID, userName string, input TransactionInput) (*model.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	t := &model.Transaction{
		TenantID:  tenantID,
		Type:      input.Type,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Price:     input.Price,
		SalePrice: input.SalePrice,
	}

	var product model.Product
	err := runAtomic(s.db, func(tx *gorm.DB) error {
		p, err := s.applyEffect(tx, tenantID, recordEffect(t))
		if err != nil {
			return err
		}
		product = *p
		return s.transactionRepo.Create(tx, t)
	})
	if err != nil {
		return nil, err
	}

	s.publishStockEvent("transaction_recorded", tenantID, userName, t, &product)
	t.Product = product
	return t, nil
}

func (s *transactionService) Amend(tenantID, userName string, id uuid.UUID, input TransactionInput) (*model.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	var amended *model.Transaction
	var product model.Product
	err := runAtomic(s.db, func(tx *gorm.DB) error {
		old, err := s.transactionRepo.FindForUpdate(tx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction", ErrNotFound)
			}
			return err
		}

		next := *old
		next.Type = input.Type
		next.ProductID = input.ProductID
		next.Quantity = input.Quantity
		next.Price = input.Price
		next.SalePrice = input.SalePrice

		// Undo the old stock effect and apply the new one as one unit.
		for _, eff := range amendEffects(old, &next) {
			p, err := s.applyEffect(tx, tenantID, eff)
			if err != nil {
				return err
			}
			if p.ID == next.ProductID {
				product = *p
			}
		}

		amended = &next
		return s.transactionRepo.Update(tx, &next)
	})
	if err != nil {
		return nil, err
	}

	s.publishStockEvent("transaction_amended", tenantID, userName, amended, &product)
	amended.Product = product
	return amended, nil
}

func (s *transactionService) Remove(tenantID, userName string, id uuid.UUID) error {
	var removed *model.Transaction
	var product model.Product
	err := runAtomic(s.db, func(tx *gorm.DB) error {
		t, err := s.transactionRepo.FindForUpdate(tx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction", ErrNotFound)
			}
			return err
		}

		p, err := s.applyEffect(tx, tenantID, reversalEffect(t))
		if err != nil {
			return err
		}

		removed = t
		product = *p
		return s.transactionRepo.Delete(tx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.publishStockEvent("transaction_deleted", tenantID, userName, removed, &product)
	return nil
}

func (s *transactionService) List(tenantID string, filter repository.TransactionFilter, page, limit int) (*TransactionList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	transactions, total, err := s.transactionRepo.Search(tenantID, filter, page, limit)
	if err != nil {
		return nil, err
	}

	// Profit is aggregated over the full filtered set so the total does not
	// change as the caller pages through it.
	all, err := s.transactionRepo.FindAllFiltered(tenantID, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TransactionList{
		Transactions:  transactions,
		TotalPages:    totalPages,
		ProfitSummary: ComputeProfit(all),
	}, nil
}

func (s *transactionService) GetByID(tenantID string, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.transactionRepo.FindByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (s *transactionService) publishStockEvent(action, tenantID, userName string, t *model.Transaction, product *model.Product) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"transaction": map[string]interface{}{
				"id":         t.ID,
				"type":       t.Type,
				"quantity":   t.Quantity,
				"price":      t.Price,
				"product_id": t.ProductID,
			},
			"product": map[string]interface{}{
				"id":        product.ID,
				"sku":       product.SKU,
				"name":      product.Name,
				"new_stock": product.Quantity,
			},
			"message": fmt.Sprintf("%s: %s %d units of '%s'", userName, action, t.Quantity, product.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- ws.Event{TenantID: tenantID, Payload: msg}
	}()
}
