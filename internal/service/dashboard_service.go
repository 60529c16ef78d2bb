package service

import (
	"time"

	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
)

// lowStockThreshold marks products counted as "running low" on the dashboard
const lowStockThreshold = 10

type DashboardService interface {
	GetSummary(tenantID string) (*repository.DashboardSummary, error)
	GetTrends(tenantID string, days int) ([]repository.TrendPoint, error)
	GetTopProducts(tenantID string, limit int) ([]repository.TopProduct, error)
	GetRecentTransactions(tenantID string, limit int) ([]model.Transaction, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo}
}

func (s *dashboardService) GetSummary(tenantID string) (*repository.DashboardSummary, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales, err := s.txRepo.GetTradeValue(tenantID, model.TxSale, midnight)
	if err != nil {
		return nil, err
	}
	purchases, err := s.txRepo.GetTradeValue(tenantID, model.TxPurchase, midnight)
	if err != nil {
		return nil, err
	}
	worth, lowStock, err := s.txRepo.GetInventoryStats(tenantID, lowStockThreshold)
	if err != nil {
		return nil, err
	}

	return &repository.DashboardSummary{
		SalesToday:     sales,
		PurchasesToday: purchases,
		// Day-level cash view: traded value in minus traded value out.
		ProfitToday:    sales.Sub(purchases),
		InventoryWorth: worth,
		LowStockCount:  lowStock,
	}, nil
}

func (s *dashboardService) GetTrends(tenantID string, days int) ([]repository.TrendPoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetDailyTrends(tenantID, startDate, endDate)
}

func (s *dashboardService) GetTopProducts(tenantID string, limit int) ([]repository.TopProduct, error) {
	return s.txRepo.GetTopProducts(tenantID, limit)
}

func (s *dashboardService) GetRecentTransactions(tenantID string, limit int) ([]model.Transaction, error) {
	return s.txRepo.FindRecent(tenantID, limit)
}
