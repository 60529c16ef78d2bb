package service

import (
	"testing"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
)

func soldWithCost(qty int, price, cost string) model.Transaction {
	return model.Transaction{
		Type:     model.TxSale,
		Quantity: qty,
		Price:    dec(price),
		Product:  model.Product{BaseModel: model.BaseModel{ID: uuid.New()}, Cost: dec(cost)},
	}
}

func TestComputeProfit_SaleUsesCostBasis(t *testing.T) {
	summary := ComputeProfit([]model.Transaction{soldWithCost(3, "8", "5")})

	requireDecimal(t, "9", summary.RealizedProfit) // (8-5)*3
	requireDecimal(t, "0", summary.PurchaseOutflow)
}

func TestComputeProfit_SumsAcrossSales(t *testing.T) {
	summary := ComputeProfit([]model.Transaction{
		soldWithCost(3, "8", "5"),
		soldWithCost(2, "10", "6"),
	})

	requireDecimal(t, "17", summary.RealizedProfit) // 9 + 8
}

func TestComputeProfit_PurchaseIsOutflowNotProfit(t *testing.T) {
	summary := ComputeProfit([]model.Transaction{
		soldWithCost(3, "8", "5"),
		{Type: model.TxPurchase, Quantity: 5, Price: dec("6")},
	})

	requireDecimal(t, "9", summary.RealizedProfit)
	requireDecimal(t, "30", summary.PurchaseOutflow)
}

func TestComputeProfit_LossMakingSaleGoesNegative(t *testing.T) {
	summary := ComputeProfit([]model.Transaction{soldWithCost(2, "4", "5")})

	requireDecimal(t, "-2", summary.RealizedProfit)
}

func TestComputeProfit_ToleratesDanglingProductReference(t *testing.T) {
	dangling := model.Transaction{Type: model.TxSale, Quantity: 3, Price: dec("8")} // zero Product

	summary := ComputeProfit([]model.Transaction{
		dangling,
		soldWithCost(3, "8", "5"),
	})

	requireDecimal(t, "9", summary.RealizedProfit)
}

func TestComputeProfit_EmptySetIsZero(t *testing.T) {
	summary := ComputeProfit(nil)

	requireDecimal(t, "0", summary.RealizedProfit)
	requireDecimal(t, "0", summary.PurchaseOutflow)
}
