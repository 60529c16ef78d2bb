package service

import (
	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitSummary splits realized sales profit from purchase cash outflow.
// Realized profit only counts sales; the purchase side is kept as its own
// named figure instead of being silently subtracted from profit.
type ProfitSummary struct {
	RealizedProfit  decimal.Decimal `json:"profit"`
	PurchaseOutflow decimal.Decimal `json:"purchase_outflow"`
}

// ComputeProfit reduces a transaction set (products preloaded) into profit
// figures. Per sale: (sale price - product cost basis at query time) * qty.
// A transaction whose product no longer resolves contributes nothing rather
// than failing the whole aggregation.
func ComputeProfit(transactions []model.Transaction) ProfitSummary {
	summary := ProfitSummary{
		RealizedProfit:  decimal.Zero,
		PurchaseOutflow: decimal.Zero,
	}

	for _, t := range transactions {
		qty := decimal.NewFromInt(int64(t.Quantity))
		switch t.Type {
		case model.TxSale:
			if t.Product.ID == uuid.Nil {
				continue // product deleted since; skip, don't fail
			}
			summary.RealizedProfit = summary.RealizedProfit.Add(t.Price.Sub(t.Product.Cost).Mul(qty))
		case model.TxPurchase:
			summary.PurchaseOutflow = summary.PurchaseOutflow.Add(t.Price.Mul(qty))
		}
	}

	return summary
}
