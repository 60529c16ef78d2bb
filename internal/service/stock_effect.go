package service

import (
	"bytes"

	"go-stockledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stockEffect is the signed quantity change one atomic unit applies to a
// single product, plus any cost/price overwrite riding along with it.
type stockEffect struct {
	ProductID uuid.UUID
	Delta     int
	Cost      *decimal.Decimal // overwrite product.cost when non-nil
	Price     *decimal.Decimal // overwrite product.price when non-nil
}

// recordEffect is the stock effect of newly recording a transaction:
// a sale consumes stock, a purchase adds stock and snapshots the unit cost
// (and the forward sale price when given).
func recordEffect(t *model.Transaction) stockEffect {
	if t.Type == model.TxSale {
		return stockEffect{ProductID: t.ProductID, Delta: -t.Quantity}
	}
	eff := stockEffect{ProductID: t.ProductID, Delta: t.Quantity}
	eff.Cost, eff.Price = purchaseOverwrites(t)
	return eff
}

// reversalEffect undoes a previously applied transaction. Only the quantity
// moves back; cost/price snapshots are never rolled back.
func reversalEffect(t *model.Transaction) stockEffect {
	if t.Type == model.TxSale {
		return stockEffect{ProductID: t.ProductID, Delta: t.Quantity}
	}
	return stockEffect{ProductID: t.ProductID, Delta: -t.Quantity}
}

func purchaseOverwrites(t *model.Transaction) (cost, price *decimal.Decimal) {
	c := t.Price
	cost = &c
	if t.SalePrice.Valid {
		p := t.SalePrice.Decimal
		price = &p
	}
	return cost, price
}

type typeChange struct {
	from, to model.TransactionType
}

// amendEffects reverses old and applies next, merged into one net effect when
// both touch the same product. Every (oldType, newType) pair is spelled out
// so each reversal formula can be checked on its own.
func amendEffects(old, next *model.Transaction) []stockEffect {
	sameProduct := old.ProductID == next.ProductID

	switch (typeChange{old.Type, next.Type}) {
	case typeChange{model.TxSale, model.TxSale}:
		if sameProduct {
			return []stockEffect{{ProductID: next.ProductID, Delta: old.Quantity - next.Quantity}}
		}
		return orderEffects(
			stockEffect{ProductID: old.ProductID, Delta: old.Quantity},
			stockEffect{ProductID: next.ProductID, Delta: -next.Quantity},
		)

	case typeChange{model.TxPurchase, model.TxPurchase}:
		cost, price := purchaseOverwrites(next)
		if sameProduct {
			return []stockEffect{{ProductID: next.ProductID, Delta: next.Quantity - old.Quantity, Cost: cost, Price: price}}
		}
		return orderEffects(
			stockEffect{ProductID: old.ProductID, Delta: -old.Quantity},
			stockEffect{ProductID: next.ProductID, Delta: next.Quantity, Cost: cost, Price: price},
		)

	case typeChange{model.TxSale, model.TxPurchase}:
		cost, price := purchaseOverwrites(next)
		if sameProduct {
			return []stockEffect{{ProductID: next.ProductID, Delta: old.Quantity + next.Quantity, Cost: cost, Price: price}}
		}
		return orderEffects(
			stockEffect{ProductID: old.ProductID, Delta: old.Quantity},
			stockEffect{ProductID: next.ProductID, Delta: next.Quantity, Cost: cost, Price: price},
		)

	default: // purchase -> sale
		if sameProduct {
			return []stockEffect{{ProductID: next.ProductID, Delta: -old.Quantity - next.Quantity}}
		}
		return orderEffects(
			stockEffect{ProductID: old.ProductID, Delta: -old.Quantity},
			stockEffect{ProductID: next.ProductID, Delta: -next.Quantity},
		)
	}
}

// orderEffects fixes the row-lock order by product ID so two amends touching
// the same pair of products cannot deadlock each other.
func orderEffects(a, b stockEffect) []stockEffect {
	if bytes.Compare(a.ProductID[:], b.ProductID[:]) > 0 {
		return []stockEffect{b, a}
	}
	return []stockEffect{a, b}
}
