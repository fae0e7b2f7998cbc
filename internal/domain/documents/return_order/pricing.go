package return_order

import (
	"strings"

	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

// Totals is the payable side of a return order.
type Totals struct {
	Subtotal          types.Money `json:"subtotal"`
	TaxAmount         types.Money `json:"taxAmount"`
	Total             types.Money `json:"total"`
	ConsigneFeesTotal types.Money `json:"consigneFeesTotal"`
}

// FeePolicy holds the consigne fee table and the tax rate.
type FeePolicy struct {
	fees    map[string]types.Money
	taxRate types.Money
}

// NewFeePolicy creates a policy. Fee names are matched case-insensitively on trimmed names.
func NewFeePolicy(fees map[string]types.Money, taxRate types.Money) *FeePolicy {
	normalized := make(map[string]types.Money, len(fees))
	for name, fee := range fees {
		normalized[normalizeName(name)] = fee
	}
	return &FeePolicy{fees: normalized, taxRate: taxRate}
}

// DefaultFeePolicy uses the standard fee table and a 10% tax rate.
func DefaultFeePolicy() *FeePolicy {
	cfg := DefaultConfig()
	return NewFeePolicy(cfg.ConsigneFees, cfg.TaxRate)
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// ConsigneFee returns the deposit fee of one bottle, 0 for unmapped names.
func (p *FeePolicy) ConsigneFee(bottleTypeName string) types.Money {
	if fee, ok := p.fees[normalizeName(bottleTypeName)]; ok {
		return fee
	}
	return types.Zero()
}

// ComputeTotals prices the return against the supply order.
//
// Subtotal uses the unit price snapshot on the supply-order line, so later price
// changes do not reprice an old order; lines without a match contribute nothing.
// Tax is informational and never part of Total. Total may be negative.
func (p *FeePolicy) ComputeTotals(items []Item, so *supply_order.SupplyOrder, totalExpenses types.Money) Totals {
	subtotal := types.Zero()
	fees := types.Zero()

	for _, item := range items {
		if so != nil {
			if line, ok := so.FindLine(item.BottleTypeID); ok {
				subtotal = subtotal.Add(item.Sales().Times(line.UnitPrice))
			}
		}
		if item.Consigne > 0 {
			fees = fees.Add(item.Consigne.Times(p.ConsigneFee(item.BottleTypeName)))
		}
	}

	if len(items) == 0 {
		totalExpenses = types.Zero()
	}

	return Totals{
		Subtotal:          subtotal,
		TaxAmount:         subtotal.Mul(p.taxRate),
		Total:             subtotal.Add(fees).Sub(totalExpenses),
		ConsigneFeesTotal: fees,
	}
}
