package return_order

import (
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

// SalesSummary is the "ventes" rollup shown to the operator.
type SalesSummary struct {
	TotalSalesCount  types.Quantity `json:"totalSalesCount"`
	TotalSalesAmount types.Money    `json:"totalSalesAmount"`
}

// Calculation is everything derived from a draft before anything is written.
type Calculation struct {
	Totals  Totals           `json:"totals"`
	Sales   SalesSummary     `json:"sales"`
	Payment PaymentBreakdown `json:"payment"`

	TotalExpenses types.Money `json:"totalExpenses"`
	// NetSales = sales at live prices - expenses. Display only.
	NetSales types.Money `json:"netSales"`
	// TotalLoss is the R.C count.
	TotalLoss types.Quantity `json:"totalLoss"`
	// DriverDebtChange values lost bottles at live prices.
	DriverDebtChange types.Money `json:"driverDebtChange"`
}

// ResidualDebt is the part of the total not covered by cash and cheque.
func (c Calculation) ResidualDebt() types.Money {
	return c.Payment.Debt
}

// CalculationInput gathers what the calculator needs.
type CalculationInput struct {
	Items       []Item
	SupplyOrder *supply_order.SupplyOrder
	Expenses    []Expense
	Payment     Payment
	// Prices holds live bottle types. Items without a price contribute nothing.
	Prices bottletype.PriceIndex
}

// Calculator combines the fee policy with live prices and the payment split.
type Calculator struct {
	fees *FeePolicy
}

// NewCalculator creates a calculator over a fee policy.
func NewCalculator(fees *FeePolicy) *Calculator {
	return &Calculator{fees: fees}
}

// Calculate derives totals, sales summary, losses and the payment split.
//
// The payable total is priced at the supply-order snapshot while the sales summary
// and the loss value use live bottle-type prices; both are kept as they are.
func (c *Calculator) Calculate(in CalculationInput) Calculation {
	totalExpenses := sumExpenses(in.Expenses)
	totals := c.fees.ComputeTotals(in.Items, in.SupplyOrder, totalExpenses)

	sales := SalesSummary{TotalSalesAmount: types.Zero()}
	debtChange := types.Zero()
	var lost types.Quantity

	for _, item := range in.Items {
		sales.TotalSalesCount += item.Sales()
		lost += item.Lost

		bt, ok := in.Prices[item.BottleTypeID]
		if !ok {
			continue
		}
		sales.TotalSalesAmount = sales.TotalSalesAmount.Add(item.Sales().Times(bt.UnitPrice))
		debtChange = debtChange.Add(item.Lost.Times(bt.UnitPrice))
	}

	return Calculation{
		Totals:           totals,
		Sales:            sales,
		Payment:          ComputePaymentSplit(totals, in.Payment.Cash, in.Payment.Cheque),
		TotalExpenses:    totalExpenses,
		NetSales:         sales.TotalSalesAmount.Sub(totalExpenses),
		TotalLoss:        lost,
		DriverDebtChange: debtChange,
	}
}

// ComputePaymentSplit projects cash and cheque against the totals.
// Debt = max(0, total - (cash + cheque)); overpayment is not carried as credit.
func ComputePaymentSplit(totals Totals, cash, cheque types.Money) PaymentBreakdown {
	return PaymentBreakdown{
		Cash:     cash,
		Cheque:   cheque,
		Debt:     types.MaxZero(totals.Total.Sub(cash.Add(cheque))),
		Total:    totals.Total,
		Subtotal: totals.Subtotal,
		Tax:      totals.TaxAmount,
	}
}
