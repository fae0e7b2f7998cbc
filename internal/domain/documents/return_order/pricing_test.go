package return_order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

func money(s string) types.Money { return types.MustMoney(s) }

func assertMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, got.Equal(money(want)), "want %s, got %s", want, got.String())
}

func TestConsigneFee(t *testing.T) {
	p := DefaultFeePolicy()

	tests := []struct {
		name string
		want string
	}{
		{"3KG", "10"},
		{"6KG", "15"},
		{"12KG", "20"},
		{"34KG", "50"},
		{" 12kg ", "20"},
		{"BUTANE-XL", "0"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, p.ConsigneFee(tt.name))
		})
	}
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals := DefaultFeePolicy().ComputeTotals(nil, nil, money("30"))

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.ConsigneFeesTotal.IsZero())
}

func TestComputeTotals_Scenario(t *testing.T) {
	bt := id.New()
	so := supply_order.NewSupplyOrder("BS-1", id.New())
	so.AddLine(bt, "12KG", 0, 20, money("50"))

	items := []Item{{
		BottleTypeID:   bt,
		BottleTypeName: "12KG",
		OutgoingFull:   20,
		ReturnedEmpty:  10,
		Consigne:       5,
		ReturnedFull:   3,
		Defective:      2,
	}}

	totals := DefaultFeePolicy().ComputeTotals(items, so, money("30"))

	assertMoney(t, "750", totals.Subtotal)
	assertMoney(t, "100", totals.ConsigneFeesTotal)
	assertMoney(t, "75", totals.TaxAmount)
	// tax is never part of the total
	assertMoney(t, "820", totals.Total)
}

func TestComputeTotals_Identity(t *testing.T) {
	bt3, bt34 := id.New(), id.New()
	so := supply_order.NewSupplyOrder("BS-2", id.New())
	so.AddLine(bt3, "3KG", 0, 10, money("12.5"))
	so.AddLine(bt34, "34KG", 0, 2, money("300"))

	items := []Item{
		{BottleTypeID: bt3, BottleTypeName: "3KG", ReturnedEmpty: 3, Consigne: 1},
		{BottleTypeID: bt34, BottleTypeName: "34KG", ReturnedEmpty: 0, Consigne: 0},
		// not on the supply order: no subtotal, but the fee still applies
		{BottleTypeID: id.New(), BottleTypeName: "6KG", ReturnedEmpty: 4, Consigne: 2},
	}

	for _, expenses := range []string{"0", "12.5", "5000"} {
		totals := DefaultFeePolicy().ComputeTotals(items, so, money(expenses))

		assertMoney(t, "50", totals.Subtotal)
		assertMoney(t, "40", totals.ConsigneFeesTotal)
		assertMoney(t, "5", totals.TaxAmount)
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.ConsigneFeesTotal).Sub(money(expenses))))
	}

	negative := DefaultFeePolicy().ComputeTotals(items, so, money("5000"))
	assert.True(t, negative.Total.IsNegative())
}

func TestNewFeePolicy_CustomTable(t *testing.T) {
	p := NewFeePolicy(map[string]types.Money{"propane 13kg": money("25")}, money("0.2"))

	assertMoney(t, "25", p.ConsigneFee("PROPANE 13KG"))
	assertMoney(t, "0", p.ConsigneFee("12KG"))

	bt := id.New()
	so := supply_order.NewSupplyOrder("BS-3", id.New())
	so.AddLine(bt, "PROPANE 13KG", 0, 1, money("100"))
	totals := p.ComputeTotals([]Item{{BottleTypeID: bt, BottleTypeName: "PROPANE 13KG", Consigne: 1}}, so, types.Zero())
	assertMoney(t, "20", totals.TaxAmount)
	assertMoney(t, "125", totals.Total)
}
