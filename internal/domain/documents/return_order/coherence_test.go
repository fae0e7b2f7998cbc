package return_order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

func TestValidate_FlagsMismatch(t *testing.T) {
	bad := Item{BottleTypeID: id.New(), BottleTypeName: "12KG", OutgoingFull: 10, ReturnedEmpty: 4, Consigne: 2, ReturnedFull: 3}
	good := Item{BottleTypeID: id.New(), BottleTypeName: "6KG", OutgoingFull: 10, ReturnedEmpty: 4, Consigne: 2, ReturnedFull: 3, Defective: 1}

	got := Validate([]Item{bad, good}, nil)

	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, bad.BottleTypeID, d.BottleTypeID)
	assert.Equal(t, types.Quantity(10), d.OutgoingFull)
	assert.Equal(t, types.Quantity(6), d.Sales)
	assert.Equal(t, types.Quantity(3), d.ReturnedFull)
	assert.Equal(t, types.Quantity(0), d.Defective)
	assert.Contains(t, d.Message, "12KG")
	assert.Contains(t, d.Message, "10")
	assert.Contains(t, d.Message, "= 9")
}

func TestValidate_SupplyOrderIsAuthority(t *testing.T) {
	bt := id.New()
	so := supply_order.NewSupplyOrder("BS-1", id.New())
	so.AddLine(bt, "3KG", 0, 8, types.MustMoney("10"))

	// the item copy claims 5, the order says 8
	items := []Item{{BottleTypeID: bt, BottleTypeName: "3KG", OutgoingFull: 5, ReturnedEmpty: 5}}

	assert.Empty(t, Validate(items, nil))
	got := Validate(items, so)
	require.Len(t, got, 1)
	assert.Equal(t, types.Quantity(8), got[0].OutgoingFull)
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, Validate(nil, nil))
}
