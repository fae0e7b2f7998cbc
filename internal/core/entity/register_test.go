package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

func TestNewStockMovement_Direction(t *testing.T) {
	doc := id.New()
	bt := id.New()

	in := NewStockMovement(doc, "ReturnOrder", time.Now(), bt, StockKindEmpty, 5, 12)
	assert.Equal(t, RecordTypeReceipt, in.RecordType)
	assert.Equal(t, types.Quantity(5), in.Quantity)
	assert.Equal(t, types.Quantity(5), in.SignedQuantity())

	out := NewStockMovement(doc, "ReturnOrder", time.Now(), bt, StockKindEmpty, -3, 9)
	assert.Equal(t, RecordTypeExpense, out.RecordType)
	assert.Equal(t, types.Quantity(3), out.Quantity)
	assert.Equal(t, types.Quantity(-3), out.SignedQuantity())
	assert.Equal(t, types.Quantity(9), out.Balance)
}
