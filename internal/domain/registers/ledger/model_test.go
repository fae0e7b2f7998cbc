package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

func TestClassifyPayment(t *testing.T) {
	tests := []struct {
		name   string
		cash   string
		cheque string
		want   PaymentMethod
	}{
		{"cash only", "500", "0", PaymentCash},
		{"cheque only", "0", "200", PaymentCheque},
		{"both", "500", "200", PaymentMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPayment(types.MustMoney(tt.cash), types.MustMoney(tt.cheque))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRevenue(t *testing.T) {
	sid := id.New()
	r := NewRevenue(sid, time.Now(), "BD-2026-00001", types.MustMoney("500"), types.MustMoney("200"))

	assert.Equal(t, sid, r.SettlementID)
	assert.True(t, r.Total.Equal(types.MustMoney("700")))
	assert.Equal(t, PaymentMixed, r.PaymentMethod)
	assert.False(t, id.IsNil(r.ID))
}

func TestNewExpenseEntry_TaggedAsEnterpriseDebt(t *testing.T) {
	e := NewExpenseEntry(id.New(), time.Now(), "fuel", types.MustMoney("30"))
	assert.Equal(t, ExpenseKind, e.Kind)
	assert.Equal(t, "dette", e.PaymentMethod)
}
