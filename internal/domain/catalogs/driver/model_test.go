package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

func TestAddDebt_ReducesBalance(t *testing.T) {
	d := NewDriver("D1", "Karim")
	d.Advances = types.MustMoney("50")
	d.Recompute()
	assert.True(t, d.Balance.Equal(types.MustMoney("50")))

	d.AddDebt(types.MustMoney("120"))

	assert.True(t, d.Debt.Equal(types.MustMoney("120")))
	assert.True(t, d.Balance.Equal(types.MustMoney("-70")))
}
