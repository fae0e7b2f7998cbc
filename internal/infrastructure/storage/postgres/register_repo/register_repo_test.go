package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

func TestStockMovementColumns(t *testing.T) {
	assert.Equal(t, []string{
		"line_id", "recorder_id", "recorder_type", "period", "record_type", "created_at",
		"bottle_type_id", "kind", "quantity", "balance",
	}, stockMovementCols)
}

func TestLedgerColumns(t *testing.T) {
	for _, cols := range [][]string{foreignCols, defectiveCols, expenseCols, revenueCols, cashOpCols, financialCols} {
		require.GreaterOrEqual(t, len(cols), 4)
		assert.Equal(t, []string{"id", "settlement_id", "date", "created_at"}, cols[:4])
	}
	assert.Contains(t, revenueCols, "payment_method")
	assert.Contains(t, cashOpCols, "account")
}

func TestSettlementQuery(t *testing.T) {
	settlementID := id.New()

	sql, args, err := settlementQuery(expensesTable, expenseCols, settlementID)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM led_expenses WHERE settlement_id = $1 ORDER BY created_at, id")
	assert.Equal(t, []any{settlementID}, args)
}
