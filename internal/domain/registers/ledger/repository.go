package ledger

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// Repository is the set of append-only sinks. Rows are never updated or deleted.
type Repository interface {
	AppendForeign(ctx context.Context, entries []ForeignBottleEntry) error
	AppendDefective(ctx context.Context, entries []DefectiveBottleEntry) error
	AppendExpenses(ctx context.Context, entries []ExpenseEntry) error
	AppendRevenue(ctx context.Context, r Revenue) error
	AppendCashOperation(ctx context.Context, op CashOperation) error
	AppendFinancialTransaction(ctx context.Context, t FinancialTransaction) error

	// TrailFor loads every row linked to a settlement.
	TrailFor(ctx context.Context, settlementID id.ID) (*Trail, error)
}
