package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const (
	foreignTable   = "led_foreign_bottles"
	defectiveTable = "led_defective_bottles"
	expensesTable  = "led_expenses"
	revenuesTable  = "led_revenues"
	cashOpsTable   = "led_cash_operations"
	financialTable = "led_financial_transactions"
)

var (
	foreignCols   = postgres.ExtractDBColumns[ledger.ForeignBottleEntry]()
	defectiveCols = postgres.ExtractDBColumns[ledger.DefectiveBottleEntry]()
	expenseCols   = postgres.ExtractDBColumns[ledger.ExpenseEntry]()
	revenueCols   = postgres.ExtractDBColumns[ledger.Revenue]()
	cashOpCols    = postgres.ExtractDBColumns[ledger.CashOperation]()
	financialCols = postgres.ExtractDBColumns[ledger.FinancialTransaction]()
)

// LedgerRepo implements ledger.Repository over the led_* tables.
type LedgerRepo struct {
	txm   *postgres.TxManager
	batch *postgres.BatchInserter
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:   txm,
		batch: postgres.NewBatchInserter(txm),
	}
}

func (r *LedgerRepo) AppendForeign(ctx context.Context, entries []ledger.ForeignBottleEntry) error {
	return appendRows(ctx, r.batch, foreignTable, foreignCols, entries)
}

func (r *LedgerRepo) AppendDefective(ctx context.Context, entries []ledger.DefectiveBottleEntry) error {
	return appendRows(ctx, r.batch, defectiveTable, defectiveCols, entries)
}

func (r *LedgerRepo) AppendExpenses(ctx context.Context, entries []ledger.ExpenseEntry) error {
	return appendRows(ctx, r.batch, expensesTable, expenseCols, entries)
}

func (r *LedgerRepo) AppendRevenue(ctx context.Context, rev ledger.Revenue) error {
	return appendRows(ctx, r.batch, revenuesTable, revenueCols, []ledger.Revenue{rev})
}

func (r *LedgerRepo) AppendCashOperation(ctx context.Context, op ledger.CashOperation) error {
	return appendRows(ctx, r.batch, cashOpsTable, cashOpCols, []ledger.CashOperation{op})
}

func (r *LedgerRepo) AppendFinancialTransaction(ctx context.Context, t ledger.FinancialTransaction) error {
	return appendRows(ctx, r.batch, financialTable, financialCols, []ledger.FinancialTransaction{t})
}

// TrailFor loads every ledger row linked to a settlement.
func (r *LedgerRepo) TrailFor(ctx context.Context, settlementID id.ID) (*ledger.Trail, error) {
	trail := &ledger.Trail{}
	q := r.txm.GetQuerier(ctx)

	if err := selectBySettlement(ctx, q, foreignTable, foreignCols, settlementID, &trail.Foreign); err != nil {
		return nil, err
	}
	if err := selectBySettlement(ctx, q, defectiveTable, defectiveCols, settlementID, &trail.Defective); err != nil {
		return nil, err
	}
	if err := selectBySettlement(ctx, q, expensesTable, expenseCols, settlementID, &trail.Expenses); err != nil {
		return nil, err
	}
	if err := selectBySettlement(ctx, q, revenuesTable, revenueCols, settlementID, &trail.Revenues); err != nil {
		return nil, err
	}
	if err := selectBySettlement(ctx, q, cashOpsTable, cashOpCols, settlementID, &trail.CashOperations); err != nil {
		return nil, err
	}
	if err := selectBySettlement(ctx, q, financialTable, financialCols, settlementID, &trail.FinancialTransactions); err != nil {
		return nil, err
	}
	return trail, nil
}

func appendRows[T any](ctx context.Context, b *postgres.BatchInserter, table string, cols []string, rows []T) error {
	if _, err := postgres.InsertStructs(ctx, b, table, cols, rows); err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return nil
}

func settlementQuery(table string, cols []string, settlementID id.ID) (string, []any, error) {
	return postgres.Builder().
		Select(cols...).
		From(table).
		Where(squirrel.Eq{"settlement_id": settlementID}).
		OrderBy("created_at", "id").
		ToSql()
}

func selectBySettlement[T any](ctx context.Context, q postgres.Querier, table string, cols []string, settlementID id.ID, dst *[]T) error {
	sql, args, err := settlementQuery(table, cols, settlementID)
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, q, dst, sql, args...); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}
