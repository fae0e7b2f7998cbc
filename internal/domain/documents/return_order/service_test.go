package return_order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
)

// scenarioDraft fills the draft with the reference return: 10 empties, 5 consigne,
// 3 full, 2 defective, 30 of expenses, 500 cash and 200 cheque.
func scenarioDraft(t *testing.T, f *fixture) *Draft {
	t.Helper()
	ctx := context.Background()

	d, err := f.svc.NewDraft(ctx, f.supplyOrder.ID)
	require.NoError(t, err)

	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) {
		i.ReturnedEmpty = 10
		i.Consigne = 5
		i.ReturnedFull = 3
		i.Defective = 2
	}))
	require.NoError(t, d.AddExpense(Expense{Description: "fuel", Amount: money("30")}))
	require.NoError(t, d.SetPayment(money("500"), money("200")))
	return d
}

func TestCommit_Scenario(t *testing.T) {
	f := newFixture(DefaultConfig())
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "operator-1"})
	d := scenarioDraft(t, f)

	res, err := f.svc.Commit(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, StateCommitted, d.State)
	assert.Empty(t, res.Discrepancies)

	s := res.Settlement
	assert.Regexp(t, `^BD-\d{4}-00001$`, s.Number)
	assert.Equal(t, "operator-1", s.CreatedBy)
	assert.Equal(t, f.supplyOrder.ID, s.SupplyOrderID)
	assert.Equal(t, f.driver.ID, s.DriverID)
	assertMoney(t, "750", s.Payment.Subtotal)
	assertMoney(t, "75", s.Payment.Tax)
	assertMoney(t, "820", s.Payment.Total)
	assertMoney(t, "500", s.Payment.Cash)
	assertMoney(t, "200", s.Payment.Cheque)
	assertMoney(t, "120", s.Payment.Debt)
	assertMoney(t, "30", s.TotalExpenses)
	assertMoney(t, "750", s.TotalSales)
	assertMoney(t, "0", s.DebtChange)

	// items are a copy
	d.Items[0].ReturnedEmpty = 0
	assert.Equal(t, types.Quantity(10), s.Items[0].ReturnedEmpty)

	// stock: 10 - 5 consigne empties, 3 full back, distributed cleared
	bt := f.bottle()
	assert.Equal(t, types.Quantity(5), bt.EmptyQuantity)
	assert.Equal(t, types.Quantity(3), bt.RemainingQuantity)
	assert.Equal(t, types.Quantity(0), bt.DistributedQuantity)

	// driver is charged the residual
	drv := f.driverState()
	assertMoney(t, "120", drv.Debt)
	assertMoney(t, "-120", drv.Balance)

	// financial ledgers
	require.Len(t, f.ledger.revenues, 1)
	assertMoney(t, "700", f.ledger.revenues[0].Total)
	assert.Equal(t, ledger.PaymentMixed, f.ledger.revenues[0].PaymentMethod)
	require.Len(t, f.ledger.cash, 1)
	assertMoney(t, "500", f.ledger.cash[0].Amount)
	require.Len(t, f.ledger.financial, 1)
	assertMoney(t, "200", f.ledger.financial[0].Amount)
	require.Len(t, f.ledger.expenses, 1)
	assert.Equal(t, ledger.ExpenseKind, f.ledger.expenses[0].Kind)
	assert.Equal(t, s.ID, f.ledger.expenses[0].SettlementID)
	require.Len(t, f.ledger.defective, 1)
	assert.Equal(t, types.Quantity(2), f.ledger.defective[0].Quantity)
	assert.Empty(t, f.ledger.foreign)

	assert.Equal(t, []string{StepStock, StepDebtChange, StepSettlement, StepDefective, StepExpenses, StepRevenue, StepDriverDebt},
		res.Journal.Steps())

	// committed drafts cannot be committed again
	_, err = f.svc.Commit(ctx, d)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
}

func TestCommit_TwiceDoublesEffects(t *testing.T) {
	f := newFixture(DefaultConfig())
	ctx := context.Background()
	d := scenarioDraft(t, f)
	again := d.Clone()

	first, err := f.svc.Commit(ctx, d)
	require.NoError(t, err)
	second, err := f.svc.Commit(ctx, again)
	require.NoError(t, err)

	assert.NotEqual(t, first.Settlement.ID, second.Settlement.ID)
	assert.NotEqual(t, first.Settlement.Number, second.Settlement.Number)
	assert.Len(t, f.settlements.rows, 2)

	assert.Equal(t, types.Quantity(10), f.bottle().EmptyQuantity)
	assert.Equal(t, types.Quantity(6), f.bottle().RemainingQuantity)
	assertMoney(t, "240", f.driverState().Debt)
	assert.Len(t, f.ledger.revenues, 2)
}

func TestCommit_ForeignEntries(t *testing.T) {
	f := newFixture(DefaultConfig())
	ctx := context.Background()

	d := scenarioDraft(t, f)
	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) { i.Foreign = 4 }))

	// aggregate only: one fallback row
	res, err := f.svc.Commit(ctx, d)
	require.NoError(t, err)
	require.Len(t, f.ledger.foreign, 1)
	assert.Equal(t, ledger.FallbackBrand, f.ledger.foreign[0].BrandName)
	assert.Equal(t, "12KG", f.ledger.foreign[0].BottleTypeLabel)
	assert.Equal(t, types.Quantity(4), f.ledger.foreign[0].Quantity)
	assert.Equal(t, res.Settlement.ID, f.ledger.foreign[0].SettlementID)

	// with a breakdown: one row per brand, no fallback
	d2 := scenarioDraft(t, f)
	require.NoError(t, d2.UpdateItem(f.bottleType.ID, func(i *Item) { i.Foreign = 4 }))
	require.NoError(t, d2.SetForeignBreakdown(f.bottleType.ID, []ForeignEntry{
		{Brand: "Afriquia", Quantity: 3},
		{Brand: "Tissir", BottleTypeLabel: "12KG-T", Quantity: 1},
	}))
	_, err = f.svc.Commit(ctx, d2)
	require.NoError(t, err)

	require.Len(t, f.ledger.foreign, 3)
	assert.Equal(t, "Afriquia", f.ledger.foreign[1].BrandName)
	assert.Equal(t, "12KG", f.ledger.foreign[1].BottleTypeLabel)
	assert.Equal(t, "12KG-T", f.ledger.foreign[2].BottleTypeLabel)
}

func TestCommit_NoPaymentWritesNoRevenue(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	require.NoError(t, d.SetPayment(types.Zero(), types.Zero()))

	res, err := f.svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.Empty(t, f.ledger.revenues)
	assert.Empty(t, f.ledger.cash)
	assert.Empty(t, f.ledger.financial)
	assertMoney(t, "820", res.Settlement.Payment.Debt)
	assertMoney(t, "820", f.driverState().Debt)
}

func TestCommit_LossesValuedAtLivePrice(t *testing.T) {
	f := newFixture(DefaultConfig())
	row := f.bottles.rows[f.bottleType.ID]
	row.UnitPrice = money("60")
	f.bottles.rows[f.bottleType.ID] = row

	d := scenarioDraft(t, f)
	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) { i.Lost = 2 }))
	require.NoError(t, d.SetPayment(money("820"), types.Zero()))

	res, err := f.svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assertMoney(t, "120", res.Settlement.DebtChange)
	assert.Equal(t, types.Quantity(2), res.Settlement.TotalLoss)
	// sales summary at 60, payable at the order price of 50
	assertMoney(t, "900", res.Settlement.TotalSales)
	assertMoney(t, "820", res.Settlement.Payment.Total)
	// fully paid: no residual, so the driver account does not move
	assertMoney(t, "0", f.driverState().Debt)
	// 10 - 5 consigne - 2 lost
	assert.Equal(t, types.Quantity(3), f.bottle().EmptyQuantity)
}

func TestCommit_DiscrepanciesDoNotBlock(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) { i.ReturnedFull = 0 }))

	res, err := f.svc.Commit(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, res.Discrepancies, 1)
	assert.Equal(t, StateCommitted, d.State)
}

func TestCommit_PolicyRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CommitPolicy = "discrepancies == 0"
	f := newFixture(cfg)
	d := scenarioDraft(t, f)
	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) { i.ReturnedFull = 0 }))

	_, err := f.svc.Commit(context.Background(), d)

	assert.True(t, apperror.HasCode(err, apperror.CodeCommitPolicyRejected))
	assert.Equal(t, StateEdited, d.State)
	assert.Empty(t, f.settlements.rows)
	assert.Empty(t, f.movements.items)
}

func TestCommit_OutgoingFullComesFromSupplyOrder(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	require.NoError(t, d.UpdateItem(f.bottleType.ID, func(i *Item) { i.OutgoingFull = 5 }))

	res, err := f.svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.Empty(t, res.Discrepancies)
	assert.Equal(t, types.Quantity(20), res.Settlement.Items[0].OutgoingFull)
	assert.Equal(t, types.Quantity(0), f.bottle().DistributedQuantity)
}

func TestNewService_ZeroTaxRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TaxRate = types.Zero()
	f := newFixture(cfg)
	d := scenarioDraft(t, f)

	totals := f.svc.ComputeTotals(d.Items, f.supplyOrder, money("30"))

	assertMoney(t, "750", totals.Subtotal)
	assert.True(t, totals.TaxAmount.IsZero())
	assertMoney(t, "820", totals.Total)
}

func TestCommit_ValidationErrorWritesNothing(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	d.Items[0].Consigne = -1

	_, err := f.svc.Commit(context.Background(), d)

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, StateEdited, d.State)
	assert.Empty(t, f.movements.items)
	assert.Equal(t, types.Quantity(0), f.bottle().EmptyQuantity)
}

func TestCommit_UnknownReferences(t *testing.T) {
	f := newFixture(DefaultConfig())

	d := scenarioDraft(t, f)
	d.DriverID = id.New()
	_, err := f.svc.Commit(context.Background(), d)
	assert.True(t, apperror.IsValidation(err))

	d = scenarioDraft(t, f)
	d.Items = append(d.Items, Item{BottleTypeID: id.New(), BottleTypeName: "ghost"})
	_, err = f.svc.Commit(context.Background(), d)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.NewDraft(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestCommit_FailureCarriesJournal(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	f.ledger.failOn = "expenses"

	_, err := f.svc.Commit(context.Background(), d)
	require.Error(t, err)

	assert.True(t, apperror.IsCommitFailed(err))
	assert.Equal(t, StateEdited, d.State, "draft stays editable for retry")

	var failure *CommitFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StepExpenses, failure.Step)
	assert.ErrorIs(t, err, errSinkDown)
	assert.Equal(t, []string{StepStock, StepDebtChange, StepSettlement, StepDefective}, failure.Journal.Steps())
	assert.False(t, failure.Journal.RolledBack, "in-memory sinks are not transactional")

	// without a transaction the landed writes stay: at-least-once
	assert.Len(t, f.settlements.rows, 1)
	assert.Equal(t, types.Quantity(5), f.bottle().EmptyQuantity)

	// manual retry goes through
	res, err := f.svc.Commit(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, f.settlements.rows, 2)
	assert.Equal(t, StateCommitted, d.State)
	assert.NotNil(t, res.Settlement)
}

func TestCommit_AfterCommitHookRunsInsideCommit(t *testing.T) {
	f := newFixture(DefaultConfig())
	var seen []string
	f.svc.Hooks().OnAfterCommit(func(ctx context.Context, s *Settlement) error {
		seen = append(seen, s.Number)
		return nil
	})

	res, err := f.svc.Commit(context.Background(), scenarioDraft(t, f))
	require.NoError(t, err)
	assert.Equal(t, []string{res.Settlement.Number}, seen)

	f.svc.Hooks().OnAfterCommit(func(ctx context.Context, s *Settlement) error {
		return errors.New("audit down")
	})
	_, err = f.svc.Commit(context.Background(), scenarioDraft(t, f))
	assert.True(t, apperror.IsCommitFailed(err))
}

func TestPreview(t *testing.T) {
	f := newFixture(DefaultConfig())
	d := scenarioDraft(t, f)
	require.NoError(t, d.SetPendingExpense(&Expense{Description: "toll", Amount: money("20")}))

	p, err := f.svc.Preview(context.Background(), d)
	require.NoError(t, err)

	assertMoney(t, "800", p.Calculation.Totals.Total)
	assertMoney(t, "100", p.Calculation.ResidualDebt())
	assert.Empty(t, p.Discrepancies)
	assert.Equal(t, StateEdited, d.State)
	assert.Empty(t, f.settlements.rows)
}

func TestGetDetailsAndList(t *testing.T) {
	f := newFixture(DefaultConfig())
	ctx := context.Background()

	res, err := f.svc.Commit(ctx, scenarioDraft(t, f))
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, res.Settlement.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Settlement.Number, got.Number)

	details, err := f.svc.GetDetails(ctx, res.Settlement.ID)
	require.NoError(t, err)
	assert.Len(t, details.Trail.Revenues, 1)
	assert.NotEmpty(t, details.Movements)

	driverID := f.driver.ID
	list, err := f.svc.List(ctx, ListFilter{DriverID: &driverID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 50, list.Limit)

	other := id.New()
	list, err = f.svc.List(ctx, ListFilter{DriverID: &other})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	_, err = f.svc.GetByID(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
