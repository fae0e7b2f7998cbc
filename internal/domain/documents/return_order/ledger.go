package return_order

import (
	"context"
	"fmt"
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/stock"
)

// Ledger writer steps, in execution order.
const (
	StepStock      = "stock"
	StepDebtChange = "debt_change"
	StepSettlement = "settlement"
	StepForeign    = "foreign"
	StepDefective  = "defective"
	StepExpenses   = "expenses"
	StepRevenue    = "revenue"
	StepDriverDebt = "driver_debt"
)

// JournalEntry is one landed write.
type JournalEntry struct {
	Step   string    `json:"step"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Journal is the unit-of-work record of a commit: which writes landed, in order.
type Journal struct {
	SettlementID id.ID          `json:"settlementId"`
	Entries      []JournalEntry `json:"entries"`
	// RolledBack is set when the writes ran in a transaction that was rolled back.
	RolledBack bool `json:"rolledBack"`
}

func (j *Journal) record(step, format string, args ...any) {
	j.Entries = append(j.Entries, JournalEntry{
		Step:   step,
		Detail: fmt.Sprintf(format, args...),
		At:     time.Now().UTC(),
	})
}

// Steps lists the landed step names.
func (j *Journal) Steps() []string {
	out := make([]string, 0, len(j.Entries))
	for _, e := range j.Entries {
		out = append(out, e.Step)
	}
	return out
}

// CommitFailure is returned when a ledger write fails. Journal tells which writes landed.
type CommitFailure struct {
	Step    string
	Journal *Journal
	Err     error
}

func (e *CommitFailure) Error() string {
	return fmt.Sprintf("commit failed at %s after %d writes: %v", e.Step, len(e.Journal.Entries), e.Err)
}

func (e *CommitFailure) Unwrap() error {
	return e.Err
}

// LedgerWriter turns a calculated draft into ledger writes.
type LedgerWriter struct {
	stock       *stock.Service
	drivers     driver.Repository
	settlements Repository
	ledger      ledger.Repository
	numerator   numerator.Generator
	numCfg      numerator.Config
	numOpts     *numerator.Options
}

// NewLedgerWriter creates a ledger writer.
func NewLedgerWriter(
	stockSvc *stock.Service,
	drivers driver.Repository,
	settlements Repository,
	ledgerRepo ledger.Repository,
	gen numerator.Generator,
	cfg Config,
) *LedgerWriter {
	return &LedgerWriter{
		stock:       stockSvc,
		drivers:     drivers,
		settlements: settlements,
		ledger:      ledgerRepo,
		numerator:   gen,
		numCfg:      numerator.DefaultConfig(cfg.NumberPrefix),
		numOpts:     &numerator.Options{Strategy: cfg.NumberStrategy},
	}
}

// WriteInput is a validated draft plus its calculation.
type WriteInput struct {
	Draft       *Draft
	SupplyOrder *supply_order.SupplyOrder
	Calculation Calculation
	CreatedBy   string
}

// settledItems copies the draft items with the outgoing quantity taken from the supply order.
func settledItems(items []Item, so *supply_order.SupplyOrder) []Item {
	out := cloneItems(items)
	for i := range out {
		out[i].OutgoingFull = outgoingFull(out[i], so)
	}
	return out
}

// Write runs every ledger step in order and returns the created settlement.
// The journal is filled as steps land; on error it is wrapped in a *CommitFailure.
func (w *LedgerWriter) Write(ctx context.Context, in WriteInput, journal *Journal) (*Settlement, error) {
	d := in.Draft
	calc := in.Calculation

	s := &Settlement{
		SupplyOrderID:     d.SupplyOrderID,
		SupplyOrderNumber: d.SupplyOrderNumber,
		DriverID:          d.DriverID,
		Items:             settledItems(d.Items, in.SupplyOrder),
		TotalSales:        calc.Sales.TotalSalesAmount,
		TotalExpenses:     calc.TotalExpenses,
		TotalLoss:         calc.TotalLoss,
		NetSales:          calc.NetSales,
		DebtChange:        calc.DriverDebtChange,
		Payment:           calc.Payment,
	}
	s.ID = id.New()
	s.Version = 1
	s.Date = d.Date
	s.CreatedAt = time.Now().UTC()
	s.CreatedBy = in.CreatedBy
	journal.SettlementID = s.ID

	fail := func(step string, err error) error {
		return &CommitFailure{Step: step, Journal: journal, Err: err}
	}

	// 1. stock and inventory, line by line
	rec := stock.Recorder{ID: s.ID, Type: DocumentType, Period: s.Date}
	for _, item := range s.Items {
		_, err := w.stock.ApplyReturnLine(ctx, rec, stock.ReturnLine{
			BottleTypeID:  item.BottleTypeID,
			ReturnedEmpty: item.ReturnedEmpty,
			Consigne:      item.Consigne,
			Lost:          item.Lost,
			Foreign:       item.Foreign,
			ReturnedFull:  item.ReturnedFull,
			OutgoingFull:  item.OutgoingFull,
		})
		if err != nil {
			return nil, fail(StepStock, fmt.Errorf("bottle type %s: %w", item.BottleTypeName, err))
		}
		journal.record(StepStock, "%s", item.BottleTypeName)
	}

	// 2. loss value
	journal.record(StepDebtChange, "%s", calc.DriverDebtChange.String())

	// 3. settlement record
	number, err := w.numerator.GetNextNumber(ctx, w.numCfg, w.numOpts, s.Date)
	if err != nil {
		return nil, fail(StepSettlement, fmt.Errorf("generate number: %w", err))
	}
	s.Number = number

	createdID, err := w.settlements.Create(ctx, s)
	if err != nil {
		return nil, fail(StepSettlement, fmt.Errorf("create settlement: %w", err))
	}
	if !id.IsNil(createdID) {
		s.ID = createdID
		journal.SettlementID = createdID
	}
	journal.record(StepSettlement, "%s", s.Number)

	// 4. foreign bottles: the breakdown when captured, otherwise one fallback row
	if foreign := foreignEntries(s, d); len(foreign) > 0 {
		if err := w.ledger.AppendForeign(ctx, foreign); err != nil {
			return nil, fail(StepForeign, err)
		}
		journal.record(StepForeign, "%d rows", len(foreign))
	}

	// 5. defective bottles
	var defective []ledger.DefectiveBottleEntry
	for _, item := range d.Items {
		if item.Defective > 0 {
			defective = append(defective, ledger.NewDefectiveBottleEntry(
				s.ID, s.Date, item.BottleTypeID, item.BottleTypeName, item.Defective))
		}
	}
	if len(defective) > 0 {
		if err := w.ledger.AppendDefective(ctx, defective); err != nil {
			return nil, fail(StepDefective, err)
		}
		journal.record(StepDefective, "%d rows", len(defective))
	}

	// 6. expenses as enterprise debt
	var expenses []ledger.ExpenseEntry
	for _, e := range d.AllExpenses() {
		expenses = append(expenses, ledger.NewExpenseEntry(s.ID, s.Date, e.Description, e.Amount))
	}
	if len(expenses) > 0 {
		if err := w.ledger.AppendExpenses(ctx, expenses); err != nil {
			return nil, fail(StepExpenses, err)
		}
		journal.record(StepExpenses, "%d rows", len(expenses))
	}

	// 7. revenue plus the cash and cheque legs
	if paid := d.Payment.Paid(); paid.IsPositive() {
		desc := fmt.Sprintf("Settlement %s (%s)", s.Number, s.SupplyOrderNumber)
		if err := w.ledger.AppendRevenue(ctx, ledger.NewRevenue(s.ID, s.Date, desc, d.Payment.Cash, d.Payment.Cheque)); err != nil {
			return nil, fail(StepRevenue, err)
		}
		if d.Payment.Cash.IsPositive() {
			if err := w.ledger.AppendCashOperation(ctx, ledger.NewCashOperation(s.ID, s.Date, desc, d.Payment.Cash)); err != nil {
				return nil, fail(StepRevenue, fmt.Errorf("cash operation: %w", err))
			}
		}
		if d.Payment.Cheque.IsPositive() {
			if err := w.ledger.AppendFinancialTransaction(ctx, ledger.NewFinancialTransaction(s.ID, s.Date, desc, d.Payment.Cheque)); err != nil {
				return nil, fail(StepRevenue, fmt.Errorf("financial transaction: %w", err))
			}
		}
		journal.record(StepRevenue, "%s", paid.String())
	}

	// 8. residual debt
	if residual := calc.ResidualDebt(); residual.IsPositive() {
		if _, err := w.drivers.IncrementDebt(ctx, s.DriverID, residual); err != nil {
			return nil, fail(StepDriverDebt, err)
		}
		journal.record(StepDriverDebt, "%s", residual.String())
	}

	return s, nil
}

func foreignEntries(s *Settlement, d *Draft) []ledger.ForeignBottleEntry {
	var out []ledger.ForeignBottleEntry
	for _, item := range d.Items {
		if breakdown := d.ForeignBreakdown[item.BottleTypeID]; len(breakdown) > 0 {
			for _, e := range breakdown {
				label := e.BottleTypeLabel
				if label == "" {
					label = item.BottleTypeName
				}
				out = append(out, ledger.NewForeignBottleEntry(s.ID, s.Date, e.Brand, label, e.Quantity))
			}
			continue
		}
		if item.Foreign > 0 {
			out = append(out, ledger.NewForeignBottleEntry(
				s.ID, s.Date, ledger.FallbackBrand, item.BottleTypeName, item.Foreign))
		}
	}
	return out
}
