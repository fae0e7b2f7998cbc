package return_order

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/core/tx"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/stock"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

var tracer = otel.Tracer("gaz/return_order")

// Deps are the collaborators of the settlement service.
type Deps struct {
	SupplyOrders supply_order.Repository
	BottleTypes  bottletype.Repository
	Drivers      driver.Repository
	Settlements  Repository
	Ledger       ledger.Repository
	Stock        stock.Repository
	Numerator    numerator.Generator

	// TxManager wraps the ledger writes. Nil runs them without a transaction,
	// in which case writes that landed before a failure stay in place.
	TxManager tx.Manager
}

// Service orchestrates a settlement: validation, coherence review, calculation
// and ledger writing, driven by the draft state machine.
type Service struct {
	supplyOrders supply_order.Repository
	bottles      bottletype.Repository
	drivers      driver.Repository
	repo         Repository
	ledgerRepo   ledger.Repository
	stock        *stock.Service
	txManager    tx.Manager

	fees       *FeePolicy
	calculator *Calculator
	writer     *LedgerWriter
	policy     *CommitPolicy
	hooks      *domain.HookRegistry[*Settlement]
}

// NewService creates the settlement service. It fails only when the commit policy does not compile.
func NewService(deps Deps, cfg Config) (*Service, error) {
	cfg = cfg.withDefaults()

	policy, err := NewCommitPolicy(cfg.CommitPolicy)
	if err != nil {
		return nil, err
	}

	txm := deps.TxManager
	if txm == nil {
		txm = tx.Passthrough{}
	}

	fees := NewFeePolicy(cfg.ConsigneFees, cfg.TaxRate)
	stockSvc := stock.NewService(deps.BottleTypes, deps.Stock)

	return &Service{
		supplyOrders: deps.SupplyOrders,
		bottles:      deps.BottleTypes,
		drivers:      deps.Drivers,
		repo:         deps.Settlements,
		ledgerRepo:   deps.Ledger,
		stock:        stockSvc,
		txManager:    txm,
		fees:         fees,
		calculator:   NewCalculator(fees),
		writer:       NewLedgerWriter(stockSvc, deps.Drivers, deps.Settlements, deps.Ledger, deps.Numerator, cfg),
		policy:       policy,
		hooks:        domain.NewHookRegistry[*Settlement](),
	}, nil
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Settlement] {
	return s.hooks
}

// NewDraft starts a return order from a supply order.
func (s *Service) NewDraft(ctx context.Context, supplyOrderID id.ID) (*Draft, error) {
	so, err := s.supplyOrders.GetByID(ctx, supplyOrderID)
	if err != nil {
		return nil, err
	}
	if len(so.Lines) == 0 {
		return nil, apperror.NewValidation("supply order has no lines").
			WithDetail("supplyOrderId", supplyOrderID.String())
	}

	d := NewDraftFromSupplyOrder(so)

	logger.Info(ctx, "return order draft created",
		"draft_id", d.ID,
		"supply_order", so.Number,
		"lines", len(d.Items))

	return d, nil
}

// Validate runs the coherence check. It never blocks anything on its own.
func (s *Service) Validate(items []Item, so *supply_order.SupplyOrder) []Discrepancy {
	return Validate(items, so)
}

// ComputeTotals prices items against the supply order.
func (s *Service) ComputeTotals(items []Item, so *supply_order.SupplyOrder, totalExpenses types.Money) Totals {
	return s.fees.ComputeTotals(items, so, totalExpenses)
}

// ComputePaymentSplit projects cash and cheque against totals.
func (s *Service) ComputePaymentSplit(totals Totals, cash, cheque types.Money) PaymentBreakdown {
	return ComputePaymentSplit(totals, cash, cheque)
}

// ConsigneFee exposes the fee table.
func (s *Service) ConsigneFee(bottleTypeName string) types.Money {
	return s.fees.ConsigneFee(bottleTypeName)
}

// Preview is the live view of a draft while it is being edited.
type Preview struct {
	Calculation   Calculation   `json:"calculation"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Preview computes the settlement of a draft without writing anything.
func (s *Service) Preview(ctx context.Context, d *Draft) (*Preview, error) {
	in, err := s.prepare(ctx, d)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Calculation:   s.calculator.Calculate(in),
		Discrepancies: Validate(in.Items, in.SupplyOrder),
	}, nil
}

// CommitResult is returned by a successful commit.
type CommitResult struct {
	Settlement    *Settlement   `json:"settlement"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Journal       *Journal      `json:"journal"`
}

// Commit settles a draft.
//
// Input errors and policy rejections leave the draft as it was and nothing is written.
// A failure while writing moves the draft to failed and back to edited, and returns a
// COMMIT_FAILED error whose cause is a *CommitFailure carrying the journal.
// Committing the same draft content again creates a second settlement.
func (s *Service) Commit(ctx context.Context, d *Draft) (*CommitResult, error) {
	ctx, span := tracer.Start(ctx, "return_order.Commit",
		trace.WithAttributes(attribute.String("supply_order_id", d.SupplyOrderID.String())))
	defer span.End()

	if d.State != StateEdited && d.State != StateDraft {
		return nil, reject(span, apperror.NewInvalidState(string(d.State), string(StateCommitting)))
	}

	in, err := s.prepare(ctx, d)
	if err != nil {
		return nil, reject(span, err)
	}

	discrepancies := Validate(in.Items, in.SupplyOrder)
	for _, disc := range discrepancies {
		logger.Warn(ctx, "return order line is not coherent",
			"bottle_type", disc.BottleTypeName,
			"message", disc.Message)
	}

	calc := s.calculator.Calculate(in)

	if err := s.policy.Check(ctx, factsFrom(calc, discrepancies)); err != nil {
		return nil, reject(span, err)
	}

	if d.State == StateDraft {
		_ = d.transition(StateEdited)
	}
	if err := d.transition(StateCommitting); err != nil {
		return nil, reject(span, err)
	}

	journal := &Journal{}
	var settlement *Settlement

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		created, err := s.writer.Write(ctx, WriteInput{
			Draft:       d,
			SupplyOrder: in.SupplyOrder,
			Calculation: calc,
			CreatedBy:   appctx.GetUserID(ctx),
		}, journal)
		if err != nil {
			return err
		}
		if err := s.hooks.RunAfterCommit(ctx, created); err != nil {
			return &CommitFailure{Step: "hooks", Journal: journal, Err: err}
		}
		settlement = created
		return nil
	})

	if err != nil {
		return nil, s.fail(ctx, span, d, journal, err)
	}

	_ = d.transition(StateCommitted)

	span.SetAttributes(attribute.String("settlement.number", settlement.Number))
	logger.Info(ctx, "settlement committed",
		"id", settlement.ID,
		"number", settlement.Number,
		"total", settlement.Payment.Total.String(),
		"residual_debt", settlement.Payment.Debt.String(),
		"discrepancies", len(discrepancies))

	return &CommitResult{
		Settlement:    settlement,
		Discrepancies: discrepancies,
		Journal:       journal,
	}, nil
}

// reject records an error raised before anything was written.
func reject(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "commit rejected")
	return err
}

func (s *Service) fail(ctx context.Context, span trace.Span, d *Draft, journal *Journal, err error) error {
	journal.RolledBack = tx.IsTransactional(s.txManager)

	var failure *CommitFailure
	if !errors.As(err, &failure) {
		failure = &CommitFailure{Step: "transaction", Journal: journal, Err: err}
	}

	_ = d.transition(StateFailed)
	_ = d.transition(StateEdited)

	span.RecordError(err)
	span.SetStatus(codes.Error, "commit failed")
	logger.Error(ctx, "settlement commit failed",
		"step", failure.Step,
		"landed", journal.Steps(),
		"rolled_back", journal.RolledBack,
		"error", err)

	return apperror.NewCommitFailed(failure).
		WithDetail("step", failure.Step).
		WithDetail("journal", journal)
}

// prepare validates the draft and loads what the calculator needs.
func (s *Service) prepare(ctx context.Context, d *Draft) (CalculationInput, error) {
	if d == nil {
		return CalculationInput{}, apperror.NewValidation("draft is required")
	}
	if err := d.Validate(ctx); err != nil {
		return CalculationInput{}, err
	}

	so, err := s.supplyOrders.GetByID(ctx, d.SupplyOrderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return CalculationInput{}, apperror.NewValidation("supply order does not exist").
				WithDetail("supplyOrderId", d.SupplyOrderID.String())
		}
		return CalculationInput{}, fmt.Errorf("load supply order: %w", err)
	}

	if _, err := s.drivers.GetByID(ctx, d.DriverID); err != nil {
		if apperror.IsNotFound(err) {
			return CalculationInput{}, apperror.NewValidation("driver does not exist").
				WithDetail("driverId", d.DriverID.String())
		}
		return CalculationInput{}, fmt.Errorf("load driver: %w", err)
	}

	list, err := s.bottles.List(ctx)
	if err != nil {
		return CalculationInput{}, fmt.Errorf("load bottle types: %w", err)
	}
	prices := bottletype.Index(list)
	for _, item := range d.Items {
		if _, ok := prices[item.BottleTypeID]; !ok {
			return CalculationInput{}, apperror.NewValidation("unknown bottle type").
				WithDetail("bottleTypeId", item.BottleTypeID.String()).
				WithDetail("bottleType", item.BottleTypeName)
		}
	}

	return CalculationInput{
		Items:       d.Items,
		SupplyOrder: so,
		Expenses:    d.AllExpenses(),
		Payment:     d.Payment,
		Prices:      prices,
	}, nil
}

// GetByID returns a committed settlement.
func (s *Service) GetByID(ctx context.Context, settlementID id.ID) (*Settlement, error) {
	return s.repo.GetByID(ctx, settlementID)
}

// Details is a settlement together with everything it wrote.
type Details struct {
	Settlement *Settlement            `json:"settlement"`
	Trail      *ledger.Trail          `json:"trail"`
	Movements  []entity.StockMovement `json:"movements"`
}

// GetDetails loads a settlement with its ledger rows and stock movements.
func (s *Service) GetDetails(ctx context.Context, settlementID id.ID) (*Details, error) {
	st, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	trail, err := s.ledgerRepo.TrailFor(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("load ledger trail: %w", err)
	}
	movements, err := s.stock.MovementsFor(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("load stock movements: %w", err)
	}
	return &Details{Settlement: st, Trail: trail, Movements: movements}, nil
}

// List retrieves settlements with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Settlement], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
