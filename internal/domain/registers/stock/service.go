package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

// Recorder identifies the document an adjustment is booked against.
type Recorder struct {
	ID     id.ID
	Type   string
	Period time.Time
}

// ReturnLine is the slice of a return-order line the stock register cares about.
type ReturnLine struct {
	BottleTypeID  id.ID
	ReturnedEmpty types.Quantity
	Consigne      types.Quantity
	Lost          types.Quantity
	Foreign       types.Quantity
	ReturnedFull  types.Quantity
	OutgoingFull  types.Quantity
}

// Service adjusts bottle-type counters.
// Every adjustment reads the current row (locked when inside a transaction),
// writes the new value back and records a movement. Transactions are managed by the caller.
type Service struct {
	bottles bottletype.Repository
	repo    Repository
}

// NewService creates a new stock register service.
func NewService(bottles bottletype.Repository, repo Repository) *Service {
	return &Service{
		bottles: bottles,
		repo:    repo,
	}
}

// AdjustEmptyStock adds delta to the empty-bottle counter. The counter may go negative.
func (s *Service) AdjustEmptyStock(ctx context.Context, rec Recorder, bottleTypeID id.ID, delta types.Quantity) (*bottletype.BottleType, error) {
	current, err := s.bottles.GetForUpdate(ctx, bottleTypeID)
	if err != nil {
		return nil, fmt.Errorf("load bottle type %s: %w", bottleTypeID, err)
	}
	if delta == 0 {
		return current, nil
	}

	empty := current.EmptyQuantity + delta
	updated, err := s.bottles.UpdateFields(ctx, bottleTypeID, bottletype.Fields{EmptyQuantity: &empty})
	if err != nil {
		return nil, fmt.Errorf("update empty stock: %w", err)
	}

	mv := entity.NewStockMovement(rec.ID, rec.Type, rec.Period, bottleTypeID, entity.StockKindEmpty, delta, updated.EmptyQuantity)
	if err := s.record(ctx, mv); err != nil {
		return nil, err
	}

	return updated, nil
}

// AdjustFullInventory puts returned full bottles back into inventory and takes the
// outgoing load off the distributed counter. Distributed never drops below zero.
func (s *Service) AdjustFullInventory(ctx context.Context, rec Recorder, bottleTypeID id.ID, returnedFull, outgoingFull types.Quantity) (*bottletype.BottleType, error) {
	if returnedFull < 0 || outgoingFull < 0 {
		return nil, apperror.NewValidation("full inventory quantities cannot be negative").
			WithDetail("bottleTypeId", bottleTypeID.String())
	}

	current, err := s.bottles.GetForUpdate(ctx, bottleTypeID)
	if err != nil {
		return nil, fmt.Errorf("load bottle type %s: %w", bottleTypeID, err)
	}

	remaining := current.RemainingQuantity + returnedFull
	distributed := types.MaxZeroQuantity(current.DistributedQuantity - outgoingFull)

	updated, err := s.bottles.UpdateFields(ctx, bottleTypeID, bottletype.Fields{
		RemainingQuantity:   &remaining,
		DistributedQuantity: &distributed,
	})
	if err != nil {
		return nil, fmt.Errorf("update full inventory: %w", err)
	}

	var movements []entity.StockMovement
	if returnedFull > 0 {
		movements = append(movements, entity.NewStockMovement(
			rec.ID, rec.Type, rec.Period, bottleTypeID, entity.StockKindFull, returnedFull, updated.RemainingQuantity))
	}
	if d := updated.DistributedQuantity - current.DistributedQuantity; d != 0 {
		movements = append(movements, entity.NewStockMovement(
			rec.ID, rec.Type, rec.Period, bottleTypeID, entity.StockKindDistributed, d, updated.DistributedQuantity))
	}
	if err := s.record(ctx, movements...); err != nil {
		return nil, err
	}

	return updated, nil
}

// ApplyReturnLine runs the per-line sequence against the live counter:
// +returned empty, -consigne, -lost, -foreign, then the full-inventory adjustment.
// Each step is its own read-modify-write; the deltas are never pre-summed.
func (s *Service) ApplyReturnLine(ctx context.Context, rec Recorder, line ReturnLine) (*bottletype.BottleType, error) {
	if line.ReturnedEmpty < 0 || line.Consigne < 0 || line.Lost < 0 || line.Foreign < 0 {
		return nil, apperror.NewValidation("return quantities cannot be negative").
			WithDetail("bottleTypeId", line.BottleTypeID.String())
	}

	steps := []types.Quantity{line.ReturnedEmpty, -line.Consigne, -line.Lost, -line.Foreign}
	for _, delta := range steps {
		if delta == 0 {
			continue
		}
		if _, err := s.AdjustEmptyStock(ctx, rec, line.BottleTypeID, delta); err != nil {
			return nil, err
		}
	}

	return s.AdjustFullInventory(ctx, rec, line.BottleTypeID, line.ReturnedFull, line.OutgoingFull)
}

// MovementsFor returns the movement trail of a document.
func (s *Service) MovementsFor(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

func (s *Service) record(ctx context.Context, movements ...entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	if err := s.repo.AppendMovements(ctx, movements); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}

	logger.Debug(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
		"bottle_type_id", movements[0].BottleTypeID,
	)
	return nil
}
