// Package stock provides the bottle stock register: counter adjustments on bottle
// types plus the append-only movement trail that explains them.
package stock

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// Repository defines operations for the stock movement register.
type Repository interface {
	// AppendMovements batch inserts movements. Movements are never updated.
	AppendMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsByRecorder retrieves all movements written by a document.
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)
}
