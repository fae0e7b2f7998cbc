package supply_order

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// Repository defines read access to supply orders.
type Repository interface {
	// GetByID returns the order with its lines, or a NOT_FOUND AppError.
	GetByID(ctx context.Context, docID id.ID) (*SupplyOrder, error)

	Create(ctx context.Context, doc *SupplyOrder) error
}
