package return_order

import (
	"context"
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
)

// Repository stores committed settlements. Settlements are never updated.
type Repository interface {
	// Create inserts the settlement with its items and returns its identity.
	Create(ctx context.Context, s *Settlement) (id.ID, error)

	// GetByID returns the settlement with items, or a NOT_FOUND AppError.
	GetByID(ctx context.Context, settlementID id.ID) (*Settlement, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Settlement], error)
}

// ListFilter for filtering settlements.
type ListFilter struct {
	domain.ListFilter

	DriverID      *id.ID
	SupplyOrderID *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
}
