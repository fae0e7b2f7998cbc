package driver

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// Repository defines the interface for Driver persistence.
type Repository interface {
	GetByID(ctx context.Context, id id.ID) (*Driver, error)

	// IncrementDebt adds amount to the driver's debt, recomputes the balance
	// and returns the new state.
	IncrementDebt(ctx context.Context, id id.ID, amount types.Money) (*Driver, error)

	Create(ctx context.Context, d *Driver) error
}
