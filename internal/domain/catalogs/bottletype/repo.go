package bottletype

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// Repository defines the interface for BottleType persistence.
type Repository interface {
	// GetByID returns the bottle type or a NOT_FOUND AppError.
	GetByID(ctx context.Context, id id.ID) (*BottleType, error)

	// GetForUpdate retrieves the bottle type with a row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*BottleType, error)

	// UpdateFields writes the given counters and returns the new state.
	UpdateFields(ctx context.Context, id id.ID, fields Fields) (*BottleType, error)

	// List returns all bottle types ordered by name.
	List(ctx context.Context) ([]*BottleType, error)

	Create(ctx context.Context, b *BottleType) error
}

// PriceIndex maps bottle type ID to its live unit price.
type PriceIndex map[id.ID]*BottleType

// Index builds a PriceIndex from a list.
func Index(list []*BottleType) PriceIndex {
	idx := make(PriceIndex, len(list))
	for _, b := range list {
		idx[b.ID] = b
	}
	return idx
}
