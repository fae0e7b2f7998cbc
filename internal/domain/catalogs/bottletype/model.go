// Package bottletype provides the BottleType catalog: gas bottle sizes with their
// live unit price and the three stock counters the settlement engine adjusts.
package bottletype

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// BottleType is a bottle size (e.g. "12KG") and its stock position.
type BottleType struct {
	entity.Catalog

	// UnitPrice is the current selling price of one bottle.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// DistributedQuantity is the number of full bottles currently out with trucks.
	DistributedQuantity types.Quantity `db:"distributed_quantity" json:"distributedQuantity"`

	// RemainingQuantity is the full-goods inventory in the depot.
	RemainingQuantity types.Quantity `db:"remaining_quantity" json:"remainingQuantity"`

	// EmptyQuantity is the empty-bottle stock. Starts at 0.
	EmptyQuantity types.Quantity `db:"empty_quantity" json:"emptyQuantity"`
}

// NewBottleType creates a BottleType with zeroed counters.
func NewBottleType(code, name string, unitPrice types.Money) *BottleType {
	return &BottleType{
		Catalog:   entity.NewCatalog(code, name),
		UnitPrice: unitPrice,
	}
}

// Validate implements entity.Validatable interface.
func (b *BottleType) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}
	if b.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if b.DistributedQuantity < 0 || b.RemainingQuantity < 0 {
		return apperror.NewValidation("full-goods counters cannot be negative").
			WithDetail("bottleType", b.Name)
	}
	return nil
}

// Fields is a partial update of the stock counters. Nil fields are left untouched.
type Fields struct {
	DistributedQuantity *types.Quantity
	RemainingQuantity   *types.Quantity
	EmptyQuantity       *types.Quantity
}

// IsEmpty reports whether the update touches nothing.
func (f Fields) IsEmpty() bool {
	return f.DistributedQuantity == nil && f.RemainingQuantity == nil && f.EmptyQuantity == nil
}

// Apply writes the set fields onto b.
func (f Fields) Apply(b *BottleType) {
	if f.DistributedQuantity != nil {
		b.DistributedQuantity = *f.DistributedQuantity
	}
	if f.RemainingQuantity != nil {
		b.RemainingQuantity = *f.RemainingQuantity
	}
	if f.EmptyQuantity != nil {
		b.EmptyQuantity = *f.EmptyQuantity
	}
}
