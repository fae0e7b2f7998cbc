package catalog_repo

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const bottleTypesTable = "cat_bottle_types"

// BottleTypeRepo implements bottletype.Repository.
type BottleTypeRepo struct {
	*BaseCatalogRepo[bottletype.BottleType]
}

var _ bottletype.Repository = (*BottleTypeRepo)(nil)

// NewBottleTypeRepo creates a new bottle type repository.
func NewBottleTypeRepo(txm *postgres.TxManager) *BottleTypeRepo {
	return &BottleTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[bottletype.BottleType](txm, bottleTypesTable),
	}
}

// List returns all bottle types ordered by name.
func (r *BottleTypeRepo) List(ctx context.Context) ([]*bottletype.BottleType, error) {
	return r.ListAll(ctx)
}

// UpdateFields writes the set counters and returns the row as stored.
func (r *BottleTypeRepo) UpdateFields(ctx context.Context, btID id.ID, f bottletype.Fields) (*bottletype.BottleType, error) {
	if f.IsEmpty() {
		return r.GetByID(ctx, btID)
	}

	set := make(map[string]any, 3)
	if f.DistributedQuantity != nil {
		set["distributed_quantity"] = *f.DistributedQuantity
	}
	if f.RemainingQuantity != nil {
		set["remaining_quantity"] = *f.RemainingQuantity
	}
	if f.EmptyQuantity != nil {
		set["empty_quantity"] = *f.EmptyQuantity
	}
	return r.updateReturning(ctx, btID, set)
}
