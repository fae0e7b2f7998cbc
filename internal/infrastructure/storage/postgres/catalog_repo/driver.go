package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const driversTable = "cat_drivers"

// DriverRepo implements driver.Repository.
type DriverRepo struct {
	*BaseCatalogRepo[driver.Driver]
}

var _ driver.Repository = (*DriverRepo)(nil)

// NewDriverRepo creates a new driver repository.
func NewDriverRepo(txm *postgres.TxManager) *DriverRepo {
	return &DriverRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[driver.Driver](txm, driversTable),
	}
}

// IncrementDebt adds amount to the debt in one statement, so concurrent
// settlements for the same driver never lose an increment.
func (r *DriverRepo) IncrementDebt(ctx context.Context, driverID id.ID, amount types.Money) (*driver.Driver, error) {
	return r.updateReturning(ctx, driverID, debtIncrement(amount))
}

func debtIncrement(amount types.Money) map[string]any {
	return map[string]any{
		"debt":    squirrel.Expr("debt + ?", amount),
		"balance": squirrel.Expr("advances - (debt + ?)", amount),
	}
}
