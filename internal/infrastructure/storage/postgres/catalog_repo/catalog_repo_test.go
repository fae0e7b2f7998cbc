package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
)

func TestGetForUpdateLocksRow(t *testing.T) {
	repo := NewBaseCatalogRepo[bottletype.BottleType](nil, bottleTypesTable)
	btID := id.New()

	sql, args, err := repo.baseSelect().Where(squirrel.Eq{"id": btID}).Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, version, code, name, unit_price, distributed_quantity, remaining_quantity, empty_quantity "+
			"FROM cat_bottle_types WHERE id = $1 FOR UPDATE", sql)
	assert.Equal(t, []any{btID}, args)
}

func TestIncrementDebtIsASingleStatement(t *testing.T) {
	repo := NewBaseCatalogRepo[driver.Driver](nil, driversTable)
	driverID := id.New()
	amount := types.MustMoney("120")

	sql, args, err := repo.updateQuery(driverID, debtIncrement(amount)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE cat_drivers SET")
	assert.Contains(t, sql, "debt = debt + $")
	assert.Contains(t, sql, "balance = advances - (debt + $")
	assert.Contains(t, sql, "version = version + 1")
	assert.Contains(t, sql, "RETURNING id, version, code, name, debt, advances, balance")
	assert.Len(t, args, 3)
	assert.Equal(t, driverID, args[2])
}
