// Package driver provides the Driver catalog with the running debt account.
package driver

import (
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// Driver is a truck driver settling return orders.
type Driver struct {
	entity.Catalog

	// Debt is what the driver owes the company.
	Debt types.Money `db:"debt" json:"debt"`

	// Advances is what the company owes the driver.
	Advances types.Money `db:"advances" json:"advances"`

	// Balance = Advances - Debt. Negative means the driver owes money.
	Balance types.Money `db:"balance" json:"balance"`
}

// NewDriver creates a Driver with a clean account.
func NewDriver(code, name string) *Driver {
	return &Driver{
		Catalog:  entity.NewCatalog(code, name),
		Debt:     types.Zero(),
		Advances: types.Zero(),
		Balance:  types.Zero(),
	}
}

// AddDebt increases debt by amount and recomputes the balance.
func (d *Driver) AddDebt(amount types.Money) {
	d.Debt = d.Debt.Add(amount)
	d.Recompute()
}

// Recompute derives Balance from Advances and Debt.
func (d *Driver) Recompute() {
	d.Balance = d.Advances.Sub(d.Debt)
}
