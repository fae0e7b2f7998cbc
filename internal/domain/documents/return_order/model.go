// Package return_order provides the return-order settlement ("Bon d'Entrée"):
// a driver's return is reconciled against the supply order, priced, split into
// cash, cheque and debt, and written to the stock, debt and financial ledgers.
package return_order

import (
	"context"
	"strings"
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

// Item is one bottle type on the return. Outgoing quantities are copied from the
// supply order; the rest is entered by the driver and defaults to zero.
type Item struct {
	BottleTypeID   id.ID  `json:"bottleTypeId"`
	BottleTypeName string `json:"bottleTypeName"`

	OutgoingEmpty types.Quantity `json:"outgoingEmpty"`
	OutgoingFull  types.Quantity `json:"outgoingFull"`

	ReturnedEmpty types.Quantity `json:"returnedEmpty"`
	ReturnedFull  types.Quantity `json:"returnedFull"`
	Foreign       types.Quantity `json:"foreign"`
	Defective     types.Quantity `json:"defective"`
	// Lost is the "R.C" count: bottles unaccounted for, billed to the driver.
	Lost types.Quantity `json:"lost"`
	// Consigne counts bottles sold with a deposit and not returned.
	Consigne types.Quantity `json:"consigne"`
}

// Sales is the "ventes" count of the line: returned empties plus consigne.
func (i Item) Sales() types.Quantity {
	return i.ReturnedEmpty + i.Consigne
}

func (i Item) validate(lineNo int) error {
	if id.IsNil(i.BottleTypeID) {
		return apperror.NewValidation("bottle type is required").
			WithDetail("field", "items").
			WithDetail("lineNo", lineNo)
	}
	quantities := []types.Quantity{
		i.OutgoingEmpty, i.OutgoingFull, i.ReturnedEmpty, i.ReturnedFull,
		i.Foreign, i.Defective, i.Lost, i.Consigne,
	}
	for _, q := range quantities {
		if q.IsNegative() {
			return apperror.NewValidation("quantities cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", lineNo).
				WithDetail("bottleType", i.BottleTypeName)
		}
	}
	return nil
}

// Expense is an enterprise expense the driver paid out of the takings.
type Expense struct {
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
}

// IsValid reports whether the expense has a description and a positive amount.
func (e Expense) IsValid() bool {
	return strings.TrimSpace(e.Description) != "" && e.Amount.IsPositive()
}

// ForeignEntry is one brand line of a foreign-bottle breakdown.
type ForeignEntry struct {
	Brand           string         `json:"brand"`
	BottleTypeLabel string         `json:"bottleTypeLabel"`
	Quantity        types.Quantity `json:"quantity"`
}

// ForeignBreakdown itemizes foreign bottles per return line, keyed by bottle type.
// It lives on the draft only and is turned into ledger entries at commit.
type ForeignBreakdown map[id.ID][]ForeignEntry

// Payment is what the driver hands over.
type Payment struct {
	Cash   types.Money `json:"cash"`
	Cheque types.Money `json:"cheque"`
}

// Paid returns cash + cheque.
func (p Payment) Paid() types.Money {
	return p.Cash.Add(p.Cheque)
}

// Draft is the working copy of a return order while the driver's figures are entered.
type Draft struct {
	ID id.ID `json:"id"`

	SupplyOrderID     id.ID     `json:"supplyOrderId"`
	SupplyOrderNumber string    `json:"supplyOrderNumber"`
	DriverID          id.ID     `json:"driverId"`
	Date              time.Time `json:"date"`

	Items            []Item           `json:"items"`
	Expenses         []Expense        `json:"expenses"`
	PendingExpense   *Expense         `json:"pendingExpense,omitempty"`
	ForeignBreakdown ForeignBreakdown `json:"foreignBreakdown,omitempty"`
	Payment          Payment          `json:"payment"`

	State State `json:"state"`
}

// NewDraftFromSupplyOrder builds a draft with one zeroed item per supply-order line.
func NewDraftFromSupplyOrder(so *supply_order.SupplyOrder) *Draft {
	items := make([]Item, 0, len(so.Lines))
	for _, l := range so.Lines {
		items = append(items, Item{
			BottleTypeID:   l.BottleTypeID,
			BottleTypeName: l.BottleTypeName,
			OutgoingEmpty:  l.EmptyQuantity,
			OutgoingFull:   l.FullQuantity,
		})
	}
	return &Draft{
		ID:                id.New(),
		SupplyOrderID:     so.ID,
		SupplyOrderNumber: so.Number,
		DriverID:          so.DriverID,
		Date:              time.Now().UTC(),
		Items:             items,
		Expenses:          make([]Expense, 0),
		ForeignBreakdown:  make(ForeignBreakdown),
		Payment:           Payment{Cash: types.Zero(), Cheque: types.Zero()},
		State:             StateDraft,
	}
}

// UpdateItem applies fn to the item of a bottle type.
func (d *Draft) UpdateItem(bottleTypeID id.ID, fn func(*Item)) error {
	for i := range d.Items {
		if d.Items[i].BottleTypeID == bottleTypeID {
			if err := d.transition(StateEdited); err != nil {
				return err
			}
			fn(&d.Items[i])
			return nil
		}
	}
	return apperror.NewNotFound("return_item", bottleTypeID)
}

// AddExpense commits an expense to the draft.
func (d *Draft) AddExpense(e Expense) error {
	if !e.IsValid() {
		return apperror.NewValidation("expense needs a description and a positive amount").
			WithDetail("field", "expenses")
	}
	if err := d.transition(StateEdited); err != nil {
		return err
	}
	d.Expenses = append(d.Expenses, e)
	return nil
}

// SetPendingExpense records the expense still being typed. It is only
// written at commit if it is valid by then.
func (d *Draft) SetPendingExpense(e *Expense) error {
	if err := d.transition(StateEdited); err != nil {
		return err
	}
	d.PendingExpense = e
	return nil
}

// SetForeignBreakdown replaces the brand breakdown of one line.
func (d *Draft) SetForeignBreakdown(bottleTypeID id.ID, entries []ForeignEntry) error {
	if err := d.transition(StateEdited); err != nil {
		return err
	}
	if d.ForeignBreakdown == nil {
		d.ForeignBreakdown = make(ForeignBreakdown)
	}
	if len(entries) == 0 {
		delete(d.ForeignBreakdown, bottleTypeID)
		return nil
	}
	d.ForeignBreakdown[bottleTypeID] = append([]ForeignEntry(nil), entries...)
	return nil
}

// SetPayment records the cash and cheque amounts.
func (d *Draft) SetPayment(cash, cheque types.Money) error {
	if err := d.transition(StateEdited); err != nil {
		return err
	}
	d.Payment = Payment{Cash: cash, Cheque: cheque}
	return nil
}

// AllExpenses returns committed expenses plus the pending one when it is valid.
func (d *Draft) AllExpenses() []Expense {
	out := make([]Expense, 0, len(d.Expenses)+1)
	out = append(out, d.Expenses...)
	if d.PendingExpense != nil && d.PendingExpense.IsValid() {
		out = append(out, *d.PendingExpense)
	}
	return out
}

// TotalExpenses sums AllExpenses.
func (d *Draft) TotalExpenses() types.Money {
	return sumExpenses(d.AllExpenses())
}

func sumExpenses(expenses []Expense) types.Money {
	total := types.Zero()
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Validate checks the draft input. It does not look at coherence.
func (d *Draft) Validate(ctx context.Context) error {
	if id.IsNil(d.SupplyOrderID) {
		return apperror.NewValidation("supply order is required").
			WithDetail("field", "supplyOrderId")
	}
	if id.IsNil(d.DriverID) {
		return apperror.NewValidation("driver is required").
			WithDetail("field", "driverId")
	}
	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	lines := make(map[id.ID]bool, len(d.Items))
	for i, item := range d.Items {
		if err := item.validate(i + 1); err != nil {
			return err
		}
		lines[item.BottleTypeID] = true
	}

	for i, e := range d.Expenses {
		if !e.IsValid() {
			return apperror.NewValidation("expense needs a description and a positive amount").
				WithDetail("field", "expenses").
				WithDetail("index", i)
		}
	}

	for btID, entries := range d.ForeignBreakdown {
		if !lines[btID] {
			return apperror.NewValidation("foreign breakdown refers to a bottle type not on the return").
				WithDetail("field", "foreignBreakdown").
				WithDetail("bottleTypeId", btID.String())
		}
		for _, e := range entries {
			if strings.TrimSpace(e.Brand) == "" || !e.Quantity.IsPositive() {
				return apperror.NewValidation("foreign entries need a brand and a positive quantity").
					WithDetail("field", "foreignBreakdown").
					WithDetail("bottleTypeId", btID.String())
			}
		}
	}

	if d.Payment.Cash.IsNegative() || d.Payment.Cheque.IsNegative() {
		return apperror.NewValidation("payment amounts cannot be negative").
			WithDetail("field", "payment")
	}

	return nil
}

// PaymentBreakdown is the payment record stored with a settlement.
// The JSON field set is part of the stored format.
type PaymentBreakdown struct {
	Cash     types.Money `json:"cash"`
	Cheque   types.Money `json:"cheque"`
	Debt     types.Money `json:"debt"`
	Total    types.Money `json:"total"`
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
}

// Settlement is the committed return order. Created once per commit, never mutated.
type Settlement struct {
	entity.Document

	SupplyOrderID     id.ID  `db:"supply_order_id" json:"supplyOrderId"`
	SupplyOrderNumber string `db:"supply_order_number" json:"supplyOrderNumber"`
	DriverID          id.ID  `db:"driver_id" json:"driverId"`

	// Items is a deep copy of the draft lines at commit time.
	Items []Item `db:"-" json:"items"`

	// TotalSales is the sales amount at live bottle-type prices.
	TotalSales    types.Money    `db:"total_sales" json:"totalSales"`
	TotalExpenses types.Money    `db:"total_expenses" json:"totalExpenses"`
	TotalLoss     types.Quantity `db:"total_loss" json:"totalLoss"`
	NetSales      types.Money    `db:"net_sales" json:"netSales"`
	// DebtChange is the value of lost bottles. The driver account is charged the residual debt.
	DebtChange types.Money `db:"debt_change" json:"debtChange"`

	Payment PaymentBreakdown `db:"payment" json:"payment"`
}

// GetDocumentType returns the document type name.
func (s *Settlement) GetDocumentType() string {
	return DocumentType
}

func cloneItems(items []Item) []Item {
	return append([]Item(nil), items...)
}

// Clone returns a deep copy of the draft content in the edited state.
func (d *Draft) Clone() *Draft {
	c := *d
	c.ID = id.New()
	c.Items = cloneItems(d.Items)
	c.Expenses = append([]Expense(nil), d.Expenses...)
	if d.PendingExpense != nil {
		pending := *d.PendingExpense
		c.PendingExpense = &pending
	}
	c.ForeignBreakdown = make(ForeignBreakdown, len(d.ForeignBreakdown))
	for k, v := range d.ForeignBreakdown {
		c.ForeignBreakdown[k] = append([]ForeignEntry(nil), v...)
	}
	c.State = StateEdited
	return &c
}
