// Package ledger provides the append-only financial and bottle trails written by a
// settlement: foreign and defective bottle records, enterprise expenses, revenue,
// cash operations and financial transactions.
package ledger

import (
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// PaymentMethod classifies how a revenue row was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCheque PaymentMethod = "cheque"
	PaymentMixed  PaymentMethod = "mixed"
)

// ClassifyPayment returns cash, cheque or mixed depending on which parts are positive.
// Callers skip the revenue row when both are zero.
func ClassifyPayment(cash, cheque types.Money) PaymentMethod {
	switch {
	case cash.IsPositive() && cheque.IsPositive():
		return PaymentMixed
	case cheque.IsPositive():
		return PaymentCheque
	default:
		return PaymentCash
	}
}

// Row holds the fields shared by every ledger row.
type Row struct {
	ID           id.ID     `db:"id" json:"id"`
	SettlementID id.ID     `db:"settlement_id" json:"settlementId"`
	Date         time.Time `db:"date" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func newRow(settlementID id.ID, date time.Time) Row {
	return Row{
		ID:           id.New(),
		SettlementID: settlementID,
		Date:         date,
		CreatedAt:    time.Now().UTC(),
	}
}

// ForeignBottleEntry records competitor-brand bottles a driver brought back.
type ForeignBottleEntry struct {
	Row

	BrandName       string         `db:"brand_name" json:"brandName"`
	BottleTypeLabel string         `db:"bottle_type_label" json:"bottleTypeLabel"`
	Quantity        types.Quantity `db:"quantity" json:"quantity"`
}

// FallbackBrand is used when a line has foreign bottles but no brand breakdown.
const FallbackBrand = "Autre"

// NewForeignBottleEntry creates a foreign bottle record.
func NewForeignBottleEntry(settlementID id.ID, date time.Time, brand, label string, qty types.Quantity) ForeignBottleEntry {
	return ForeignBottleEntry{
		Row:             newRow(settlementID, date),
		BrandName:       brand,
		BottleTypeLabel: label,
		Quantity:        qty,
	}
}

// DefectiveBottleEntry records bottles returned as defective.
type DefectiveBottleEntry struct {
	Row

	BottleTypeID   id.ID          `db:"bottle_type_id" json:"bottleTypeId"`
	BottleTypeName string         `db:"bottle_type_name" json:"bottleTypeName"`
	Quantity       types.Quantity `db:"quantity" json:"quantity"`
}

// NewDefectiveBottleEntry creates a defective bottle record.
func NewDefectiveBottleEntry(settlementID id.ID, date time.Time, bottleTypeID id.ID, name string, qty types.Quantity) DefectiveBottleEntry {
	return DefectiveBottleEntry{
		Row:            newRow(settlementID, date),
		BottleTypeID:   bottleTypeID,
		BottleTypeName: name,
		Quantity:       qty,
	}
}

// ExpenseKind tags expense rows.
const ExpenseKind = "note de frais"

// ExpenseEntry is an enterprise expense paid by the driver out of takings.
// The company owes it back, so it is booked as enterprise debt.
type ExpenseEntry struct {
	Row

	Description   string      `db:"description" json:"description"`
	Amount        types.Money `db:"amount" json:"amount"`
	Kind          string      `db:"kind" json:"kind"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod"`
}

// NewExpenseEntry creates an expense row tagged as enterprise debt.
func NewExpenseEntry(settlementID id.ID, date time.Time, description string, amount types.Money) ExpenseEntry {
	return ExpenseEntry{
		Row:           newRow(settlementID, date),
		Description:   description,
		Amount:        amount,
		Kind:          ExpenseKind,
		PaymentMethod: "dette",
	}
}

// Revenue is the takings of one settlement.
type Revenue struct {
	Row

	Description   string        `db:"description" json:"description"`
	Cash          types.Money   `db:"cash" json:"cash"`
	Cheque        types.Money   `db:"cheque" json:"cheque"`
	Total         types.Money   `db:"total" json:"total"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
}

// NewRevenue creates a revenue row for cash + cheque.
func NewRevenue(settlementID id.ID, date time.Time, description string, cash, cheque types.Money) Revenue {
	return Revenue{
		Row:           newRow(settlementID, date),
		Description:   description,
		Cash:          cash,
		Cheque:        cheque,
		Total:         cash.Add(cheque),
		PaymentMethod: ClassifyPayment(cash, cheque),
	}
}

// Operation status values.
const (
	StatusValidated = "validated"
	StatusCompleted = "completed"
)

// CashOperation is a cash deposit into the till.
type CashOperation struct {
	Row

	Description string      `db:"description" json:"description"`
	Amount      types.Money `db:"amount" json:"amount"`
	Type        string      `db:"type" json:"type"`
	Account     string      `db:"account" json:"account"`
	Status      string      `db:"status" json:"status"`
}

// NewCashOperation creates a validated cash deposit.
func NewCashOperation(settlementID id.ID, date time.Time, description string, amount types.Money) CashOperation {
	return CashOperation{
		Row:         newRow(settlementID, date),
		Description: description,
		Amount:      amount,
		Type:        "versement",
		Account:     "caisse",
		Status:      StatusValidated,
	}
}

// FinancialTransaction is a cheque encashment.
type FinancialTransaction struct {
	Row

	Description string      `db:"description" json:"description"`
	Amount      types.Money `db:"amount" json:"amount"`
	Type        string      `db:"type" json:"type"`
	Account     string      `db:"account" json:"account"`
	Status      string      `db:"status" json:"status"`
}

// NewFinancialTransaction creates a completed cheque encashment.
func NewFinancialTransaction(settlementID id.ID, date time.Time, description string, amount types.Money) FinancialTransaction {
	return FinancialTransaction{
		Row:         newRow(settlementID, date),
		Description: description,
		Amount:      amount,
		Type:        "encaissement",
		Account:     "banque",
		Status:      StatusCompleted,
	}
}

// Trail is everything the ledger holds for one settlement.
type Trail struct {
	Foreign               []ForeignBottleEntry   `json:"foreign"`
	Defective             []DefectiveBottleEntry `json:"defective"`
	Expenses              []ExpenseEntry         `json:"expenses"`
	Revenues              []Revenue              `json:"revenues"`
	CashOperations        []CashOperation        `json:"cashOperations"`
	FinancialTransactions []FinancialTransaction `json:"financialTransactions"`
}
