// Package entity provides core domain entities.
package entity

import (
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// RecordType defines movement direction for accumulation registers.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// StockKind names the bottle counter a movement applies to.
type StockKind string

const (
	// StockKindEmpty is the empty-bottle stock counter.
	StockKindEmpty StockKind = "empty"
	// StockKindFull is the full-goods inventory (remaining quantity).
	StockKindFull StockKind = "full"
	// StockKindDistributed is the quantity currently out with trucks.
	StockKindDistributed StockKind = "distributed"
)

// MovementBase contains common fields for all register movements.
// Movements are immutable and append-only.
type MovementBase struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "ReturnOrder")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date for the movement
	Period time.Time `db:"period" json:"period"`

	RecordType RecordType `db:"record_type" json:"recordType"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   recordType,
		CreatedAt:    time.Now().UTC(),
	}
}

// StockMovement records one adjustment of a bottle-type counter.
type StockMovement struct {
	MovementBase

	BottleTypeID id.ID     `db:"bottle_type_id" json:"bottleTypeId"`
	Kind         StockKind `db:"kind" json:"kind"`

	// Quantity is always positive; direction comes from RecordType.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Balance is the counter value after the adjustment.
	Balance types.Quantity `db:"balance" json:"balance"`
}

// NewStockMovement builds a movement from a signed delta.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	period time.Time,
	bottleTypeID id.ID,
	kind StockKind,
	delta, balance types.Quantity,
) StockMovement {
	recordType := RecordTypeReceipt
	qty := delta
	if delta < 0 {
		recordType = RecordTypeExpense
		qty = -delta
	}
	return StockMovement{
		MovementBase: NewMovementBase(recorderID, recorderType, period, recordType),
		BottleTypeID: bottleTypeID,
		Kind:         kind,
		Quantity:     qty,
		Balance:      balance,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
