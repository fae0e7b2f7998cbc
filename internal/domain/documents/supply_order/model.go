// Package supply_order provides the SupplyOrder document ("B.S"): the load a truck
// carries out. The settlement engine reads it and never mutates it.
package supply_order

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

// SupplyOrder represents an outgoing truck load.
type SupplyOrder struct {
	entity.Document

	DriverID id.ID `db:"driver_id" json:"driverId"`

	// Table part: bottles loaded per type
	Lines []Line `db:"-" json:"lines"`
}

// Line is one bottle type on the supply order.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	BottleTypeID   id.ID  `db:"bottle_type_id" json:"bottleTypeId"`
	BottleTypeName string `db:"bottle_type_name" json:"bottleTypeName"`

	EmptyQuantity types.Quantity `db:"empty_quantity" json:"emptyQuantity"`
	FullQuantity  types.Quantity `db:"full_quantity" json:"fullQuantity"`

	// UnitPrice is the price snapshot taken when the order was created.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewSupplyOrder creates an empty supply order for a driver.
func NewSupplyOrder(number string, driverID id.ID) *SupplyOrder {
	doc := entity.NewDocument()
	doc.Number = number
	return &SupplyOrder{
		Document: doc,
		DriverID: driverID,
		Lines:    make([]Line, 0),
	}
}

// AddLine appends a bottle type line.
func (s *SupplyOrder) AddLine(bottleTypeID id.ID, name string, empty, full types.Quantity, unitPrice types.Money) {
	s.Lines = append(s.Lines, Line{
		LineID:         id.New(),
		LineNo:         len(s.Lines) + 1,
		BottleTypeID:   bottleTypeID,
		BottleTypeName: name,
		EmptyQuantity:  empty,
		FullQuantity:   full,
		UnitPrice:      unitPrice,
	})
}

// FindLine returns the line for a bottle type, if present.
func (s *SupplyOrder) FindLine(bottleTypeID id.ID) (Line, bool) {
	for _, l := range s.Lines {
		if l.BottleTypeID == bottleTypeID {
			return l, true
		}
	}
	return Line{}, false
}

// Validate implements entity.Validatable.
func (s *SupplyOrder) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.DriverID) {
		return apperror.NewValidation("driver is required").
			WithDetail("field", "driverId")
	}

	for i, line := range s.Lines {
		if id.IsNil(line.BottleTypeID) {
			return apperror.NewValidation("bottle type is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.EmptyQuantity < 0 || line.FullQuantity < 0 {
			return apperror.NewValidation("quantities cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// GetDocumentType returns the document type name.
func (s *SupplyOrder) GetDocumentType() string {
	return "SupplyOrder"
}
