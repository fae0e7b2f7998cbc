package return_order

import (
	"fmt"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

// Discrepancy flags a line whose outgoing full bottles are not accounted for by
// sales, returned full and defective bottles. Advisory only.
type Discrepancy struct {
	BottleTypeID   id.ID          `json:"bottleTypeId"`
	BottleTypeName string         `json:"bottleTypeName"`
	OutgoingFull   types.Quantity `json:"outgoingFull"`
	Sales          types.Quantity `json:"sales"`
	ReturnedFull   types.Quantity `json:"returnedFull"`
	Defective      types.Quantity `json:"defective"`
	Message        string         `json:"message"`
}

// outgoingFull is the full quantity that left on the supply-order line, or the
// item's own copy when the line is missing.
func outgoingFull(item Item, so *supply_order.SupplyOrder) types.Quantity {
	if so != nil {
		if line, ok := so.FindLine(item.BottleTypeID); ok {
			return line.FullQuantity
		}
	}
	return item.OutgoingFull
}

// Validate checks outgoingFull == sales + returnedFull + defective for every line.
// The supply order, when given, is the authority for the outgoing quantity.
func Validate(items []Item, so *supply_order.SupplyOrder) []Discrepancy {
	var out []Discrepancy

	for _, item := range items {
		outgoing := outgoingFull(item, so)
		sales := item.Sales()
		if outgoing == sales+item.ReturnedFull+item.Defective {
			continue
		}

		out = append(out, Discrepancy{
			BottleTypeID:   item.BottleTypeID,
			BottleTypeName: item.BottleTypeName,
			OutgoingFull:   outgoing,
			Sales:          sales,
			ReturnedFull:   item.ReturnedFull,
			Defective:      item.Defective,
			Message: fmt.Sprintf("%s: outgoing full %d != sales %d + returned full %d + defective %d (= %d)",
				item.BottleTypeName, outgoing, sales, item.ReturnedFull, item.Defective,
				sales+item.ReturnedFull+item.Defective),
		})
	}

	return out
}
