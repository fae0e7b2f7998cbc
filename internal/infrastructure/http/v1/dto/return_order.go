package dto

import (
	"time"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

// --- Request DTOs ---

// CreateDraftRequest starts a return order from a supply order.
type CreateDraftRequest struct {
	SupplyOrderID string `json:"supplyOrderId" binding:"required"`
}

// SupplyOrder parses the supply order reference.
func (r *CreateDraftRequest) SupplyOrder() (id.ID, error) {
	return parseID("supplyOrderId", r.SupplyOrderID)
}

// ReturnOrderRequest carries the driver's figures. Outgoing quantities always
// come from the supply order and are not accepted here.
type ReturnOrderRequest struct {
	SupplyOrderID    string                    `json:"supplyOrderId" binding:"required"`
	Date             *time.Time                `json:"date,omitempty"`
	Items            []ReturnItemRequest       `json:"items" binding:"dive"`
	Expenses         []ExpenseRequest          `json:"expenses" binding:"dive"`
	PendingExpense   *ExpenseRequest           `json:"pendingExpense,omitempty"`
	ForeignBreakdown []ForeignBreakdownRequest `json:"foreignBreakdown" binding:"dive"`
	Payment          PaymentRequest            `json:"payment"`
}

// ReturnItemRequest is one returned line.
type ReturnItemRequest struct {
	BottleTypeID  string `json:"bottleTypeId" binding:"required"`
	ReturnedEmpty int64  `json:"returnedEmpty"`
	ReturnedFull  int64  `json:"returnedFull"`
	Foreign       int64  `json:"foreign"`
	Defective     int64  `json:"defective"`
	Lost          int64  `json:"lost"`
	Consigne      int64  `json:"consigne"`
}

// ExpenseRequest is one expense paid out of the takings.
type ExpenseRequest struct {
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`
}

// ForeignBreakdownRequest itemizes the foreign bottles of one line by brand.
type ForeignBreakdownRequest struct {
	BottleTypeID string                `json:"bottleTypeId" binding:"required"`
	Entries      []ForeignEntryRequest `json:"entries"`
}

// ForeignEntryRequest is one brand of a breakdown.
type ForeignEntryRequest struct {
	Brand           string `json:"brand"`
	BottleTypeLabel string `json:"bottleTypeLabel"`
	Quantity        int64  `json:"quantity"`
}

// PaymentRequest is what the driver hands over.
type PaymentRequest struct {
	Cash   types.Money `json:"cash"`
	Cheque types.Money `json:"cheque"`
}

func (e ExpenseRequest) toDomain() return_order.Expense {
	return return_order.Expense{Description: e.Description, Amount: e.Amount}
}

// SupplyOrder parses the supply order reference.
func (r *ReturnOrderRequest) SupplyOrder() (id.ID, error) {
	return parseID("supplyOrderId", r.SupplyOrderID)
}

// ApplyTo writes the request figures into a fresh draft of the same supply order.
func (r *ReturnOrderRequest) ApplyTo(d *return_order.Draft) error {
	if r.Date != nil {
		d.Date = r.Date.UTC()
	}

	for _, it := range r.Items {
		btID, err := parseID("bottleTypeId", it.BottleTypeID)
		if err != nil {
			return err
		}
		err = d.UpdateItem(btID, func(item *return_order.Item) {
			item.ReturnedEmpty = types.Quantity(it.ReturnedEmpty)
			item.ReturnedFull = types.Quantity(it.ReturnedFull)
			item.Foreign = types.Quantity(it.Foreign)
			item.Defective = types.Quantity(it.Defective)
			item.Lost = types.Quantity(it.Lost)
			item.Consigne = types.Quantity(it.Consigne)
		})
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("bottle type is not on the supply order").
				WithDetail("field", "items").
				WithDetail("bottleTypeId", it.BottleTypeID)
		}
		if err != nil {
			return err
		}
	}

	for _, e := range r.Expenses {
		if err := d.AddExpense(e.toDomain()); err != nil {
			return err
		}
	}

	if r.PendingExpense != nil {
		pending := r.PendingExpense.toDomain()
		if err := d.SetPendingExpense(&pending); err != nil {
			return err
		}
	}

	for _, fb := range r.ForeignBreakdown {
		btID, err := parseID("foreignBreakdown.bottleTypeId", fb.BottleTypeID)
		if err != nil {
			return err
		}
		entries := make([]return_order.ForeignEntry, 0, len(fb.Entries))
		for _, e := range fb.Entries {
			entries = append(entries, return_order.ForeignEntry{
				Brand:           e.Brand,
				BottleTypeLabel: e.BottleTypeLabel,
				Quantity:        types.Quantity(e.Quantity),
			})
		}
		if err := d.SetForeignBreakdown(btID, entries); err != nil {
			return err
		}
	}

	return d.SetPayment(r.Payment.Cash, r.Payment.Cheque)
}

// ListSettlementsQuery are the query parameters of the settlement list.
type ListSettlementsQuery struct {
	DriverID      string     `form:"driverId"`
	SupplyOrderID string     `form:"supplyOrderId"`
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset        int        `form:"offset" binding:"omitempty,min=0"`
	OrderBy       string     `form:"orderBy"`
}

// ToFilter converts the query into a list filter. DateTo covers the whole day.
func (q *ListSettlementsQuery) ToFilter() (return_order.ListFilter, error) {
	filter := return_order.ListFilter{ListFilter: domain.DefaultListFilter()}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}

	var err error
	if filter.DriverID, err = parseOptionalID("driverId", q.DriverID); err != nil {
		return filter, err
	}
	if filter.SupplyOrderID, err = parseOptionalID("supplyOrderId", q.SupplyOrderID); err != nil {
		return filter, err
	}
	filter.DateFrom = q.DateFrom
	if q.DateTo != nil {
		end := q.DateTo.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	return filter, nil
}

// --- Response DTOs ---

// SettlementResponse is a committed return order.
type SettlementResponse struct {
	ID                string                        `json:"id"`
	Number            string                        `json:"number"`
	Date              time.Time                     `json:"date"`
	CreatedAt         time.Time                     `json:"createdAt"`
	CreatedBy         string                        `json:"createdBy,omitempty"`
	SupplyOrderID     string                        `json:"supplyOrderId"`
	SupplyOrderNumber string                        `json:"supplyOrderNumber"`
	DriverID          string                        `json:"driverId"`
	Items             []return_order.Item           `json:"items"`
	TotalSales        types.Money                   `json:"totalSales"`
	TotalExpenses     types.Money                   `json:"totalExpenses"`
	TotalLoss         types.Quantity                `json:"totalLoss"`
	NetSales          types.Money                   `json:"netSales"`
	DebtChange        types.Money                   `json:"debtChange"`
	Payment           return_order.PaymentBreakdown `json:"payment"`
}

// FromSettlement creates a SettlementResponse.
func FromSettlement(s *return_order.Settlement) SettlementResponse {
	items := s.Items
	if items == nil {
		items = []return_order.Item{}
	}
	return SettlementResponse{
		ID:                s.ID.String(),
		Number:            s.Number,
		Date:              s.Date,
		CreatedAt:         s.CreatedAt,
		CreatedBy:         s.CreatedBy,
		SupplyOrderID:     s.SupplyOrderID.String(),
		SupplyOrderNumber: s.SupplyOrderNumber,
		DriverID:          s.DriverID.String(),
		Items:             items,
		TotalSales:        s.TotalSales,
		TotalExpenses:     s.TotalExpenses,
		TotalLoss:         s.TotalLoss,
		NetSales:          s.NetSales,
		DebtChange:        s.DebtChange,
		Payment:           s.Payment,
	}
}

// FromSettlementList maps a page of settlements.
func FromSettlementList(res domain.ListResult[*return_order.Settlement]) ListResponse[SettlementResponse] {
	out := ListResponse[SettlementResponse]{
		Items:      make([]SettlementResponse, 0, len(res.Items)),
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
	for _, s := range res.Items {
		out.Items = append(out.Items, FromSettlement(s))
	}
	return out
}

// CommitResponse is returned by a successful commit.
type CommitResponse struct {
	Settlement    SettlementResponse         `json:"settlement"`
	Discrepancies []return_order.Discrepancy `json:"discrepancies"`
	Journal       *return_order.Journal      `json:"journal"`
}

// FromCommitResult creates a CommitResponse.
func FromCommitResult(r *return_order.CommitResult) CommitResponse {
	disc := r.Discrepancies
	if disc == nil {
		disc = []return_order.Discrepancy{}
	}
	return CommitResponse{
		Settlement:    FromSettlement(r.Settlement),
		Discrepancies: disc,
		Journal:       r.Journal,
	}
}

// ValidationResponse lists coherence discrepancies. They never block a commit.
type ValidationResponse struct {
	Coherent      bool                       `json:"coherent"`
	Discrepancies []return_order.Discrepancy `json:"discrepancies"`
}

// NewValidationResponse creates a ValidationResponse.
func NewValidationResponse(disc []return_order.Discrepancy) ValidationResponse {
	if disc == nil {
		disc = []return_order.Discrepancy{}
	}
	return ValidationResponse{Coherent: len(disc) == 0, Discrepancies: disc}
}

// SettlementDetailsResponse is a settlement with everything it wrote and its audit history.
type SettlementDetailsResponse struct {
	Settlement SettlementResponse     `json:"settlement"`
	Trail      *ledger.Trail          `json:"trail"`
	Movements  []entity.StockMovement `json:"movements"`
	History    []postgres.AuditEntry  `json:"history,omitempty"`
}

// FromDetails creates a SettlementDetailsResponse.
func FromDetails(d *return_order.Details, history []postgres.AuditEntry) SettlementDetailsResponse {
	return SettlementDetailsResponse{
		Settlement: FromSettlement(d.Settlement),
		Trail:      d.Trail,
		Movements:  d.Movements,
		History:    history,
	}
}
