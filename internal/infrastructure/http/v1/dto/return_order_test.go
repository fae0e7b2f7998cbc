package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
)

func newDraft(t *testing.T) (*return_order.Draft, id.ID) {
	t.Helper()
	btID := id.New()
	so := supply_order.NewSupplyOrder("BS-2026-00007", id.New())
	so.AddLine(btID, "6KG", 4, 12, types.NewMoneyFromInt(30))
	return return_order.NewDraftFromSupplyOrder(so), btID
}

func TestReturnOrderRequest_ApplyTo(t *testing.T) {
	d, btID := newDraft(t)
	date := time.Date(2026, 3, 2, 9, 0, 0, 0, time.FixedZone("WET", 3600))

	req := ReturnOrderRequest{
		SupplyOrderID: d.SupplyOrderID.String(),
		Date:          &date,
		Items: []ReturnItemRequest{{
			BottleTypeID:  btID.String(),
			ReturnedEmpty: 8,
			ReturnedFull:  2,
			Foreign:       1,
			Lost:          1,
			Consigne:      2,
		}},
		Expenses:       []ExpenseRequest{{Description: "toll", Amount: types.MustMoney("12.5")}},
		PendingExpense: &ExpenseRequest{Description: "lunch"},
		ForeignBreakdown: []ForeignBreakdownRequest{{
			BottleTypeID: btID.String(),
			Entries:      []ForeignEntryRequest{{Brand: "Afriquia", BottleTypeLabel: "6KG", Quantity: 1}},
		}},
		Payment: PaymentRequest{Cash: types.NewMoneyFromInt(200), Cheque: types.Zero()},
	}

	require.NoError(t, req.ApplyTo(d))

	assert.Equal(t, return_order.StateEdited, d.State)
	assert.Equal(t, time.UTC, d.Date.Location())
	assert.Equal(t, 8, d.Date.Hour())

	item := d.Items[0]
	assert.Equal(t, types.Quantity(12), item.OutgoingFull)
	assert.Equal(t, types.Quantity(8), item.ReturnedEmpty)
	assert.Equal(t, types.Quantity(2), item.Consigne)
	assert.Equal(t, types.Quantity(1), item.Lost)

	require.Len(t, d.Expenses, 1)
	require.NotNil(t, d.PendingExpense)
	assert.False(t, d.PendingExpense.IsValid())
	assert.Len(t, d.ForeignBreakdown[btID], 1)
	assert.True(t, d.Payment.Paid().Equal(types.NewMoneyFromInt(200)))
}

func TestReturnOrderRequest_ApplyToRejects(t *testing.T) {
	tests := []struct {
		name string
		req  func(btID id.ID) ReturnOrderRequest
	}{
		{
			name: "bottle type not on the supply order",
			req: func(id.ID) ReturnOrderRequest {
				return ReturnOrderRequest{Items: []ReturnItemRequest{{BottleTypeID: id.New().String()}}}
			},
		},
		{
			name: "malformed bottle type id",
			req: func(id.ID) ReturnOrderRequest {
				return ReturnOrderRequest{Items: []ReturnItemRequest{{BottleTypeID: "12KG"}}}
			},
		},
		{
			name: "expense without amount",
			req: func(id.ID) ReturnOrderRequest {
				return ReturnOrderRequest{Expenses: []ExpenseRequest{{Description: "fuel"}}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, btID := newDraft(t)
			req := tt.req(btID)
			err := req.ApplyTo(d)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err), err)
		})
	}
}

func TestListSettlementsQuery_ToFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := ListSettlementsQuery{}
		f, err := q.ToFilter()
		require.NoError(t, err)
		assert.Equal(t, "-date", f.OrderBy)
		assert.Nil(t, f.DriverID)
		assert.Nil(t, f.DateTo)
	})

	t.Run("date range covers the last day", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		q := ListSettlementsQuery{DateFrom: &from, DateTo: &to, Limit: 20, Offset: 40}

		f, err := q.ToFilter()
		require.NoError(t, err)
		assert.Equal(t, 20, f.Limit)
		assert.Equal(t, 40, f.Offset)
		assert.Equal(t, from, *f.DateFrom)
		assert.True(t, f.DateTo.After(to.Add(23*time.Hour)))
		assert.True(t, f.DateTo.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("bad driver id", func(t *testing.T) {
		q := ListSettlementsQuery{DriverID: "driver-7"}
		_, err := q.ToFilter()
		assert.True(t, apperror.IsValidation(err))
	})
}

func TestFromCommitResult_EmptySlices(t *testing.T) {
	s := &return_order.Settlement{}
	res := FromCommitResult(&return_order.CommitResult{Settlement: s})

	assert.NotNil(t, res.Discrepancies)
	assert.NotNil(t, res.Settlement.Items)
	assert.True(t, NewValidationResponse(nil).Coherent)
}
