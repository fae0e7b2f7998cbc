package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const (
	settlementsTable     = "doc_settlements"
	settlementItemsTable = "doc_settlement_items"
)

// settlementItemRow is the stored form of a return_order.Item.
type settlementItemRow struct {
	SettlementID   id.ID          `db:"settlement_id"`
	LineNo         int            `db:"line_no"`
	BottleTypeID   id.ID          `db:"bottle_type_id"`
	BottleTypeName string         `db:"bottle_type_name"`
	OutgoingEmpty  types.Quantity `db:"outgoing_empty"`
	OutgoingFull   types.Quantity `db:"outgoing_full"`
	ReturnedEmpty  types.Quantity `db:"returned_empty"`
	ReturnedFull   types.Quantity `db:"returned_full"`
	Foreign        types.Quantity `db:"foreign_qty"`
	Defective      types.Quantity `db:"defective"`
	Lost           types.Quantity `db:"lost"`
	Consigne       types.Quantity `db:"consigne"`
}

var settlementItemCols = postgres.ExtractDBColumns[settlementItemRow]()

func toItemRows(settlementID id.ID, items []return_order.Item) []settlementItemRow {
	rows := make([]settlementItemRow, 0, len(items))
	for i, it := range items {
		rows = append(rows, settlementItemRow{
			SettlementID:   settlementID,
			LineNo:         i + 1,
			BottleTypeID:   it.BottleTypeID,
			BottleTypeName: it.BottleTypeName,
			OutgoingEmpty:  it.OutgoingEmpty,
			OutgoingFull:   it.OutgoingFull,
			ReturnedEmpty:  it.ReturnedEmpty,
			ReturnedFull:   it.ReturnedFull,
			Foreign:        it.Foreign,
			Defective:      it.Defective,
			Lost:           it.Lost,
			Consigne:       it.Consigne,
		})
	}
	return rows
}

func (row settlementItemRow) item() return_order.Item {
	return return_order.Item{
		BottleTypeID:   row.BottleTypeID,
		BottleTypeName: row.BottleTypeName,
		OutgoingEmpty:  row.OutgoingEmpty,
		OutgoingFull:   row.OutgoingFull,
		ReturnedEmpty:  row.ReturnedEmpty,
		ReturnedFull:   row.ReturnedFull,
		Foreign:        row.Foreign,
		Defective:      row.Defective,
		Lost:           row.Lost,
		Consigne:       row.Consigne,
	}
}

// SettlementRepo implements return_order.Repository.
type SettlementRepo struct {
	*BaseDocumentRepo[return_order.Settlement]
}

var _ return_order.Repository = (*SettlementRepo)(nil)

// NewSettlementRepo creates a new settlement repository.
func NewSettlementRepo(txm *postgres.TxManager) *SettlementRepo {
	return &SettlementRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[return_order.Settlement](txm, settlementsTable),
	}
}

// Create inserts the settlement header and its items.
func (r *SettlementRepo) Create(ctx context.Context, s *return_order.Settlement) (id.ID, error) {
	if err := r.insertHeader(ctx, s); err != nil {
		return id.Nil(), err
	}
	if _, err := postgres.InsertStructs(ctx, r.batch, settlementItemsTable, settlementItemCols, toItemRows(s.ID, s.Items)); err != nil {
		return id.Nil(), fmt.Errorf("insert settlement items: %w", err)
	}
	return s.ID, nil
}

// GetByID returns the settlement with its items.
func (r *SettlementRepo) GetByID(ctx context.Context, settlementID id.ID) (*return_order.Settlement, error) {
	s, err := r.getHeader(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	sql, args, err := postgres.Builder().
		Select(settlementItemCols...).
		From(settlementItemsTable).
		Where(squirrel.Eq{"settlement_id": settlementID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []settlementItemRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	s.Items = make([]return_order.Item, 0, len(rows))
	for _, row := range rows {
		s.Items = append(s.Items, row.item())
	}
	return s, nil
}

// List retrieves settlement headers. Items are not loaded.
func (r *SettlementRepo) List(ctx context.Context, filter return_order.ListFilter) (domain.ListResult[*return_order.Settlement], error) {
	return r.list(ctx, r.filtered(filter), filter.ListFilter)
}

func (r *SettlementRepo) filtered(filter return_order.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.DriverID != nil {
		q = q.Where(squirrel.Eq{"driver_id": *filter.DriverID})
	}
	if filter.SupplyOrderID != nil {
		q = q.Where(squirrel.Eq{"supply_order_id": *filter.SupplyOrderID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return q
}
