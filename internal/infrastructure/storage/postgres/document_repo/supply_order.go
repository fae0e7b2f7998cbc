package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const (
	supplyOrdersTable     = "doc_supply_orders"
	supplyOrderLinesTable = "doc_supply_order_lines"
)

var supplyOrderLineCols = []string{
	"line_id", "document_id", "line_no", "bottle_type_id", "bottle_type_name",
	"empty_quantity", "full_quantity", "unit_price",
}

// SupplyOrderRepo implements supply_order.Repository.
type SupplyOrderRepo struct {
	*BaseDocumentRepo[supply_order.SupplyOrder]
}

var _ supply_order.Repository = (*SupplyOrderRepo)(nil)

// NewSupplyOrderRepo creates a new supply order repository.
func NewSupplyOrderRepo(txm *postgres.TxManager) *SupplyOrderRepo {
	return &SupplyOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[supply_order.SupplyOrder](txm, supplyOrdersTable),
	}
}

// Create inserts the order and its lines.
func (r *SupplyOrderRepo) Create(ctx context.Context, doc *supply_order.SupplyOrder) error {
	if err := r.insertHeader(ctx, doc); err != nil {
		return err
	}

	rows := make([][]any, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, []any{
			l.LineID, doc.ID, l.LineNo, l.BottleTypeID, l.BottleTypeName,
			l.EmptyQuantity, l.FullQuantity, l.UnitPrice,
		})
	}
	if _, err := r.batch.Insert(ctx, supplyOrderLinesTable, supplyOrderLineCols, rows); err != nil {
		return fmt.Errorf("insert supply order lines: %w", err)
	}
	return nil
}

// GetByID returns the order with its lines.
func (r *SupplyOrderRepo) GetByID(ctx context.Context, docID id.ID) (*supply_order.SupplyOrder, error) {
	doc, err := r.getHeader(ctx, docID)
	if err != nil {
		return nil, err
	}

	sql, args, err := postgres.Builder().
		Select(
			"line_id", "line_no", "bottle_type_id", "bottle_type_name",
			"empty_quantity", "full_quantity", "unit_price",
		).
		From(supplyOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &doc.Lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return doc, nil
}
