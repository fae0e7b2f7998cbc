package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// BatchInserter writes many rows of one table at once: COPY inside a
// transaction, a multi-row INSERT outside of one.
type BatchInserter struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert writes rows, each matching columns.
func (b *BatchInserter) Insert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	if tx := b.txManager.GetTx(ctx); tx != nil {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, fmt.Errorf("copy into %s: %w", table, err)
		}
		return n, nil
	}

	q := b.builder.Insert(table).Columns(columns...)
	for _, row := range rows {
		q = q.Values(row...)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	tag, err := b.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// InsertStructs maps each value through StructToMap and inserts the cols it has.
func InsertStructs[T any](ctx context.Context, b *BatchInserter, table string, cols []string, values []T) (int64, error) {
	rows := make([][]any, 0, len(values))
	for i := range values {
		rows = append(rows, RowValues(StructToMap(&values[i]), cols))
	}
	return b.Insert(ctx, table, cols, rows)
}
