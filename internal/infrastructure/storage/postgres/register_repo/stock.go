// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/stock"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

var stockMovementCols = postgres.ExtractDBColumns[entity.StockMovement]()

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm   *postgres.TxManager
	batch *postgres.BatchInserter
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:   txm,
		batch: postgres.NewBatchInserter(txm),
	}
}

// AppendMovements batch inserts movements. COPY is used inside a transaction.
func (r *StockRepo) AppendMovements(ctx context.Context, movements []entity.StockMovement) error {
	if _, err := postgres.InsertStructs(ctx, r.batch, stockMovementsTable, stockMovementCols, movements); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}
	return nil
}

// GetMovementsByRecorder retrieves all movements written by a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	sql, args, err := postgres.Builder().
		Select(stockMovementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at", "line_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movements: %w", err)
	}
	return movements, nil
}
