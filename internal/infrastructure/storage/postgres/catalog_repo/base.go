// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides the operations shared by catalog tables.
// Queries run on the transaction in ctx when there is one.
type BaseCatalogRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](txm *postgres.TxManager, tableName string) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		selectCols: postgres.ExtractDBColumns[T](),
	}
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.selectCols...).From(r.tableName)
}

// Create inserts an entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity *T) error {
	data := postgres.PickColumns(postgres.StructToMap(entity), r.selectCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := postgres.Builder().Insert(r.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1), entityID)
}

// GetForUpdate retrieves entity by ID with a row lock held until the transaction ends.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (*T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE"), entityID)
}

// ListAll returns every row ordered by name.
func (r *BaseCatalogRepo[T]) ListAll(ctx context.Context) ([]*T, error) {
	sql, args, err := r.baseSelect().OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

func (r *BaseCatalogRepo[T]) updateQuery(entityID id.ID, set map[string]any) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(r.tableName).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", "))
}

// updateReturning applies set and returns the new row.
func (r *BaseCatalogRepo[T]) updateReturning(ctx context.Context, entityID id.ID, set map[string]any) (*T, error) {
	sql, args, err := r.updateQuery(entityID, set).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	entity := new(T)
	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return nil, fmt.Errorf("update %s: %w", r.tableName, err)
	}
	return entity, nil
}

func (r *BaseCatalogRepo[T]) findOne(ctx context.Context, q squirrel.SelectBuilder, entityID id.ID) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entity := new(T)
	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return nil, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return entity, nil
}
