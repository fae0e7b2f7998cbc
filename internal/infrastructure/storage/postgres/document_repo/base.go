// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides header operations shared by document tables.
// Lines live in their own tables and are handled by the concrete repositories.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	batch      *postgres.BatchInserter
	tableName  string
	selectCols []string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](txm *postgres.TxManager, tableName string) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		batch:      postgres.NewBatchInserter(txm),
		tableName:  tableName,
		selectCols: postgres.ExtractDBColumns[T](),
	}
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.selectCols...).From(r.tableName)
}

// insertHeader inserts the document row from its "db" tags.
func (r *BaseDocumentRepo[T]) insertHeader(ctx context.Context, doc *T) error {
	data := postgres.PickColumns(postgres.StructToMap(doc), r.selectCols)

	sql, args, err := postgres.Builder().Insert(r.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// getHeader retrieves the document row by ID.
func (r *BaseDocumentRepo[T]) getHeader(ctx context.Context, docID id.ID) (*T, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": docID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := new(T)
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, docID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return doc, nil
}

// list counts and pages q. Filters are applied by the caller.
func (r *BaseDocumentRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter) (domain.ListResult[*T], error) {
	result := domain.ListResult[*T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, r.selectCols, "date DESC")
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy, "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}
