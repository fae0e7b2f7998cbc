// Package domain provides shared listing types and lifecycle hooks for domain services.
package domain

import (
	"context"
)

// --- Filter & Pagination ---

// ListFilter contains common paging options for list operations.
type ListFilter struct {
	// OrderBy specifies sorting (e.g., "date", "-date")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}

// Normalize clamps paging values into a usable range.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	AfterCommit HookEvent = "after_commit"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnAfterCommit registers a hook that runs inside the commit once every write landed.
// A hook error aborts the commit.
func (r *HookRegistry[T]) OnAfterCommit(hook Hook[T]) {
	r.On(AfterCommit, hook)
}

// RunAfterCommit executes all after-commit hooks.
func (r *HookRegistry[T]) RunAfterCommit(ctx context.Context, entity T) error {
	return r.Run(ctx, AfterCommit, entity)
}
