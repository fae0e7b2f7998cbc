package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookRegistry_StopsAtFirstError(t *testing.T) {
	r := NewHookRegistry[*int]()
	calls := 0
	boom := errors.New("boom")

	r.OnAfterCommit(func(ctx context.Context, v *int) error { calls++; *v++; return nil })
	r.OnAfterCommit(func(ctx context.Context, v *int) error { calls++; return boom })
	r.OnAfterCommit(func(ctx context.Context, v *int) error { calls++; return nil })

	v := 0
	err := r.RunAfterCommit(context.Background(), &v)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, v)
}

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Limit: 0, Offset: -4}
	f.Normalize()
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = ListFilter{Limit: 10, Offset: 20}
	f.Normalize()
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
}
