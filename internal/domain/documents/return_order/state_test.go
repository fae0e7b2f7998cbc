package return_order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

func TestState_Transitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateDraft, StateEdited, true},
		{StateDraft, StateCommitting, false},
		{StateEdited, StateEdited, true},
		{StateEdited, StateCommitting, true},
		{StateCommitting, StateCommitted, true},
		{StateCommitting, StateFailed, true},
		{StateFailed, StateEdited, true},
		{StateFailed, StateCommitted, false},
		{StateCommitted, StateEdited, false},
		{StateCommitted, StateCommitting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StateCommitted.IsFinal())
	assert.False(t, StateFailed.IsFinal())
}

func TestDraft_CommittedIsReadOnly(t *testing.T) {
	d := &Draft{State: StateCommitted}

	err := d.SetPayment(money("1"), money("0"))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
	assert.Equal(t, StateCommitted, d.State)
}
