package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	allowed := []string{"date", "number", "driver_id"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty uses fallback", in: "", want: "date DESC"},
		{name: "ascending", in: "number", want: "number ASC"},
		{name: "explicit ascending", in: "+number", want: "number ASC"},
		{name: "descending", in: "-date", want: "date DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderBy(tt.in, allowed, "date DESC")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseOrderBy("-payment; DROP TABLE x", allowed, "date DESC")
	assert.True(t, apperror.IsValidation(err))
}
