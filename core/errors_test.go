//go:build unit
// +build unit

package core

import (
	"errors"
	"fmt"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "insufficient",
			err:  &InsufficientDataError{Need: 1, Got: 0},
			want: "insufficient data: need at least 1 sample(s), got 0",
		},
		{
			name: "mismatch at sample",
			err:  &DimensionMismatchError{Index: 4, Want: 3, Got: 2},
			want: "dimension mismatch at sample 4: want 3, got 2",
		},
		{
			name: "mismatch",
			err:  &DimensionMismatchError{Index: -1, Want: 1, Got: 3},
			want: "dimension mismatch: want 1, got 3",
		},
		{
			name: "invalid sample",
			err:  &InvalidSampleError{Index: 2, Value: math.Inf(1)},
			want: "invalid sample 2: value +Inf is not finite",
		},
		{
			name: "invalid value",
			err:  &InvalidSampleError{Index: -1, Value: math.NaN()},
			want: "invalid sample value NaN",
		},
		{
			name: "unavailable",
			err:  &DataUnavailableError{Source: "a.tab"},
			want: "data unavailable from a.tab",
		},
		{
			name: "unavailable with cause",
			err:  &DataUnavailableError{Source: "a.tab", Err: fmt.Errorf("no rows")},
			want: "data unavailable from a.tab: no rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestDataUnavailableUnwrap(t *testing.T) {
	err := fmt.Errorf("load: %w", &DataUnavailableError{Source: "a.tab", Err: os.ErrNotExist})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var du *DataUnavailableError
	assert.True(t, errors.As(err, &du))
	assert.Equal(t, "a.tab", du.Source)
}
