package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := Validation("predict",
		Problem{Field: "income", Reason: "must be finite"},
		Problem{Reason: "empty input"},
	)

	assert.Equal(t, "predict: invalid input: income: must be finite; empty input", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrConfiguration))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))

	var target *ValidationError
	require.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Problems, 2)
}

func TestConfigurationError(t *testing.T) {
	err := Configuration("mapping", "cluster %d has no label", 3)

	assert.Equal(t, "mapping: misconfigured: cluster 3 has no label", err.Error())
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestFromValidator(t *testing.T) {
	type sample struct {
		Count int     `json:"count" validate:"min=1"`
		Ratio float64 `json:"ratio" validate:"gt=0"`
		Seed  *int64  `json:"seed" validate:"required"`
		Note  string  `validate:"max=3"`
	}

	zero := int64(0)
	tests := []struct {
		name     string
		value    sample
		expected []Problem
	}{
		{
			name:  "valid",
			value: sample{Count: 1, Ratio: 0.1, Seed: &zero},
		},
		{
			name:  "all_wrong",
			value: sample{Count: 0, Ratio: 0, Note: "long"},
			expected: []Problem{
				{Field: "count", Reason: "must be at least 1"},
				{Field: "ratio", Reason: "must be greater than 0"},
				{Field: "seed", Reason: "is required"},
				{Field: "Note", Reason: "must be at most 3"},
			},
		},
	}

	v := NewValidator()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := FromValidator("params", v.Struct(test.value))
			if test.expected == nil {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, test.expected, verr.Problems)
		})
	}

	assert.NoError(t, FromValidator("params", nil))
	assert.False(t, errors.Is(FromValidator("params", errors.New("boom")), ErrValidation))
}
