package segment

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

const completeFeatures = `{"income":50000,"kidhome":1,"teenhome":0,"mnt_wines":200,"mnt_meat":100,` +
	`"mnt_fish":50,"web_visits":5,"age":35,"total_campaigns":1,"purchase_freq":10}`

func TestFeatures_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing []string
		err     bool
	}{
		{name: "complete", body: completeFeatures},
		{
			name:    "only_income",
			body:    `{"income":50000}`,
			missing: []string{"kidhome", "teenhome", "mnt_wines", "mnt_meat", "mnt_fish", "web_visits", "age", "total_campaigns", "purchase_freq"},
		},
		{
			name:    "null_is_missing",
			body:    `{"income":null,"kidhome":1,"teenhome":0,"mnt_wines":200,"mnt_meat":100,"mnt_fish":50,"web_visits":5,"age":35,"total_campaigns":1,"purchase_freq":10}`,
			missing: []string{"income"},
		},
		{name: "empty_object", body: `{}`, missing: FeatureNames},
		{name: "unknown_field", body: `{"income":1,"shoe_size":42}`, err: true},
		{name: "not_a_number", body: `{"income":"lots"}`, err: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var f Features
			err := json.Unmarshal([]byte(test.body), &f)
			switch {
			case test.err:
				require.Error(t, err)
				assert.False(t, errors.Is(err, errs.ErrValidation), "got: %v", err)
			case len(test.missing) > 0:
				var verr *errs.ValidationError
				require.True(t, errors.As(err, &verr), "got: %v", err)
				fields := make([]string, 0, len(verr.Problems))
				for _, p := range verr.Problems {
					assert.Equal(t, "is required", p.Reason)
					fields = append(fields, p.Field)
				}
				assert.Equal(t, test.missing, fields)
				assert.Equal(t, Features{}, f)
			default:
				require.NoError(t, err)
				assert.Equal(t, typical(), f)
			}
		})
	}
}

func TestFeatures_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(typical())
	require.NoError(t, err)

	var back Features
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, typical(), back)
}

func TestFeatures_ValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Features)
		valid  bool
	}{
		{name: "low_income", mutate: func(f *Features) { f.Income = 500 }, valid: true},
		{name: "zero_income", mutate: func(f *Features) { f.Income = 0 }, valid: true},
		{name: "old_customer", mutate: func(f *Features) { f.Age = 120 }, valid: true},
		{name: "negative_age", mutate: func(f *Features) { f.Age = -1 }},
		{name: "negative_visits", mutate: func(f *Features) { f.WebVisits = -0.5 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := typical()
			test.mutate(&f)
			err := f.Validate()
			if test.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errs.ErrValidation), "got: %v", err)
		})
	}
}
