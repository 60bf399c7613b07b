package segment

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

// FeatureNames is the training schema. Features.Vector follows this order.
var FeatureNames = []string{
	"income",
	"kidhome",
	"teenhome",
	"mnt_wines",
	"mnt_meat",
	"mnt_fish",
	"web_visits",
	"age",
	"total_campaigns",
	"purchase_freq",
}

// Features describes one customer.
type Features struct {
	Income            float64 `json:"income" validate:"finite,min=0"`
	KidsAtHome        float64 `json:"kidhome" validate:"finite,integral,min=0,max=5"`
	TeensAtHome       float64 `json:"teenhome" validate:"finite,integral,min=0,max=5"`
	WineSpend         float64 `json:"mnt_wines" validate:"finite,min=0"`
	MeatSpend         float64 `json:"mnt_meat" validate:"finite,min=0"`
	FishSpend         float64 `json:"mnt_fish" validate:"finite,min=0"`
	WebVisits         float64 `json:"web_visits" validate:"finite,min=0"`
	Age               float64 `json:"age" validate:"finite,min=0"`
	Campaigns         float64 `json:"total_campaigns" validate:"finite,integral,min=0,max=4"`
	PurchaseFrequency float64 `json:"purchase_freq" validate:"finite,min=0"`
}

// UnmarshalJSON rejects documents that leave out a feature or set it to
// null, so an absent field never reads as zero.
func (f *Features) UnmarshalJSON(data []byte) error {
	type plain Features
	d := json.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	var decoded plain
	if err := d.Decode(&decoded); err != nil {
		return err
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	var problems []errs.Problem
	for _, name := range FeatureNames {
		raw, ok := present[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			problems = append(problems, errs.Problem{Field: name, Reason: "is required"})
		}
	}
	if len(problems) > 0 {
		return errs.Validation("features", problems...)
	}

	*f = Features(decoded)
	return nil
}

// Vector returns the features in FeatureNames order.
func (f Features) Vector() []float64 {
	return []float64{
		f.Income,
		f.KidsAtHome,
		f.TeensAtHome,
		f.WineSpend,
		f.MeatSpend,
		f.FishSpend,
		f.WebVisits,
		f.Age,
		f.Campaigns,
		f.PurchaseFrequency,
	}
}

// FeaturesFromVector is the inverse of Features.Vector.
func FeaturesFromVector(v []float64) (Features, error) {
	if len(v) != len(FeatureNames) {
		return Features{}, errs.Invalid("features", "vector", "expected 10 values")
	}
	return Features{
		Income:            v[0],
		KidsAtHome:        v[1],
		TeensAtHome:       v[2],
		WineSpend:         v[3],
		MeatSpend:         v[4],
		FishSpend:         v[5],
		WebVisits:         v[6],
		Age:               v[7],
		Campaigns:         v[8],
		PurchaseFrequency: v[9],
	}, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := errs.NewValidator()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	_ = v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
	return v
}

// Validate reports every out-of-range field as a *errs.ValidationError.
func (f Features) Validate() error {
	return errs.FromValidator("features", validate.Struct(f))
}
