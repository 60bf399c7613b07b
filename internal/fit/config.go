package fit

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/artifact"
	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/errs"
)

// Segment is one customer segment, listed from the highest spending to the
// lowest.
type Segment struct {
	Name           string `toml:"name" validate:"required"`
	Recommendation string `toml:"recommendation" validate:"required"`
}

// Config is the content of the segments file.
type Config struct {
	Scaler     string    `toml:"scaler" validate:"oneof=standard minmax"`
	Components int       `toml:"components" validate:"min=1,max=10"`
	Seed       int64     `toml:"seed"`
	Note       string    `toml:"note"`
	Segments   []Segment `toml:"segment" validate:"min=1,dive"`
}

func DefaultConfig() *Config {
	return &Config{
		Scaler:     artifact.ScalerStandard,
		Components: 2,
		Seed:       42,
		Segments: []Segment{
			{Name: "Luxury Shopper", Recommendation: "Offer VIP memberships, personalized shopping experiences, and exclusive discounts."},
			{Name: "Budget-Conscious Buyer", Recommendation: "Run flash sales, bundle discounts, and promote budget-friendly product bundles."},
		},
	}
}

// LoadConfig decodes the segments file at path over the defaults. Keys the
// file sets but Config does not know are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Segments = nil

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.Invalid("segments file", undecoded[0].String(), "unknown key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = errs.NewValidator()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.FromValidator("segments file", err)
	}
	seen := make(map[string]struct{}, len(c.Segments))
	for _, s := range c.Segments {
		if _, ok := seen[s.Name]; ok {
			return errs.Invalid("segments file", "segment", fmt.Sprintf("%q listed twice", s.Name))
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
