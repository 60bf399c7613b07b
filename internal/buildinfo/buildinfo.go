package buildinfo

import "github.com/prometheus/common/version"

const Graffiti = `  ___  ___  ___
 / __|| __|/ __|
 \__ \| _|| (_ |
 |___/|___|\___|

`

// Overridden at link time with -ldflags "-X ...".
var (
	BuildTag string = "v0.0.0"
	Name     string = "segment"
	Time     string = ""
	Revision string = ""
)

func init() {
	version.Version = BuildTag
	version.Revision = Revision
	version.BuildDate = Time
}

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

// Context renders the build context the way the Prometheus tooling does.
func (buildinfo) Context() string {
	return version.Info()
}

var Info buildinfo
