package artifact

import (
	"time"

	"github.com/google/uuid"
)

const ManifestVersion = 1

// Manifest describes where a bundle came from.
type Manifest struct {
	Version    int32
	ID         string
	CreatedAt  int64
	Schema     []string
	ScalerKind string
	Note       string
}

func NewManifest(schema []string, scalerKind, note string) *Manifest {
	return &Manifest{
		Version:    ManifestVersion,
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC().UnixNano(),
		Schema:     append([]string(nil), schema...),
		ScalerKind: scalerKind,
		Note:       note,
	}
}

func (m *Manifest) Created() time.Time {
	return time.Unix(0, m.CreatedAt).UTC()
}
