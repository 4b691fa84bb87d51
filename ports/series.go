package ports

import (
	"context"
)

// SeriesSource loads observation series from external storage. The ref
// is implementation-defined; file-backed sources take a path and pick
// the format from its extension.
type SeriesSource interface {
	Load(ctx context.Context, ref string) ([]float64, error)
}
