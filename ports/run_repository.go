package ports

import (
	"context"

	"gocpd/domain/core"
	"gocpd/domain/cost"
	"gocpd/domain/run"
	"gocpd/domain/search"
)

// RunRepository persists detection run records
type RunRepository interface {
	// SaveRun persists a run record, replacing any record with the same run ID
	SaveRun(ctx context.Context, detection *run.DetectionRun) error

	// GetRun retrieves a run record by ID
	GetRun(ctx context.Context, runID core.RunID) (*run.DetectionRun, error)

	// ListRuns returns run records matching the filters, newest first
	ListRuns(ctx context.Context, filters RunFilters) ([]*run.DetectionRun, error)
}

// RunFilters for querying runs
type RunFilters struct {
	Algorithm *search.Algorithm
	CostKind  *cost.Kind
	Limit     int
	Offset    int
}
