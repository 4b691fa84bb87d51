package ports

import (
	"context"

	"gocpd/domain/cost"
)

// CostEvaluator scores how well a single segment model fits the
// half-open index range [start, end) of the series it was constructed
// over. Lower is better.
type CostEvaluator func(start, end int) float64

// CostPort constructs segment cost evaluators for resolved descriptors.
// One constructor exists per descriptor kind; implementations own the
// statistical mathematics, callers own validation.
type CostPort interface {
	// Construct builds the evaluator for the descriptor's kind over the
	// descriptor's series and fixed parameters
	Construct(ctx context.Context, desc cost.Descriptor) (CostEvaluator, error)
}
