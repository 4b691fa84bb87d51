package ports

import (
	"context"

	"gocpd/domain/search"
)

// SearchPort runs external changepoint search algorithms over a
// constructed cost evaluator
type SearchPort interface {
	// SinglePenalty runs optimal partitioning over n observations at one
	// penalty; a None penalty defers to the algorithm's default
	SinglePenalty(ctx context.Context, eval CostEvaluator, n int, penalty search.Penalty) (search.Segmentation, error)

	// PenaltyRange reports every distinct optimal segmentation across
	// the [low, high] penalty interval
	PenaltyRange(ctx context.Context, eval CostEvaluator, n int, low, high float64) ([]search.PenaltySolution, error)

	// BinarySegmentation runs the approximate recursive-split search
	BinarySegmentation(ctx context.Context, eval CostEvaluator, n int, penalty search.Penalty) ([]int, error)
}
