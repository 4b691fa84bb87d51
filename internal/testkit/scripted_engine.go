package testkit

import (
	"context"
	"sync"

	"gocpd/domain/cost"
	"gocpd/domain/search"
	"gocpd/ports"
)

// ScriptedEngine is a CostPort and SearchPort double. Results are scripted
// up front; every call is recorded so tests can assert dispatch. When no
// result is scripted it falls back to quarter-point changepoints, which is
// enough structure for orchestration tests without any real search.
type ScriptedEngine struct {
	// Scripted results, used when set.
	Segmentation *search.Segmentation
	Solutions    []search.PenaltySolution
	BinsegPoints []int
	ConstructErr error
	SearchErr    error

	mu             sync.Mutex
	constructCalls []cost.Descriptor
	searchCalls    []string
}

var (
	_ ports.CostPort   = (*ScriptedEngine)(nil)
	_ ports.SearchPort = (*ScriptedEngine)(nil)
)

// NewScriptedEngine creates an engine with no scripted results
func NewScriptedEngine() *ScriptedEngine {
	return &ScriptedEngine{}
}

// Construct returns a segment-length evaluator so scripted total costs are
// predictable: any full partition of n points sums to float64(n).
func (e *ScriptedEngine) Construct(ctx context.Context, desc cost.Descriptor) (ports.CostEvaluator, error) {
	e.mu.Lock()
	e.constructCalls = append(e.constructCalls, desc)
	e.mu.Unlock()

	if e.ConstructErr != nil {
		return nil, e.ConstructErr
	}
	return func(start, end int) float64 {
		return float64(end - start)
	}, nil
}

// SinglePenalty returns the scripted segmentation or quarter points
func (e *ScriptedEngine) SinglePenalty(ctx context.Context, eval ports.CostEvaluator, n int, penalty search.Penalty) (search.Segmentation, error) {
	e.record("single_penalty")
	if e.SearchErr != nil {
		return search.Segmentation{}, e.SearchErr
	}
	if e.Segmentation != nil {
		return *e.Segmentation, nil
	}
	return search.Segmentation{
		Changepoints: quarterPoints(n),
		TotalCost:    eval(0, n),
	}, nil
}

// PenaltyRange returns the scripted solutions or a two-penalty path
func (e *ScriptedEngine) PenaltyRange(ctx context.Context, eval ports.CostEvaluator, n int, low, high float64) ([]search.PenaltySolution, error) {
	e.record("penalty_range")
	if e.SearchErr != nil {
		return nil, e.SearchErr
	}
	if e.Solutions != nil {
		return e.Solutions, nil
	}
	return []search.PenaltySolution{
		{Penalty: low, Changepoints: quarterPoints(n)},
		{Penalty: high, Changepoints: nil},
	}, nil
}

// BinarySegmentation returns the scripted points or quarter points
func (e *ScriptedEngine) BinarySegmentation(ctx context.Context, eval ports.CostEvaluator, n int, penalty search.Penalty) ([]int, error) {
	e.record("binary_segmentation")
	if e.SearchErr != nil {
		return nil, e.SearchErr
	}
	if e.BinsegPoints != nil {
		return e.BinsegPoints, nil
	}
	return quarterPoints(n), nil
}

// ConstructCalls returns the descriptors passed to Construct
func (e *ScriptedEngine) ConstructCalls() []cost.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]cost.Descriptor, len(e.constructCalls))
	copy(out, e.constructCalls)
	return out
}

// SearchCalls returns the search methods invoked, in call order
func (e *ScriptedEngine) SearchCalls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.searchCalls))
	copy(out, e.searchCalls)
	return out
}

func (e *ScriptedEngine) record(method string) {
	e.mu.Lock()
	e.searchCalls = append(e.searchCalls, method)
	e.mu.Unlock()
}

// quarterPoints places changepoints at n/4, n/2 and 3n/4
func quarterPoints(n int) []int {
	step := n / 4
	if step < 1 {
		return nil
	}
	return []int{step, 2 * step, 3 * step}
}
