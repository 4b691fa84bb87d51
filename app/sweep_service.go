package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocpd/domain/core"
	"gocpd/domain/search"
	"gocpd/internal"

	"golang.org/x/sync/semaphore"
)

// SweepService evaluates several candidate model expressions against one
// series. Planning is sequential so grammar violations surface immediately;
// execution fans out under a weighted semaphore.
type SweepService struct {
	planner       *PlannerService
	maxConcurrent int64
	logger        *internal.Logger
}

// SweepRequest defines the inputs for a model sweep
type SweepRequest struct {
	ModelExprs []string         `json:"model_exprs"`
	Series     []float64        `json:"-"`
	Penalties  []float64        `json:"penalties,omitempty"`
	Algorithm  search.Algorithm `json:"algorithm,omitempty"`
}

// SweepItem is the outcome for one candidate expression. Err is set instead
// of aborting the sweep, so one bad candidate never hides the others.
type SweepItem struct {
	ModelExpr string      `json:"model_expr"`
	Result    *PlanResult `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	Err       error       `json:"-"`
}

// SweepResult contains every candidate outcome in request order
type SweepResult struct {
	SweepID   core.SweepID `json:"sweep_id"`
	Items     []SweepItem  `json:"items"`
	RuntimeMs int64        `json:"runtime_ms"`
}

// NewSweepService creates a sweep service bounded to maxConcurrent
// simultaneous searches
func NewSweepService(planner *PlannerService, maxConcurrent int64) *SweepService {
	if maxConcurrent < 1 {
		maxConcurrent = 4
	}
	return &SweepService{
		planner:       planner,
		maxConcurrent: maxConcurrent,
		logger:        internal.NewDefaultLogger(),
	}
}

// Run plans every candidate, then executes the valid ones concurrently.
// Items come back in request order regardless of completion order.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if len(req.ModelExprs) == 0 {
		return nil, fmt.Errorf("sweep requires at least one model expression")
	}

	startTime := time.Now()
	sweepID := core.SweepID(core.NewID())
	items := make([]SweepItem, len(req.ModelExprs))

	s.logger.Info("Starting sweep %s over %d candidate model(s)", sweepID, len(req.ModelExprs))

	// Phase 1: plan all candidates. Pure validation plus manifest writes,
	// cheap enough to stay sequential.
	for i, expr := range req.ModelExprs {
		items[i].ModelExpr = expr
		result, err := s.planner.Plan(ctx, PlanRequest{
			ModelExpr: expr,
			Series:    req.Series,
			Penalties: req.Penalties,
			Algorithm: req.Algorithm,
		})
		if err != nil {
			items[i].Err = err
			items[i].Error = err.Error()
			s.logger.Debug("Candidate %q rejected: %v", expr, err)
			continue
		}
		items[i].Result = result
		s.logger.Debug("Candidate %q planned as %s", expr, result.Descriptor.Kind)
	}

	// Phase 2: execute the planned candidates under the concurrency bound.
	// Without a backend the sweep stops at validated manifests.
	if !s.planner.CanExecute() {
		runtimeMs := time.Since(startTime).Milliseconds()
		s.logger.Info("Sweep %s planned %d candidate model(s) in %dms (no search backend)",
			sweepID, len(items), runtimeMs)
		return &SweepResult{SweepID: sweepID, Items: items, RuntimeMs: runtimeMs}, nil
	}

	sem := semaphore.NewWeighted(s.maxConcurrent)
	var wg sync.WaitGroup
	for i := range items {
		if items[i].Result == nil {
			continue
		}

		wg.Add(1)
		go func(item *SweepItem) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				item.Err = err
				item.Error = err.Error()
				return
			}
			defer sem.Release(1)

			outcome, err := s.planner.Execute(ctx, item.Result.Invocation)
			if err != nil {
				item.Err = err
				item.Error = err.Error()
				s.logger.Error("Candidate %q search failed: %v", item.ModelExpr, err)
				return
			}

			item.Result.Run.AttachOutcome(*outcome)
			if err := s.planner.persist(ctx, item.Result.Run); err != nil {
				item.Err = err
				item.Error = err.Error()
			}
		}(&items[i])
	}
	wg.Wait()

	runtimeMs := time.Since(startTime).Milliseconds()
	s.logger.Info("Sweep %s evaluated %d candidate model(s) in %dms",
		sweepID, len(items), runtimeMs)

	return &SweepResult{
		SweepID:   sweepID,
		Items:     items,
		RuntimeMs: runtimeMs,
	}, nil
}
