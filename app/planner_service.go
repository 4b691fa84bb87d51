package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocpd/domain/cost"
	"gocpd/domain/run"
	"gocpd/domain/search"
	"gocpd/ports"
)

// PlannerService turns model expressions into validated, replayable
// detection runs and hands them to the search backend
type PlannerService struct {
	costPort   ports.CostPort
	searchPort ports.SearchPort
	repository ports.RunRepository

	codeVersion string
}

// PlanRequest defines the inputs for planning one detection run
type PlanRequest struct {
	ModelExpr string           `json:"model_expr"`
	Series    []float64        `json:"-"`
	Penalties []float64        `json:"penalties,omitempty"`
	Algorithm search.Algorithm `json:"algorithm,omitempty"`
}

// PlanResult contains the planned run and everything needed to execute it
type PlanResult struct {
	Run        *run.DetectionRun `json:"run"`
	Descriptor cost.Descriptor   `json:"descriptor"`
	Invocation search.Invocation `json:"invocation"`
}

// NewPlannerService creates a planner service. The cost and search ports may
// be nil for plan-only use; the repository may be nil to skip persistence.
func NewPlannerService(costPort ports.CostPort, searchPort ports.SearchPort, repository ports.RunRepository, codeVersion string) *PlannerService {
	return &PlannerService{
		costPort:    costPort,
		searchPort:  searchPort,
		repository:  repository,
		codeVersion: codeVersion,
	}
}

// CanExecute reports whether a search backend is wired in
func (s *PlannerService) CanExecute() bool {
	return s.costPort != nil && s.searchPort != nil
}

// Plan resolves the model expression, builds the invocation and persists the
// run manifest. No search work happens here: every grammar and invocation
// violation surfaces before any port is touched.
func (s *PlannerService) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	desc, err := cost.ResolveExpression(req.ModelExpr, req.Series)
	if err != nil {
		return nil, err
	}

	log.Printf("[Planner] model %q selects %s", req.ModelExpr, desc.Describe())

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = search.AlgorithmPELT
	}

	inv, err := search.Build(desc, len(req.Series), req.Penalties, algorithm)
	if err != nil {
		return nil, err
	}

	detection := run.NewDetectionRun(req.ModelExpr, inv, s.codeVersion)
	if err := s.persist(ctx, detection); err != nil {
		return nil, err
	}

	return &PlanResult{
		Run:        detection,
		Descriptor: desc,
		Invocation: inv,
	}, nil
}

// Execute runs a built invocation against the configured search backend and
// returns its outcome
func (s *PlannerService) Execute(ctx context.Context, inv search.Invocation) (*run.Outcome, error) {
	if s.costPort == nil || s.searchPort == nil {
		return nil, fmt.Errorf("search backend not configured")
	}

	eval, err := s.costPort.Construct(ctx, inv.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("cost construction failed: %w", err)
	}

	startTime := time.Now()
	var outcome run.Outcome

	switch inv.Algorithm {
	case search.AlgorithmPELT:
		segmentation, err := s.searchPort.SinglePenalty(ctx, eval, inv.SeriesLength, inv.Penalty)
		if err != nil {
			return nil, fmt.Errorf("pelt search failed: %w", err)
		}
		outcome.Changepoints = segmentation.Changepoints
		outcome.TotalCost = segmentation.TotalCost

	case search.AlgorithmCROPS:
		solutions, err := s.searchPort.PenaltyRange(ctx, eval, inv.SeriesLength, inv.Penalty.Low, inv.Penalty.High)
		if err != nil {
			return nil, fmt.Errorf("crops search failed: %w", err)
		}
		outcome.Solutions = solutions

	case search.AlgorithmBinSeg:
		changepoints, err := s.searchPort.BinarySegmentation(ctx, eval, inv.SeriesLength, inv.Penalty)
		if err != nil {
			return nil, fmt.Errorf("binseg search failed: %w", err)
		}
		outcome.Changepoints = changepoints

	default:
		return nil, fmt.Errorf("no dispatch for algorithm %q", inv.Algorithm)
	}

	searchTime := time.Since(startTime)
	outcome.RuntimeMs = searchTime.Milliseconds()
	log.Printf("[Planner] %s search over %d observations completed in %.2fms",
		inv.Algorithm, inv.SeriesLength, float64(searchTime.Nanoseconds())/1e6)

	return &outcome, nil
}

// PlanAndExecute plans a run, executes it and persists the outcome
func (s *PlannerService) PlanAndExecute(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	result, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.Execute(ctx, result.Invocation)
	if err != nil {
		return nil, err
	}

	result.Run.AttachOutcome(*outcome)
	if err := s.persist(ctx, result.Run); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PlannerService) persist(ctx context.Context, detection *run.DetectionRun) error {
	if s.repository == nil {
		return nil
	}
	if err := s.repository.SaveRun(ctx, detection); err != nil {
		return fmt.Errorf("failed to store run %s: %w", detection.RunID, err)
	}
	return nil
}
