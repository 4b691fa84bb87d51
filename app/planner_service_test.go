package app

import (
	"context"
	"errors"
	"testing"

	"gocpd/domain/core"
	"gocpd/domain/cost"
	"gocpd/domain/search"
	"gocpd/internal/testkit"
)

var planSeries = []float64{1, 2, 3, 4, 5, 6, 7, 8}

func newTestPlanner() (*PlannerService, *testkit.ScriptedEngine, *testkit.MemoryRunRepository) {
	engine := testkit.NewScriptedEngine()
	repo := testkit.NewMemoryRunRepository()
	return NewPlannerService(engine, engine, repo, "test"), engine, repo
}

func TestPlannerService_Plan(t *testing.T) {
	service, engine, repo := newTestPlanner()

	result, err := service.Plan(context.Background(), PlanRequest{
		ModelExpr: "Normal(?, 2.5)",
		Series:    planSeries,
		Penalties: []float64{12},
	})
	if err != nil {
		t.Fatalf("Expected plan to succeed, got %v", err)
	}

	if result.Descriptor.Kind != cost.KindNormalMean {
		t.Errorf("Expected kind %s, got %s", cost.KindNormalMean, result.Descriptor.Kind)
	}
	if result.Invocation.Algorithm != search.AlgorithmPELT {
		t.Errorf("Expected default algorithm pelt, got %s", result.Invocation.Algorithm)
	}
	if result.Run.RunID == "" {
		t.Error("Expected a run ID to be assigned")
	}
	if repo.Len() != 1 {
		t.Errorf("Expected the manifest to be persisted, store has %d runs", repo.Len())
	}

	// Planning is validation only: the engine must not have been touched.
	if calls := engine.ConstructCalls(); len(calls) != 0 {
		t.Errorf("Expected zero cost constructions during plan, got %d", len(calls))
	}
	if calls := engine.SearchCalls(); len(calls) != 0 {
		t.Errorf("Expected zero searches during plan, got %d", len(calls))
	}
}

func TestPlannerService_PlanSurfacesDomainErrors(t *testing.T) {
	service, engine, repo := newTestPlanner()

	tests := []struct {
		name    string
		req     PlanRequest
		errType func(error) bool
	}{
		{
			name:    "syntax error",
			req:     PlanRequest{ModelExpr: "normal(?", Series: planSeries},
			errType: core.IsSyntaxError,
		},
		{
			name:    "underspecified model",
			req:     PlanRequest{ModelExpr: "normal(1, 2)", Series: planSeries},
			errType: core.IsUnderspecifiedError,
		},
		{
			name:    "unsupported family",
			req:     PlanRequest{ModelExpr: "weibull(?, 1)", Series: planSeries},
			errType: core.IsUnsupportedDistributionError,
		},
		{
			name: "too many penalties",
			req: PlanRequest{
				ModelExpr: "normal(?, 1)",
				Series:    planSeries,
				Penalties: []float64{1, 2, 3},
			},
			errType: core.IsInvocationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Plan(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.errType(err) {
				t.Errorf("Expected taxonomy error, got %v", err)
			}
		})
	}

	if repo.Len() != 0 {
		t.Errorf("Expected no runs persisted on failure, store has %d", repo.Len())
	}
	if calls := engine.SearchCalls(); len(calls) != 0 {
		t.Errorf("Expected zero searches on failed plans, got %d", len(calls))
	}
}

func TestPlannerService_ExecuteDispatch(t *testing.T) {
	tests := []struct {
		name      string
		penalties []float64
		algorithm search.Algorithm
		wantCall  string
	}{
		{"pelt", []float64{10}, search.AlgorithmPELT, "single_penalty"},
		{"crops via range", []float64{2, 20}, search.AlgorithmPELT, "penalty_range"},
		{"binseg", []float64{10}, search.AlgorithmBinSeg, "binary_segmentation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, engine, _ := newTestPlanner()

			result, err := service.Plan(context.Background(), PlanRequest{
				ModelExpr: "normal(?, 1)",
				Series:    planSeries,
				Penalties: tt.penalties,
				Algorithm: tt.algorithm,
			})
			if err != nil {
				t.Fatalf("Expected plan to succeed, got %v", err)
			}

			outcome, err := service.Execute(context.Background(), result.Invocation)
			if err != nil {
				t.Fatalf("Expected execute to succeed, got %v", err)
			}

			calls := engine.SearchCalls()
			if len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("Expected one %s call, got %v", tt.wantCall, calls)
			}
			if constructs := engine.ConstructCalls(); len(constructs) != 1 {
				t.Errorf("Expected one cost construction, got %d", len(constructs))
			}

			if tt.wantCall == "penalty_range" {
				if len(outcome.Solutions) == 0 {
					t.Error("Expected penalty-range solutions")
				}
			} else if len(outcome.Changepoints) == 0 {
				t.Error("Expected changepoints")
			}
		})
	}
}

func TestPlannerService_PlanAndExecute(t *testing.T) {
	service, _, repo := newTestPlanner()

	result, err := service.PlanAndExecute(context.Background(), PlanRequest{
		ModelExpr: "normal(?, 1)",
		Series:    planSeries,
		Penalties: []float64{10},
	})
	if err != nil {
		t.Fatalf("Expected plan and execute to succeed, got %v", err)
	}

	if !result.Run.Completed() {
		t.Error("Expected the run to carry an outcome")
	}
	wantPoints := []int{2, 4, 6}
	if len(result.Run.Outcome.Changepoints) != len(wantPoints) {
		t.Fatalf("Expected %v, got %v", wantPoints, result.Run.Outcome.Changepoints)
	}
	for i, p := range wantPoints {
		if result.Run.Outcome.Changepoints[i] != p {
			t.Fatalf("Expected %v, got %v", wantPoints, result.Run.Outcome.Changepoints)
		}
	}
	if result.Run.Outcome.TotalCost != float64(len(planSeries)) {
		t.Errorf("Expected total cost %d, got %g", len(planSeries), result.Run.Outcome.TotalCost)
	}

	stored, err := repo.GetRun(context.Background(), result.Run.RunID)
	if err != nil {
		t.Fatalf("Expected stored run, got %v", err)
	}
	if !stored.Completed() {
		t.Error("Expected the stored run to carry the outcome")
	}
}

func TestPlannerService_ExecuteRequiresBackend(t *testing.T) {
	service := NewPlannerService(nil, nil, nil, "test")

	result, err := service.Plan(context.Background(), PlanRequest{
		ModelExpr: "normal(?, 1)",
		Series:    planSeries,
	})
	if err != nil {
		t.Fatalf("Expected plan-only use to work without ports, got %v", err)
	}

	if _, err := service.Execute(context.Background(), result.Invocation); err == nil {
		t.Error("Expected execute without a backend to fail")
	}
}

func TestPlannerService_ExecutePropagatesSearchErrors(t *testing.T) {
	service, engine, _ := newTestPlanner()
	engine.SearchErr = errors.New("backend unavailable")

	_, err := service.PlanAndExecute(context.Background(), PlanRequest{
		ModelExpr: "normal(?, 1)",
		Series:    planSeries,
		Penalties: []float64{10},
	})
	if err == nil || !errors.Is(err, engine.SearchErr) {
		t.Errorf("Expected the backend error to surface, got %v", err)
	}
}
