package app

import (
	"context"
	"testing"

	"gocpd/domain/core"
)

func TestSweepService_Run(t *testing.T) {
	planner, _, repo := newTestPlanner()
	sweep := NewSweepService(planner, 2)

	req := SweepRequest{
		ModelExprs: []string{
			"normal(?, 1)",
			"normal(1, 2)", // underspecified on purpose
			"poisson(?)",
		},
		Series:    planSeries,
		Penalties: []float64{10},
	}

	result, err := sweep.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected sweep to succeed, got %v", err)
	}

	if result.SweepID == "" {
		t.Error("Expected a sweep ID")
	}
	if len(result.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(result.Items))
	}

	// Items must come back in request order.
	for i, expr := range req.ModelExprs {
		if result.Items[i].ModelExpr != expr {
			t.Errorf("Expected item %d to be %q, got %q", i, expr, result.Items[i].ModelExpr)
		}
	}

	if result.Items[0].Err != nil {
		t.Errorf("Expected first candidate to succeed, got %v", result.Items[0].Err)
	}
	if !result.Items[0].Result.Run.Completed() {
		t.Error("Expected first candidate to carry an outcome")
	}

	if !core.IsUnderspecifiedError(result.Items[1].Err) {
		t.Errorf("Expected underspecified error for second candidate, got %v", result.Items[1].Err)
	}
	if result.Items[1].Result != nil {
		t.Error("Expected no result for the failed candidate")
	}

	if result.Items[2].Err != nil {
		t.Errorf("Expected third candidate to succeed, got %v", result.Items[2].Err)
	}

	// Two valid candidates, two persisted runs.
	if repo.Len() != 2 {
		t.Errorf("Expected 2 persisted runs, got %d", repo.Len())
	}
}

func TestSweepService_RejectsEmptyRequest(t *testing.T) {
	planner, _, _ := newTestPlanner()
	sweep := NewSweepService(planner, 2)

	if _, err := sweep.Run(context.Background(), SweepRequest{Series: planSeries}); err == nil {
		t.Error("Expected empty sweep to fail")
	}
}

func TestSweepService_SerialBoundStillCoversAllCandidates(t *testing.T) {
	planner, engine, _ := newTestPlanner()
	sweep := NewSweepService(planner, 1)

	exprs := []string{"normal(?, 1)", "normal(1, ?)", "normal(?, ?)", "exponential(?)", "gamma(?, 2)"}
	result, err := sweep.Run(context.Background(), SweepRequest{
		ModelExprs: exprs,
		Series:     planSeries,
		Penalties:  []float64{10},
	})
	if err != nil {
		t.Fatalf("Expected sweep to succeed, got %v", err)
	}

	for i, item := range result.Items {
		if item.Err != nil {
			t.Errorf("Expected candidate %d to succeed, got %v", i, item.Err)
		}
	}
	if calls := engine.SearchCalls(); len(calls) != len(exprs) {
		t.Errorf("Expected %d searches, got %d", len(exprs), len(calls))
	}
}

func TestSweepService_DefaultsConcurrencyBound(t *testing.T) {
	planner, _, _ := newTestPlanner()
	sweep := NewSweepService(planner, 0)
	if sweep.maxConcurrent != 4 {
		t.Errorf("Expected default bound of 4, got %d", sweep.maxConcurrent)
	}
}

func TestSweepService_PlanOnlyWithoutBackend(t *testing.T) {
	planner := NewPlannerService(nil, nil, nil, "test")
	sweep := NewSweepService(planner, 2)

	result, err := sweep.Run(context.Background(), SweepRequest{
		ModelExprs: []string{"normal(?, 1)", "ols()"},
		Series:     planSeries,
		Penalties:  []float64{10},
	})
	if err != nil {
		t.Fatalf("Expected plan-only sweep to succeed, got %v", err)
	}

	for i, item := range result.Items {
		if item.Err != nil {
			t.Errorf("Expected candidate %d to plan cleanly, got %v", i, item.Err)
		}
		if item.Result == nil {
			t.Fatalf("Expected candidate %d to carry a manifest", i)
		}
		if item.Result.Run.Completed() {
			t.Errorf("Expected candidate %d to stop at planning", i)
		}
	}
}
