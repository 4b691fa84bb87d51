package search

import (
	"errors"
	"math"
	"testing"

	"gocpd/domain/core"
	"gocpd/domain/cost"
)

func testDescriptor(t *testing.T, n int) cost.Descriptor {
	t.Helper()
	series := make([]float64, n)
	for i := range series {
		series[i] = float64(i)
	}
	desc, err := cost.ResolveExpression("normal(?, 1)", series)
	if err != nil {
		t.Fatalf("Unexpected error resolving fixture: %v", err)
	}
	return desc
}

// TestBuildPenaltyCardinality tests zero, one, and two penalty arguments
func TestBuildPenaltyCardinality(t *testing.T) {
	desc := testDescriptor(t, 100)

	t.Run("zero args defer to algorithm default", func(t *testing.T) {
		inv, err := Build(desc, 100, nil, AlgorithmPELT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !inv.Penalty.IsNone() {
			t.Errorf("Expected no penalty, got %s", inv.Penalty)
		}
		if inv.Algorithm != AlgorithmPELT {
			t.Errorf("Expected pelt, got %s", inv.Algorithm)
		}
	})

	t.Run("one arg fixes a scalar penalty", func(t *testing.T) {
		inv, err := Build(desc, 100, []float64{0.5}, AlgorithmPELT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if inv.Penalty.Mode != PenaltyScalar || inv.Penalty.Value != 0.5 {
			t.Errorf("Expected scalar(0.5), got %s", inv.Penalty)
		}
	})

	t.Run("two args promote pelt to crops", func(t *testing.T) {
		inv, err := Build(desc, 100, []float64{0.1, 3.0}, AlgorithmPELT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if inv.Algorithm != AlgorithmCROPS {
			t.Errorf("Expected promotion to crops, got %s", inv.Algorithm)
		}
		if inv.Penalty.Mode != PenaltyRange || inv.Penalty.Low != 0.1 || inv.Penalty.High != 3.0 {
			t.Errorf("Expected range(0.1, 3.0) with order preserved, got %s", inv.Penalty)
		}
	})

	t.Run("explicit crops keeps its range", func(t *testing.T) {
		inv, err := Build(desc, 100, []float64{0.5, 2.0}, AlgorithmCROPS)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if inv.Algorithm != AlgorithmCROPS || inv.Penalty.Mode != PenaltyRange {
			t.Errorf("Expected crops range invocation, got %s %s", inv.Algorithm, inv.Penalty)
		}
	})

	t.Run("binseg takes a scalar", func(t *testing.T) {
		inv, err := Build(desc, 100, []float64{1.5}, AlgorithmBinSeg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if inv.Penalty.Mode != PenaltyScalar {
			t.Errorf("Expected scalar penalty, got %s", inv.Penalty)
		}
	})
}

// TestBuildErrors tests every rejected build
func TestBuildErrors(t *testing.T) {
	desc := testDescriptor(t, 100)

	tests := []struct {
		name      string
		length    int
		args      []float64
		algorithm Algorithm
	}{
		{"two args against binseg", 100, []float64{0.5, 2.0}, AlgorithmBinSeg},
		{"crops without args", 100, nil, AlgorithmCROPS},
		{"crops with one arg", 100, []float64{0.5}, AlgorithmCROPS},
		{"three args", 100, []float64{1, 2, 3}, AlgorithmPELT},
		{"length mismatch", 99, nil, AlgorithmPELT},
		{"zero length", 0, nil, AlgorithmPELT},
		{"negative length", -1, nil, AlgorithmPELT},
		{"unknown algorithm", 100, nil, Algorithm("segneigh")},
		{"negative penalty", 100, []float64{-0.5}, AlgorithmPELT},
		{"nan penalty", 100, []float64{math.NaN()}, AlgorithmPELT},
		{"infinite penalty", 100, []float64{math.Inf(1), 2}, AlgorithmPELT},
		{"inverted range", 100, []float64{3.0, 0.1}, AlgorithmPELT},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Build(desc, test.length, test.args, test.algorithm)
			if err == nil {
				t.Fatal("Expected build error, got none")
			}
			if !errors.Is(err, core.ErrInvocation) {
				t.Errorf("Expected ErrInvocation, got %v", err)
			}
		})
	}
}

// TestParseAlgorithm tests algorithm name parsing
func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
		hasError bool
	}{
		{"pelt", AlgorithmPELT, false},
		{"PELT", AlgorithmPELT, false},
		{" crops ", AlgorithmCROPS, false},
		{"binseg", AlgorithmBinSeg, false},
		{"amoc", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseAlgorithm(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input %q, but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input %q: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestPenaltyString tests penalty rendering for logs and manifests
func TestPenaltyString(t *testing.T) {
	if NoPenalty().String() != "default" {
		t.Errorf("Expected 'default', got %q", NoPenalty().String())
	}
	if ScalarPenalty(0.5).String() != "scalar(0.5)" {
		t.Errorf("Expected 'scalar(0.5)', got %q", ScalarPenalty(0.5).String())
	}
	if RangePenalty(0.1, 3).String() != "range(0.1, 3)" {
		t.Errorf("Expected 'range(0.1, 3)', got %q", RangePenalty(0.1, 3).String())
	}
}
