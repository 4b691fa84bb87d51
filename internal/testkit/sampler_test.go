package testkit

import (
	"math"
	"testing"

	"gocpd/domain/model"

	"github.com/montanaflynn/stats"
)

func TestSamplerDeterminism(t *testing.T) {
	config := DefaultSamplerConfig()

	first, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical series for same seed, diverged at index %d: %g vs %g",
				i, first[i], second[i])
		}
	}
}

func TestSamplerSeedVariation(t *testing.T) {
	config := DefaultSamplerConfig()
	base, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	config.Seed = 43
	other, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	same := true
	for i := range base {
		if base[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different seeds to produce different series")
	}
}

func TestSamplerSegmentStructure(t *testing.T) {
	config := SamplerConfig{
		Family: model.FamilyNormal,
		Segments: []SegmentSpec{
			{Length: 200, Params: []float64{0, 1}},
			{Length: 300, Params: []float64{10, 1}},
		},
		Seed: 7,
	}

	series, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 500 {
		t.Fatalf("Expected 500 observations, got %d", len(series))
	}

	lowMean, _ := stats.Mean(series[:200])
	highMean, _ := stats.Mean(series[200:])
	if math.Abs(lowMean) > 0.5 {
		t.Errorf("Expected first regime mean near 0, got %g", lowMean)
	}
	if math.Abs(highMean-10) > 0.5 {
		t.Errorf("Expected second regime mean near 10, got %g", highMean)
	}
}

func TestSamplerPoissonCounts(t *testing.T) {
	config := SamplerConfig{
		Family:   model.FamilyPoisson,
		Segments: []SegmentSpec{{Length: 50, Params: []float64{3}}},
		Seed:     11,
	}

	series, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, v := range series {
		if v < 0 || v != math.Trunc(v) {
			t.Fatalf("Expected non-negative integer counts, got %g at index %d", v, i)
		}
	}
}

func TestSamplerTrend(t *testing.T) {
	config := SamplerConfig{
		Family:   model.FamilyOLS,
		Segments: []SegmentSpec{{Length: 10, Params: []float64{2, 0.5, 0}}},
		Seed:     1,
	}

	series, err := NewSampler(config).Series()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, v := range series {
		want := 2 + 0.5*float64(i)
		if v != want {
			t.Fatalf("Expected noiseless trend value %g at index %d, got %g", want, i, v)
		}
	}
}

func TestSamplerValidation(t *testing.T) {
	tests := []struct {
		name   string
		config SamplerConfig
	}{
		{
			name:   "no segments",
			config: SamplerConfig{Family: model.FamilyNormal},
		},
		{
			name: "unsupported family",
			config: SamplerConfig{
				Family:   model.Family("weibull"),
				Segments: []SegmentSpec{{Length: 10, Params: []float64{1, 1}}},
			},
		},
		{
			name: "zero length segment",
			config: SamplerConfig{
				Family:   model.FamilyNormal,
				Segments: []SegmentSpec{{Length: 0, Params: []float64{0, 1}}},
			},
		},
		{
			name: "wrong parameter count",
			config: SamplerConfig{
				Family:   model.FamilyNormal,
				Segments: []SegmentSpec{{Length: 10, Params: []float64{0}}},
			},
		},
		{
			name: "non-positive sigma",
			config: SamplerConfig{
				Family:   model.FamilyNormal,
				Segments: []SegmentSpec{{Length: 10, Params: []float64{0, -1}}},
			},
		},
		{
			name: "non-positive rate",
			config: SamplerConfig{
				Family:   model.FamilyExponential,
				Segments: []SegmentSpec{{Length: 10, Params: []float64{0}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSampler(tt.config).Series(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestChangepoints(t *testing.T) {
	segments := []SegmentSpec{{Length: 5}, {Length: 5}, {Length: 10}}
	points := Changepoints(segments)
	if len(points) != 2 || points[0] != 5 || points[1] != 10 {
		t.Errorf("Expected changepoints [5 10], got %v", points)
	}

	if points := Changepoints([]SegmentSpec{{Length: 20}}); points != nil {
		t.Errorf("Expected no changepoints for a single segment, got %v", points)
	}
}
