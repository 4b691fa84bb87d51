package search

import (
	"fmt"
	"math"
	"strings"

	"gocpd/domain/core"
	"gocpd/domain/cost"
)

// Algorithm identifies an external changepoint search backend
type Algorithm string

const (
	// AlgorithmPELT is single-penalty optimal partitioning
	AlgorithmPELT Algorithm = "pelt"
	// AlgorithmCROPS sweeps a penalty interval and reports every distinct
	// optimal segmentation within it
	AlgorithmCROPS Algorithm = "crops"
	// AlgorithmBinSeg is approximate binary segmentation
	AlgorithmBinSeg Algorithm = "binseg"
)

// ParseAlgorithm converts user input into an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgorithmPELT:
		return AlgorithmPELT, nil
	case AlgorithmCROPS:
		return AlgorithmCROPS, nil
	case AlgorithmBinSeg:
		return AlgorithmBinSeg, nil
	default:
		return "", core.NewInvocationError(fmt.Sprintf("unknown algorithm %q", s))
	}
}

// String returns the string representation
func (a Algorithm) String() string {
	return string(a)
}

// Invocation is a fully validated request against an external search
// backend: which algorithm to call, over which cost function, and with
// what penalty. Single-use; built once and handed to the backend.
type Invocation struct {
	Algorithm    Algorithm       `json:"algorithm"`
	Descriptor   cost.Descriptor `json:"descriptor"`
	SeriesLength int             `json:"series_length"`
	Penalty      Penalty         `json:"penalty"`
}

// Build combines a resolved descriptor with zero, one, or two penalty
// arguments into an invocation of the named algorithm.
//
// Zero arguments defer the penalty to the backend's default. One fixes a
// scalar penalty. Two span a penalty interval, which is only meaningful
// for the PELT family: a two-argument PELT build is promoted to CROPS,
// while a two-argument binary-segmentation build is rejected rather than
// silently ignoring the second value.
func Build(desc cost.Descriptor, seriesLength int, penaltyArgs []float64, algorithm Algorithm) (Invocation, error) {
	switch algorithm {
	case AlgorithmPELT, AlgorithmCROPS, AlgorithmBinSeg:
	default:
		return Invocation{}, core.NewInvocationError(fmt.Sprintf("unknown algorithm %q", string(algorithm)))
	}

	if seriesLength <= 0 {
		return Invocation{}, core.NewInvocationError(fmt.Sprintf("series length must be positive, got %d", seriesLength))
	}
	if seriesLength != desc.Length() {
		return Invocation{}, core.NewInvocationError(fmt.Sprintf("series length %d does not match descriptor's %d observations", seriesLength, desc.Length()))
	}

	inv := Invocation{Algorithm: algorithm, Descriptor: desc, SeriesLength: seriesLength}

	switch len(penaltyArgs) {
	case 0:
		if algorithm == AlgorithmCROPS {
			return Invocation{}, core.NewInvocationError("crops requires a penalty range, got no penalty arguments")
		}
		inv.Penalty = NoPenalty()

	case 1:
		v := penaltyArgs[0]
		if err := checkPenaltyValue(v); err != nil {
			return Invocation{}, err
		}
		if algorithm == AlgorithmCROPS {
			return Invocation{}, core.NewInvocationError("crops requires a penalty range, got a single value")
		}
		inv.Penalty = ScalarPenalty(v)

	case 2:
		low, high := penaltyArgs[0], penaltyArgs[1]
		if err := checkPenaltyValue(low); err != nil {
			return Invocation{}, err
		}
		if err := checkPenaltyValue(high); err != nil {
			return Invocation{}, err
		}
		if low > high {
			return Invocation{}, core.NewInvocationError(fmt.Sprintf("penalty range low %g exceeds high %g", low, high))
		}
		if algorithm == AlgorithmBinSeg {
			return Invocation{}, core.NewInvocationError("binseg accepts at most one penalty value")
		}
		// A penalty interval means range search regardless of how the
		// caller named the PELT family.
		inv.Algorithm = AlgorithmCROPS
		inv.Penalty = RangePenalty(low, high)

	default:
		return Invocation{}, core.NewInvocationError(fmt.Sprintf("at most two penalty arguments allowed, got %d", len(penaltyArgs)))
	}

	return inv, nil
}

func checkPenaltyValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return core.NewInvocationError("penalty values must be finite")
	}
	if v < 0 {
		return core.NewInvocationError(fmt.Sprintf("penalty values must be non-negative, got %g", v))
	}
	return nil
}
