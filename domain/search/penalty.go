package search

import (
	"fmt"
)

// PenaltyMode distinguishes the three penalty shapes an invocation can carry
type PenaltyMode string

const (
	PenaltyNone   PenaltyMode = "none"
	PenaltyScalar PenaltyMode = "scalar"
	PenaltyRange  PenaltyMode = "range"
)

// Penalty carries the penalty arguments handed to a search algorithm.
// None defers to the algorithm's statistically-default penalty; the
// default is computed by the external algorithm, never here.
type Penalty struct {
	Mode  PenaltyMode `json:"mode"`
	Value float64     `json:"value,omitempty"`
	Low   float64     `json:"low,omitempty"`
	High  float64     `json:"high,omitempty"`
}

// NoPenalty defers penalty choice to the search algorithm
func NoPenalty() Penalty {
	return Penalty{Mode: PenaltyNone}
}

// ScalarPenalty fixes a single penalty value
func ScalarPenalty(v float64) Penalty {
	return Penalty{Mode: PenaltyScalar, Value: v}
}

// RangePenalty spans a penalty interval, order preserved as supplied
func RangePenalty(low, high float64) Penalty {
	return Penalty{Mode: PenaltyRange, Low: low, High: high}
}

// IsNone checks whether the penalty defers to the algorithm default
func (p Penalty) IsNone() bool {
	return p.Mode == PenaltyNone || p.Mode == ""
}

// String returns a compact representation for logs and manifests
func (p Penalty) String() string {
	switch p.Mode {
	case PenaltyScalar:
		return fmt.Sprintf("scalar(%g)", p.Value)
	case PenaltyRange:
		return fmt.Sprintf("range(%g, %g)", p.Low, p.High)
	default:
		return "default"
	}
}
