package model

import (
	"strconv"
	"strings"
)

// Family identifies a distribution family named in a model expression
type Family string

const (
	FamilyNormal        Family = "normal"
	FamilyExponential   Family = "exponential"
	FamilyPoisson       Family = "poisson"
	FamilyGamma         Family = "gamma"
	FamilyNonparametric Family = "nonparametric"
	FamilyOLS           Family = "ols"
)

// MarkerKind distinguishes fixed parameter values from change markers
type MarkerKind string

const (
	MarkerFixed    MarkerKind = "fixed"
	MarkerChanging MarkerKind = "changing"
)

// Marker is one positional parameter slot of a model expression: either a
// concrete value held constant across all segments, or a declaration that
// the parameter changes at the changepoints
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Value float64    `json:"value,omitempty"`
}

// Fixed creates a marker holding the parameter constant at v
func Fixed(v float64) Marker {
	return Marker{Kind: MarkerFixed, Value: v}
}

// Changing creates a marker declaring the parameter changes across segments
func Changing() Marker {
	return Marker{Kind: MarkerChanging}
}

// IsFixed checks whether the marker carries a constant value
func (m Marker) IsFixed() bool {
	return m.Kind == MarkerFixed
}

// IsChanging checks whether the marker declares a changing parameter
func (m Marker) IsChanging() bool {
	return m.Kind == MarkerChanging
}

// String renders the marker as it appears in a model expression
func (m Marker) String() string {
	if m.Kind == MarkerChanging {
		return "?"
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

// Spec is a parsed model expression: a distribution family plus its
// ordered parameter markers. Marker order is positional and significant.
type Spec struct {
	Family Family   `json:"family"`
	Params []Marker `json:"params"`
}

// New creates a spec from a family and its markers. The marker list is
// copied so later mutation of the caller's slice cannot change the spec.
func New(family Family, params ...Marker) Spec {
	copied := make([]Marker, len(params))
	copy(copied, params)
	return Spec{Family: family, Params: copied}
}

// Arity returns the number of parameter slots
func (s Spec) Arity() int {
	return len(s.Params)
}

// ChangingCount returns how many parameters are marked as changing
func (s Spec) ChangingCount() int {
	n := 0
	for _, p := range s.Params {
		if p.IsChanging() {
			n++
		}
	}
	return n
}

// Pattern returns the marker kinds joined positionally, e.g. "changing|fixed".
// Resolution rules match on this form.
func (s Spec) Pattern() string {
	kinds := make([]string, len(s.Params))
	for i, p := range s.Params {
		kinds[i] = string(p.Kind)
	}
	return strings.Join(kinds, "|")
}

// String renders the spec in canonical expression form, lowercase family
// with a parenthesized marker list
func (s Spec) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	return string(s.Family) + "(" + strings.Join(parts, ", ") + ")"
}
