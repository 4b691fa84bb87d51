package cost

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which segment cost function a resolved model selects
type Kind string

const (
	KindNormalMean    Kind = "normal_mean"
	KindNormalVar     Kind = "normal_var"
	KindNormalMeanVar Kind = "normal_meanvar"
	KindExponential   Kind = "exponential"
	KindPoisson       Kind = "poisson"
	KindGammaShape    Kind = "gamma_shape"
	KindGammaRate     Kind = "gamma_rate"
	KindNonparametric Kind = "nonparametric"
	KindOLS           Kind = "ols"
)

var kindLabels = map[Kind]string{
	KindNormalMean:    "change in normal mean with fixed variance",
	KindNormalVar:     "change in normal variance with fixed mean",
	KindNormalMeanVar: "change in normal mean and variance",
	KindExponential:   "change in exponential rate",
	KindPoisson:       "change in poisson intensity",
	KindGammaShape:    "change in gamma shape with fixed rate",
	KindGammaRate:     "change in gamma rate with fixed shape",
	KindNonparametric: "nonparametric change over empirical quantiles",
	KindOLS:           "change in linear trend",
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Label returns the human-readable description of the cost kind
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Descriptor selects a segment cost function together with the parameter
// values the model holds fixed. Series is the data the cost function will
// be evaluated over; the descriptor references it without copying and
// never mutates it.
type Descriptor struct {
	Kind        Kind               `json:"kind"`
	FixedParams map[string]float64 `json:"fixed_params,omitempty"`
	Series      []float64          `json:"-"`
}

// Length returns the number of observations the descriptor references
func (d Descriptor) Length() int {
	return len(d.Series)
}

// Describe renders an informational summary of the selected model, e.g.
// "change in normal mean with fixed variance (sigma=2)". Purely
// observational; callers must not branch on it.
func (d Descriptor) Describe() string {
	desc := d.Kind.Label()
	if len(d.FixedParams) == 0 {
		return desc
	}

	keys := make([]string, 0, len(d.FixedParams))
	for k := range d.FixedParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, strconv.FormatFloat(d.FixedParams[k], 'g', -1, 64))
	}
	return desc + " (" + strings.Join(parts, ", ") + ")"
}
