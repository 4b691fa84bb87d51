package cost

import (
	"fmt"
	"math"
	"sort"

	"gocpd/domain/core"
	"gocpd/domain/model"
)

// arityAny disables the parameter-count check for families whose markers
// are notational
const arityAny = -1

// familyRule is one record of the distribution rule table: the parameter
// count a family requires and which marker combinations select which
// cost kind. Adding a distribution is a table change, not a new branch.
type familyRule struct {
	arity   int
	params  []string        // positional parameter names retained for fixed markers
	combos  map[string]Kind // admissible marker patterns, keyed by Spec.Pattern()
	single  Kind            // kind used when combos is nil
	literal string          // name of the single non-marker literal, if any
	hint    string          // message when no marker combination matches
}

var ruleTable = map[model.Family]familyRule{
	model.FamilyNormal: {
		arity:  2,
		params: []string{"mu", "sigma"},
		combos: map[string]Kind{
			"changing|fixed":    KindNormalMean,
			"fixed|changing":    KindNormalVar,
			"changing|changing": KindNormalMeanVar,
		},
		hint: "must mark at least one of mu, sigma as changing",
	},
	model.FamilyExponential: {
		arity:  arityAny,
		single: KindExponential,
	},
	model.FamilyPoisson: {
		arity:  arityAny,
		single: KindPoisson,
	},
	model.FamilyGamma: {
		arity:  2,
		params: []string{"shape", "rate"},
		combos: map[string]Kind{
			"changing|fixed": KindGammaShape,
			"fixed|changing": KindGammaRate,
		},
		hint: "must mark exactly one of shape, rate as changing",
	},
	model.FamilyNonparametric: {
		arity:   1,
		single:  KindNonparametric,
		literal: "k",
	},
	model.FamilyOLS: {
		arity:  0,
		single: KindOLS,
	},
}

// familyOrder fixes the listing order for Families()
var familyOrder = []model.Family{
	model.FamilyNormal,
	model.FamilyExponential,
	model.FamilyPoisson,
	model.FamilyGamma,
	model.FamilyNonparametric,
	model.FamilyOLS,
}

// Resolve validates spec against the distribution rule table and selects
// the segment cost function its markers describe. Resolution is a pure
// lookup: the same spec always yields a structurally equal descriptor.
// The returned descriptor references series without copying it.
func Resolve(spec model.Spec, series []float64) (Descriptor, error) {
	rule, ok := ruleTable[spec.Family]
	if !ok {
		return Descriptor{}, core.NewUnsupportedDistributionError(string(spec.Family))
	}

	// Arity violations take precedence over marker inspection.
	if rule.arity != arityAny && spec.Arity() != rule.arity {
		return Descriptor{}, core.NewArityError(string(spec.Family), rule.arity, spec.Arity())
	}

	if rule.literal != "" {
		return resolveLiteral(rule, spec, series)
	}

	// Families whose markers are notational resolve unconditionally.
	if rule.combos == nil {
		return Descriptor{Kind: rule.single, Series: series}, nil
	}

	kind, ok := rule.combos[spec.Pattern()]
	if !ok {
		return Descriptor{}, core.NewUnderspecifiedError(string(spec.Family), rule.hint)
	}

	desc := Descriptor{Kind: kind, Series: series}
	for i, p := range spec.Params {
		if p.IsFixed() {
			if desc.FixedParams == nil {
				desc.FixedParams = make(map[string]float64, len(spec.Params))
			}
			desc.FixedParams[rule.params[i]] = p.Value
		}
	}
	return desc, nil
}

// ResolveExpression parses a model expression and resolves it in one step
func ResolveExpression(expr string, series []float64) (Descriptor, error) {
	spec, err := model.Parse(expr)
	if err != nil {
		return Descriptor{}, err
	}
	return Resolve(spec, series)
}

func resolveLiteral(rule familyRule, spec model.Spec, series []float64) (Descriptor, error) {
	m := spec.Params[0]
	if !m.IsFixed() {
		return Descriptor{}, core.NewSyntaxError(fmt.Sprintf("%s takes a literal %s, not '?'", spec.Family, rule.literal))
	}
	if m.Value < 1 || m.Value != math.Trunc(m.Value) {
		return Descriptor{}, core.NewSyntaxError(fmt.Sprintf("%s %s must be a positive integer, got %s", spec.Family, rule.literal, m.String()))
	}
	return Descriptor{
		Kind:        rule.single,
		FixedParams: map[string]float64{rule.literal: m.Value},
		Series:      series,
	}, nil
}

// PatternInfo pairs one admissible marker combination with the cost kind
// it selects
type PatternInfo struct {
	Markers string `json:"markers"`
	Kind    Kind   `json:"kind"`
}

// FamilyInfo describes one rule-table record for listings
type FamilyInfo struct {
	Family   model.Family  `json:"family"`
	Arity    string        `json:"arity"`
	Patterns []PatternInfo `json:"patterns"`
}

// Families lists the rule table in a stable order, for CLI and API
// family listings.
func Families() []FamilyInfo {
	infos := make([]FamilyInfo, 0, len(familyOrder))
	for _, family := range familyOrder {
		rule := ruleTable[family]

		info := FamilyInfo{Family: family}
		switch {
		case rule.arity == arityAny:
			info.Arity = "any"
		default:
			info.Arity = fmt.Sprintf("%d", rule.arity)
		}

		if rule.combos == nil {
			markers := "any"
			if rule.literal != "" {
				markers = rule.literal + " literal"
			}
			info.Patterns = []PatternInfo{{Markers: markers, Kind: rule.single}}
		} else {
			patterns := make([]string, 0, len(rule.combos))
			for p := range rule.combos {
				patterns = append(patterns, p)
			}
			sort.Strings(patterns)
			for _, p := range patterns {
				info.Patterns = append(info.Patterns, PatternInfo{Markers: p, Kind: rule.combos[p]})
			}
		}

		infos = append(infos, info)
	}
	return infos
}
