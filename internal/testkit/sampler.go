package testkit

import (
	"fmt"
	"math/rand/v2"

	"gocpd/domain/model"

	"gonum.org/v1/gonum/stat/distuv"
)

// SegmentSpec describes one homogeneous stretch of a synthetic series
type SegmentSpec struct {
	Length int       `json:"length"`
	Params []float64 `json:"params"`
}

// SamplerConfig configures the synthetic changepoint series sampler
type SamplerConfig struct {
	Family   model.Family  `json:"family"`
	Segments []SegmentSpec `json:"segments"`
	Seed     uint64        `json:"seed"`
}

// DefaultSamplerConfig returns a two-regime normal mean shift
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Family: model.FamilyNormal,
		Segments: []SegmentSpec{
			{Length: 100, Params: []float64{0, 1}},
			{Length: 100, Params: []float64{5, 1}},
		},
		Seed: 42,
	}
}

// Sampler draws synthetic series with known changepoints, segment by
// segment. Each family takes the distribution parameters its cost model
// estimates, so sampled data exercises the matching descriptor kinds.
//
//	normal       [mu, sigma]
//	exponential  [rate]
//	poisson      [lambda]
//	gamma        [shape, rate]
//	ols          [intercept, slope, sigma] per segment
type Sampler struct {
	config SamplerConfig
}

// NewSampler creates a sampler for the given configuration
func NewSampler(config SamplerConfig) *Sampler {
	return &Sampler{config: config}
}

// Series draws the full series. Repeated calls with the same config return
// the same values.
func (s *Sampler) Series() ([]float64, error) {
	if len(s.config.Segments) == 0 {
		return nil, fmt.Errorf("sampler requires at least one segment")
	}

	arity, ok := samplerArity[s.config.Family]
	if !ok {
		return nil, fmt.Errorf("sampler does not support family %q", s.config.Family)
	}

	total := 0
	for i, seg := range s.config.Segments {
		if seg.Length <= 0 {
			return nil, fmt.Errorf("segment %d has non-positive length %d", i, seg.Length)
		}
		if len(seg.Params) != arity {
			return nil, fmt.Errorf("segment %d: family %q takes %d parameter(s), got %d",
				i, s.config.Family, arity, len(seg.Params))
		}
		total += seg.Length
	}

	src := rand.NewPCG(s.config.Seed, s.config.Seed)
	series := make([]float64, 0, total)
	for _, seg := range s.config.Segments {
		values, err := drawSegment(s.config.Family, seg, src)
		if err != nil {
			return nil, err
		}
		series = append(series, values...)
	}
	return series, nil
}

// Changepoints returns the true changepoint indices implied by the segment
// lengths: the index of the first observation of each regime after the first.
func Changepoints(segments []SegmentSpec) []int {
	if len(segments) < 2 {
		return nil
	}
	var points []int
	offset := 0
	for _, seg := range segments[:len(segments)-1] {
		offset += seg.Length
		points = append(points, offset)
	}
	return points
}

var samplerArity = map[model.Family]int{
	model.FamilyNormal:      2,
	model.FamilyExponential: 1,
	model.FamilyPoisson:     1,
	model.FamilyGamma:       2,
	model.FamilyOLS:         3,
}

func drawSegment(family model.Family, seg SegmentSpec, src rand.Source) ([]float64, error) {
	values := make([]float64, seg.Length)

	switch family {
	case model.FamilyNormal:
		mu, sigma := seg.Params[0], seg.Params[1]
		if sigma <= 0 {
			return nil, fmt.Errorf("normal segment requires sigma > 0, got %g", sigma)
		}
		dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
		for i := range values {
			values[i] = dist.Rand()
		}

	case model.FamilyExponential:
		rate := seg.Params[0]
		if rate <= 0 {
			return nil, fmt.Errorf("exponential segment requires rate > 0, got %g", rate)
		}
		dist := distuv.Exponential{Rate: rate, Src: src}
		for i := range values {
			values[i] = dist.Rand()
		}

	case model.FamilyPoisson:
		lambda := seg.Params[0]
		if lambda <= 0 {
			return nil, fmt.Errorf("poisson segment requires lambda > 0, got %g", lambda)
		}
		dist := distuv.Poisson{Lambda: lambda, Src: src}
		for i := range values {
			values[i] = dist.Rand()
		}

	case model.FamilyGamma:
		shape, rate := seg.Params[0], seg.Params[1]
		if shape <= 0 || rate <= 0 {
			return nil, fmt.Errorf("gamma segment requires shape and rate > 0, got shape=%g rate=%g", shape, rate)
		}
		dist := distuv.Gamma{Alpha: shape, Beta: rate, Src: src}
		for i := range values {
			values[i] = dist.Rand()
		}

	case model.FamilyOLS:
		intercept, slope, sigma := seg.Params[0], seg.Params[1], seg.Params[2]
		if sigma < 0 {
			return nil, fmt.Errorf("ols segment requires sigma >= 0, got %g", sigma)
		}
		for i := range values {
			values[i] = intercept + slope*float64(i)
		}
		if sigma > 0 {
			noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
			for i := range values {
				values[i] += noise.Rand()
			}
		}

	default:
		return nil, fmt.Errorf("sampler does not support family %q", family)
	}

	return values, nil
}
