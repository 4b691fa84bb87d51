package run

import (
	"gocpd/domain/core"
	"gocpd/domain/cost"
	"gocpd/domain/search"
)

// DetectionRun records one planned changepoint detection: the model as
// written, what it resolved to, and the invocation handed to the search
// backend. This is the "truth source" for replay - the fingerprint pins
// every input that determines the result.
type DetectionRun struct {
	RunID        core.RunID         `json:"run_id"`
	ModelExpr    string             `json:"model_expr"`
	CostKind     cost.Kind          `json:"cost_kind"`
	FixedParams  map[string]float64 `json:"fixed_params,omitempty"`
	Algorithm    search.Algorithm   `json:"algorithm"`
	Penalty      search.Penalty     `json:"penalty"`
	SeriesLength int                `json:"series_length"`
	SeriesHash   core.SeriesHash    `json:"series_hash"`
	CodeVersion  string             `json:"code_version"`
	Fingerprint  RunFingerprint     `json:"fingerprint"` // Determinism fingerprint
	CreatedAt    core.Timestamp     `json:"created_at"`
	Outcome      *Outcome           `json:"outcome,omitempty"`
}

// NewDetectionRun creates a run record from a validated invocation
func NewDetectionRun(modelExpr string, inv search.Invocation, codeVersion string) *DetectionRun {
	seriesHash := core.ComputeSeriesHash(inv.Descriptor.Series)
	fingerprint := NewRunFingerprint(modelExpr, inv.Algorithm, inv.Penalty, seriesHash, codeVersion)

	return &DetectionRun{
		RunID:        core.RunID(core.NewID()),
		ModelExpr:    modelExpr,
		CostKind:     inv.Descriptor.Kind,
		FixedParams:  inv.Descriptor.FixedParams,
		Algorithm:    inv.Algorithm,
		Penalty:      inv.Penalty,
		SeriesLength: inv.SeriesLength,
		SeriesHash:   seriesHash,
		CodeVersion:  codeVersion,
		Fingerprint:  fingerprint,
		CreatedAt:    core.Now(),
	}
}

// AttachOutcome records the backend's result on the run
func (r *DetectionRun) AttachOutcome(outcome Outcome) {
	if outcome.CompletedAt.IsZero() {
		outcome.CompletedAt = core.Now()
	}
	r.Outcome = &outcome
}

// Completed checks whether an outcome has been recorded
func (r *DetectionRun) Completed() bool {
	return r.Outcome != nil
}

// Validate checks if the run record is complete
func (r *DetectionRun) Validate() error {
	if core.ID(r.RunID).IsEmpty() {
		return core.NewValidationError("detection_run", "run_id cannot be empty")
	}
	if r.ModelExpr == "" {
		return core.NewValidationError("detection_run", "model_expr cannot be empty")
	}
	if r.CostKind == "" {
		return core.NewValidationError("detection_run", "cost_kind cannot be empty")
	}
	if r.Algorithm == "" {
		return core.NewValidationError("detection_run", "algorithm cannot be empty")
	}
	if r.SeriesLength <= 0 {
		return core.NewValidationError("detection_run", "series_length must be positive")
	}
	if r.SeriesHash == "" {
		return core.NewValidationError("detection_run", "series_hash cannot be empty")
	}
	if r.CodeVersion == "" {
		return core.NewValidationError("detection_run", "code_version cannot be empty")
	}
	return nil
}
