package run

import (
	"crypto/sha256"
	"fmt"

	"gocpd/domain/core"
	"gocpd/domain/search"
)

// RunFingerprint ensures deterministic replay
type RunFingerprint struct {
	ModelExpr   string           `json:"model_expr"`
	Algorithm   search.Algorithm `json:"algorithm"`
	Penalty     string           `json:"penalty"`
	SeriesHash  core.SeriesHash  `json:"series_hash"`
	CodeVersion string           `json:"code_version"`
	Fingerprint core.Hash        `json:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(modelExpr string, algorithm search.Algorithm,
	penalty search.Penalty, seriesHash core.SeriesHash, codeVersion string) RunFingerprint {

	fingerprint := computeRunFingerprint(modelExpr, algorithm, penalty, seriesHash, codeVersion)

	return RunFingerprint{
		ModelExpr:   modelExpr,
		Algorithm:   algorithm,
		Penalty:     penalty.String(),
		SeriesHash:  seriesHash,
		CodeVersion: codeVersion,
		Fingerprint: fingerprint,
	}
}

// computeRunFingerprint generates deterministic hash from all determinism parameters
func computeRunFingerprint(modelExpr string, algorithm search.Algorithm,
	penalty search.Penalty, seriesHash core.SeriesHash, codeVersion string) core.Hash {

	// Create deterministic string representation
	data := fmt.Sprintf("model:%s|algorithm:%s|penalty:%s|series:%s|code:%s",
		modelExpr, algorithm, penalty, seriesHash, codeVersion)

	// Use SHA256 for deterministic hashing
	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

// Outcome captures what the search backend returned for a run
type Outcome struct {
	Changepoints []int                    `json:"changepoints,omitempty"`
	TotalCost    float64                  `json:"total_cost,omitempty"`
	Solutions    []search.PenaltySolution `json:"solutions,omitempty"`
	RuntimeMs    int64                    `json:"runtime_ms,omitempty"`
	CompletedAt  core.Timestamp           `json:"completed_at"`
}
