package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gocpd/domain/core"
	"gocpd/domain/cost"
	"gocpd/domain/run"
	"gocpd/domain/search"
	"gocpd/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun persists a run record, replacing any record with the same run ID
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, detection *run.DetectionRun) error {
	if err := detection.Validate(); err != nil {
		return err
	}

	fixedParamsJSON, _ := json.Marshal(detection.FixedParams)
	penaltyJSON, _ := json.Marshal(detection.Penalty)

	// Outcome stays NULL until the search backend reports back
	var outcomeJSON []byte
	if detection.Outcome != nil {
		outcomeJSON, _ = json.Marshal(detection.Outcome)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO detection_runs (
			run_id, model_expr, cost_kind, fixed_params, algorithm, penalty,
			series_length, series_hash, code_version, fingerprint, outcome, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE SET
			model_expr = EXCLUDED.model_expr,
			cost_kind = EXCLUDED.cost_kind,
			fixed_params = EXCLUDED.fixed_params,
			algorithm = EXCLUDED.algorithm,
			penalty = EXCLUDED.penalty,
			series_length = EXCLUDED.series_length,
			series_hash = EXCLUDED.series_hash,
			code_version = EXCLUDED.code_version,
			fingerprint = EXCLUDED.fingerprint,
			outcome = EXCLUDED.outcome`,
		detection.RunID.String(), detection.ModelExpr, detection.CostKind.String(), fixedParamsJSON,
		detection.Algorithm.String(), penaltyJSON, detection.SeriesLength, detection.SeriesHash.String(),
		detection.CodeVersion, detection.Fingerprint.Fingerprint.String(), outcomeJSON, detection.CreatedAt.Time())

	if err != nil {
		return core.NewDatabaseError("save run", err)
	}
	return nil
}

// GetRun retrieves a run record by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*run.DetectionRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT run_id, model_expr, cost_kind, fixed_params, algorithm, penalty,
		       series_length, series_hash, code_version, outcome, created_at
		FROM detection_runs
		WHERE run_id = $1
	`, runID.String())

	detection, err := scanDetectionRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("run", runID.String())
		}
		return nil, core.NewDatabaseError("get run", err)
	}
	return detection, nil
}

// ListRuns returns run records matching the filters, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*run.DetectionRun, error) {
	query := `
		SELECT run_id, model_expr, cost_kind, fixed_params, algorithm, penalty,
		       series_length, series_hash, code_version, outcome, created_at
		FROM detection_runs
	`

	var (
		clauses []string
		args    []interface{}
	)
	if filters.Algorithm != nil {
		args = append(args, filters.Algorithm.String())
		clauses = append(clauses, fmt.Sprintf("algorithm = $%d", len(args)))
	}
	if filters.CostKind != nil {
		args = append(args, filters.CostKind.String())
		clauses = append(clauses, fmt.Sprintf("cost_kind = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewDatabaseError("list runs", err)
	}
	defer rows.Close()

	var detections []*run.DetectionRun
	for rows.Next() {
		detection, err := scanDetectionRun(rows)
		if err != nil {
			return nil, core.NewDatabaseError("scan run", err)
		}
		detections = append(detections, detection)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDatabaseError("list runs", err)
	}
	return detections, nil
}

// rowScanner lets the same scan work for QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetectionRun(row rowScanner) (*run.DetectionRun, error) {
	var (
		runID, modelExpr, costKind, algorithm, seriesHash, codeVersion string
		fixedParamsJSON, penaltyJSON, outcomeJSON                      []byte
		seriesLength                                                   int
		createdAt                                                      time.Time
	)

	err := row.Scan(&runID, &modelExpr, &costKind, &fixedParamsJSON, &algorithm,
		&penaltyJSON, &seriesLength, &seriesHash, &codeVersion, &outcomeJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	detection := &run.DetectionRun{
		RunID:        core.RunID(runID),
		ModelExpr:    modelExpr,
		CostKind:     cost.Kind(costKind),
		Algorithm:    search.Algorithm(algorithm),
		SeriesLength: seriesLength,
		SeriesHash:   core.SeriesHash(seriesHash),
		CodeVersion:  codeVersion,
		CreatedAt:    core.NewTimestamp(createdAt),
	}

	if len(fixedParamsJSON) > 0 {
		if err := json.Unmarshal(fixedParamsJSON, &detection.FixedParams); err != nil {
			return nil, err
		}
	}
	if len(penaltyJSON) > 0 {
		if err := json.Unmarshal(penaltyJSON, &detection.Penalty); err != nil {
			return nil, err
		}
	}
	if len(outcomeJSON) > 0 {
		var outcome run.Outcome
		if err := json.Unmarshal(outcomeJSON, &outcome); err != nil {
			return nil, err
		}
		detection.Outcome = &outcome
	}

	// The fingerprint is a pure function of the stored fields, so rebuild
	// it instead of persisting the expansion.
	detection.Fingerprint = run.NewRunFingerprint(detection.ModelExpr, detection.Algorithm,
		detection.Penalty, detection.SeriesHash, detection.CodeVersion)

	return detection, nil
}
