package testkit

import (
	"context"
	"sort"
	"sync"

	"gocpd/domain/core"
	"gocpd/domain/run"
	"gocpd/ports"
)

// MemoryRunRepository is a map-backed RunRepository for tests and the CLI's
// no-database mode.
type MemoryRunRepository struct {
	runs  map[core.RunID]*run.DetectionRun
	order []core.RunID
	mu    sync.RWMutex
}

// NewMemoryRunRepository creates an empty in-memory run repository
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs: make(map[core.RunID]*run.DetectionRun),
	}
}

// SaveRun stores a copy of the run, replacing any run with the same ID
func (m *MemoryRunRepository) SaveRun(ctx context.Context, detection *run.DetectionRun) error {
	if err := detection.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *detection
	if detection.Outcome != nil {
		outcome := *detection.Outcome
		stored.Outcome = &outcome
	}

	if _, exists := m.runs[stored.RunID]; !exists {
		m.order = append(m.order, stored.RunID)
	}
	m.runs[stored.RunID] = &stored
	return nil
}

// GetRun retrieves a run by ID
func (m *MemoryRunRepository) GetRun(ctx context.Context, runID core.RunID) (*run.DetectionRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.runs[runID]
	if !ok {
		return nil, core.NewNotFoundError("run", runID.String())
	}

	detection := *stored
	if stored.Outcome != nil {
		outcome := *stored.Outcome
		detection.Outcome = &outcome
	}
	return &detection, nil
}

// ListRuns returns runs matching the filters, newest first
func (m *MemoryRunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*run.DetectionRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*run.DetectionRun
	// Walk insertion order backwards so equal timestamps still come out
	// newest first.
	for i := len(m.order) - 1; i >= 0; i-- {
		stored := m.runs[m.order[i]]
		if filters.Algorithm != nil && stored.Algorithm != *filters.Algorithm {
			continue
		}
		if filters.CostKind != nil && stored.CostKind != *filters.CostKind {
			continue
		}
		detection := *stored
		if stored.Outcome != nil {
			outcome := *stored.Outcome
			detection.Outcome = &outcome
		}
		matched = append(matched, &detection)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}
	return matched, nil
}

// Len reports how many runs are stored
func (m *MemoryRunRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
