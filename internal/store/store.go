package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"oncodash/domain/clinical"
	"oncodash/internal"
	"oncodash/internal/errors"
	"oncodash/ports"
)

// Store holds the normalized in-memory model of everything the dashboard
// derives its views from. Load replaces the whole snapshot atomically, so a
// reader never observes a partially-updated store mid-load.
type Store struct {
	backend ports.Backend
	allow   map[clinical.ModelID]bool // nil means no deployment filtering
	logger  *internal.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot is one immutable load result. Every map in it is replaced
// wholesale on reload, never mutated incrementally.
type Snapshot struct {
	Models   map[clinical.ModelID]clinical.Model
	Order    []clinical.ModelID // registration order after filtering
	Features []string
	Metrics  map[clinical.ModelID]clinical.MetricsRecord
	Stats    map[string]clinical.FeatureStat
	Dataset  *clinical.DatasetInfo
	Report   *clinical.EvaluationReport

	// SelectedModel is the initial selection: the report's recommended model
	// when the report loaded, otherwise the first id in registration order.
	SelectedModel clinical.ModelID
	LoadedAt      time.Time
}

// New creates a store over the backend. A non-empty allowlist retains only
// the listed model ids from every feed; filtering happens before any other
// component can observe the data.
func New(backend ports.Backend, allowlist []string, logger *internal.Logger) *Store {
	var allow map[clinical.ModelID]bool
	if len(allowlist) > 0 {
		allow = make(map[clinical.ModelID]bool, len(allowlist))
		for _, id := range allowlist {
			allow[clinical.ModelID(id)] = true
		}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{backend: backend, allow: allow, logger: logger}
}

// Load fetches every feed concurrently and commits a fresh snapshot once all
// of them have settled. The registry fetch is the only hard dependency; any
// other feed that fails degrades to its empty value and is logged, never
// surfaced. Load is idempotent: repeated calls fully replace all state. A
// canceled context commits nothing.
func (s *Store) Load(ctx context.Context) error {
	var (
		models  []clinical.Model
		feats   []string
		metrics map[clinical.ModelID]clinical.MetricsRecord
		stats   map[string]clinical.FeatureStat
		dataset *clinical.DatasetInfo
		report  *clinical.EvaluationReport
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		models, err = s.backend.FetchModels(gctx)
		if err != nil {
			// Without the registry there is no usable state at all.
			return errors.LoadFailed(err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if feats, err = s.backend.FetchFeatures(gctx); err != nil {
			s.logger.Warn("[Store] features feed degraded: %v", err)
			feats = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if metrics, err = s.backend.FetchMetrics(gctx); err != nil {
			s.logger.Warn("[Store] metrics feed degraded: %v", err)
			metrics = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stats, err = s.backend.FetchFeatureRanges(gctx); err != nil {
			s.logger.Warn("[Store] feature-ranges feed degraded: %v", err)
			stats = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if dataset, err = s.backend.FetchDatasetInfo(gctx); err != nil {
			s.logger.Warn("[Store] dataset-info feed degraded: %v", err)
			dataset = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if report, err = s.backend.FetchEvaluationReport(gctx); err != nil {
			s.logger.Warn("[Store] evaluation-report feed degraded: %v", err)
			report = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		// The owning view went away; no late mutation of local state.
		return err
	}

	snap := s.buildSnapshot(models, feats, metrics, stats, dataset, report)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("[Store] loaded %d models, %d features, report=%v",
		len(snap.Order), len(snap.Features), snap.Report != nil)
	return nil
}

// buildSnapshot filters every feed to the deployment allowlist and derives
// the initial selection. Filtering runs before the snapshot is published, so
// excluded models are never exposed to any component.
func (s *Store) buildSnapshot(
	models []clinical.Model,
	feats []string,
	metrics map[clinical.ModelID]clinical.MetricsRecord,
	stats map[string]clinical.FeatureStat,
	dataset *clinical.DatasetInfo,
	report *clinical.EvaluationReport,
) *Snapshot {
	snap := &Snapshot{
		Models:   make(map[clinical.ModelID]clinical.Model),
		Metrics:  make(map[clinical.ModelID]clinical.MetricsRecord),
		Stats:    make(map[string]clinical.FeatureStat),
		Features: feats,
		Dataset:  dataset,
		LoadedAt: time.Now().UTC(),
	}

	for _, m := range models {
		if !s.retained(m.ID) {
			continue
		}
		snap.Models[m.ID] = m
		snap.Order = append(snap.Order, m.ID)
	}

	for id, rec := range metrics {
		if s.retained(id) {
			snap.Metrics[id] = rec
		}
	}
	for name, st := range stats {
		snap.Stats[name] = st
	}

	if report != nil {
		snap.Report = s.filterReport(report)
	}

	snap.SelectedModel = s.initialSelection(snap)
	return snap
}

func (s *Store) retained(id clinical.ModelID) bool {
	return s.allow == nil || s.allow[id]
}

// filterReport narrows the report to retained models and validates its
// structural invariants. Invalid ROC curves are dropped with a log line; a
// row-count drift is logged but the rows are kept for display.
func (s *Store) filterReport(report *clinical.EvaluationReport) *clinical.EvaluationReport {
	filtered := &clinical.EvaluationReport{
		Source:           report.Source,
		NTest:            report.NTest,
		PositiveRateTest: report.PositiveRateTest,
		Roc:              make(map[clinical.ModelID]clinical.RocCurve),
	}
	for _, row := range report.Rows {
		if s.retained(row.ModelID) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	for id, curve := range report.Roc {
		if !s.retained(id) {
			continue
		}
		if err := curve.Validate(); err != nil {
			s.logger.Warn("[Store] dropping roc curve for %s: %v", id, err)
			continue
		}
		filtered.Roc[id] = curve
	}
	if err := filtered.ValidateReport(); err != nil {
		s.logger.Warn("[Store] evaluation report invariant violated: %v", err)
	}

	// Keep the backend's recommendation when it survived filtering,
	// otherwise re-derive it over the retained rows with the same
	// safety-first policy the report was built with.
	if s.retained(report.RecommendedModelID) && report.RecommendedModelID != "" {
		filtered.RecommendedModelID = report.RecommendedModelID
	} else if ranked := clinical.RankByFNR(clinical.EntriesFromRows(filtered.Rows)); len(ranked) > 0 {
		filtered.RecommendedModelID = ranked[0]
	}
	return filtered
}

func (s *Store) initialSelection(snap *Snapshot) clinical.ModelID {
	if snap.Report != nil && snap.Report.RecommendedModelID != "" {
		if _, ok := snap.Models[snap.Report.RecommendedModelID]; ok {
			return snap.Report.RecommendedModelID
		}
	}
	if len(snap.Order) > 0 {
		return snap.Order[0]
	}
	return ""
}

// Snapshot returns the current committed snapshot, or nil before the first
// successful load. The pointer is never mutated after publication.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Loaded reports whether a snapshot has been committed.
func (s *Store) Loaded() bool {
	return s.Snapshot() != nil
}
