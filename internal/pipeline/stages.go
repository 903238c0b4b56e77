package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"stockscout/internal/analyst"
	"stockscout/internal/model"
	"stockscout/internal/research"
	"stockscout/pkg/news"
)

// ResearchStage builds the snapshot. Per-symbol research and the macro
// gather run concurrently and share one PassResolver.
type ResearchStage struct {
	Researcher *research.Researcher
	Aggregator *research.Aggregator
	Resolver   research.Resolver
	Macro      []news.Source
	Now        func() time.Time
}

func (st *ResearchStage) Name() string { return "research" }

func (st *ResearchStage) Run(ctx context.Context, s *State) error {
	pass := research.Memoize(st.Resolver)
	agg := st.Aggregator.WithResolver(pass)

	var (
		wg      sync.WaitGroup
		symbols map[string]model.SymbolResearch
		macro   []model.NewsSummary
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		symbols = st.Researcher.WithAggregator(agg).Research(ctx, s.Portfolio)
	}()
	go func() {
		defer wg.Done()
		macro = agg.Gather(ctx, st.Macro)
	}()
	wg.Wait()

	now := time.Now
	if st.Now != nil {
		now = st.Now
	}

	s.Snapshot = model.Snapshot{
		MacroNews: macro,
		Symbols:   symbols,
		CreatedAt: now(),
	}

	slog.Info("research complete", "job_id", s.JobID, "symbols", len(symbols), "macro_news", len(macro))
	return nil
}

type Composer interface {
	Compose(ctx context.Context, portfolio model.Portfolio, snapshot model.Snapshot) (string, error)
	ModelName() string
}

// AnalystStage writes the report. A failed composition is surfaced as the
// report text and marks the run failed; it does not stop the pipeline.
type AnalystStage struct {
	Composer Composer
}

func (st *AnalystStage) Name() string { return "analyst" }

func (st *AnalystStage) Run(ctx context.Context, s *State) error {
	s.ModelUsed = st.Composer.ModelName()

	report, err := st.Composer.Compose(ctx, s.Portfolio, s.Snapshot)
	if err != nil {
		slog.Error("analysis failed", "job_id", s.JobID, "error", err)
		cause := strings.TrimPrefix(err.Error(), analyst.ErrAnalysisFailed.Error()+": ")
		s.Report = "Error running analysis: " + cause
		s.Failed = true
		return nil
	}

	s.Report = report
	return nil
}

type ReportSaver interface {
	SaveReport(ctx context.Context, report *model.AnalysisReport) error
}

// PersistStage stores successful reports. A nil Store skips persistence.
type PersistStage struct {
	Store ReportSaver
}

func (st *PersistStage) Name() string { return "persist" }

func (st *PersistStage) Run(ctx context.Context, s *State) error {
	if st.Store == nil || s.Failed {
		return nil
	}

	report := &model.AnalysisReport{
		JobID:     s.JobID,
		Portfolio: s.Portfolio.Name,
		Report:    s.Report,
		Symbols:   s.Portfolio.Symbols(),
		ModelUsed: s.ModelUsed,
	}
	if err := st.Store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	s.ReportID = report.ID
	return nil
}

// MaintenanceStage evicts expired cache entries.
type MaintenanceStage struct {
	Cache research.SummaryCache
}

func (st *MaintenanceStage) Name() string { return "maintenance" }

func (st *MaintenanceStage) Run(ctx context.Context, s *State) error {
	if st.Cache == nil {
		return nil
	}

	n, err := st.Cache.EvictExpired(ctx)
	if err != nil {
		return fmt.Errorf("evict expired: %w", err)
	}

	slog.Info("cache sweep", "evicted", n)
	return nil
}
