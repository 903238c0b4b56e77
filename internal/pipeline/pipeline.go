package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stockscout/internal/model"
)

// State is the record shared by the stages of one run.
type State struct {
	JobID     string
	Portfolio model.Portfolio
	Snapshot  model.Snapshot
	Report    string
	ModelUsed string
	ReportID  int64
	Failed    bool
}

type Stage interface {
	Name() string
	Run(ctx context.Context, s *State) error
}

// Pipeline runs its stages in order and stops at the first error. The
// finally stages run afterwards whether or not an ordered stage failed.
type Pipeline struct {
	stages  []Stage
	finally []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Finally(stages ...Stage) *Pipeline {
	p.finally = append(p.finally, stages...)
	return p
}

func (p *Pipeline) Run(ctx context.Context, s *State) error {
	var runErr error
	for _, stage := range p.stages {
		if err := runStage(ctx, stage, s); err != nil {
			runErr = fmt.Errorf("%s: %w", stage.Name(), err)
			break
		}
	}

	for _, stage := range p.finally {
		if err := runStage(ctx, stage, s); err != nil {
			slog.Warn("finally stage failed", "stage", stage.Name(), "error", err)
		}
	}

	return runErr
}

func runStage(ctx context.Context, stage Stage, s *State) error {
	start := time.Now()
	err := stage.Run(ctx, s)
	slog.Info("stage finished", "stage", stage.Name(), "job_id", s.JobID, "duration_ms", time.Since(start).Milliseconds(), "ok", err == nil)
	return err
}
