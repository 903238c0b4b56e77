package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockscout/internal/app"
	"stockscout/internal/config"
	"stockscout/internal/jobs"
)

const popTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("error starting app: %v", err)
	}
	defer a.Close()

	if a.Redis == nil {
		log.Fatalf("error starting worker: REDIS_URL is not set")
	}

	queue := jobs.NewQueue(a.Redis)

	for ctx.Err() == nil {
		job, err := queue.Dequeue(ctx, popTimeout)
		if errors.Is(err, jobs.ErrNoJob) {
			continue
		}
		if errors.Is(err, jobs.ErrMalformedJob) {
			slog.Error("invalid job in queue", "error", err)
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		slog.Info("research job started", "job_id", job.ID, "attempt", job.Attempts+1, "symbols", job.Portfolio.Symbols())

		state, err := a.Analyze(ctx, job.Portfolio, job.ID)
		if err == nil && !state.Failed {
			slog.Info("research job complete", "job_id", job.ID, "report_id", state.ReportID)
			continue
		}

		if err != nil {
			slog.Error("error running research job", "error", err, "job_id", job.ID)
		} else {
			slog.Error("analysis failed", "job_id", job.ID, "report", state.Report)
		}

		requeued, err := queue.Retry(ctx, job)
		if err != nil {
			slog.Error("error requeueing job", "error", err, "job_id", job.ID)
			continue
		}

		if !requeued {
			slog.Warn("job exceeded max retries, moved to dead letter queue", "job_id", job.ID, "attempts", job.Attempts)
			continue
		}

		time.Sleep(5 * time.Second)
	}

	slog.Info("worker stopped")
}
