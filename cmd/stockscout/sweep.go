package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/google/subcommands"

	"stockscout/internal/app"
)

type sweepCmd struct{}

func (*sweepCmd) Name() string     { return "sweep" }
func (*sweepCmd) Synopsis() string { return "delete expired summary cache entries" }
func (*sweepCmd) Usage() string {
	return `stockscout sweep

  Evicts expired entries from the configured summary cache. Needs no LLM
  or market credentials.
`
}

func (*sweepCmd) SetFlags(f *flag.FlagSet) {}

func (c *sweepCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	stores, err := app.Connect(ctx, cfg)
	if err != nil {
		return failf("%v", err)
	}
	defer stores.Close()

	if stores.Cache == nil {
		fmt.Println("summary cache is disabled")
		return subcommands.ExitSuccess
	}

	n, err := stores.Cache.EvictExpired(ctx)
	if err != nil {
		return failf("%v", err)
	}

	slog.Info("cache sweep", "backend", cfg.Cache.Backend, "evicted", n)
	fmt.Printf("evicted %d expired entries\n", n)
	return subcommands.ExitSuccess
}
