package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stockscout/internal/app"
	"stockscout/internal/portfolio"
)

type analyzeCmd struct {
	portfolio string
	raw       bool
	json      bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "research a portfolio and print the analyst report" }
func (*analyzeCmd) Usage() string {
	return `stockscout analyze [-portfolio <file>] [-raw] [-json]

  Gathers macro and per-symbol news, summarizes it and asks the analyst
  model for a report on every holding.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "portfolio YAML file (defaults to $PORTFOLIO_FILE or the XDG config dir)")
	f.BoolVar(&c.raw, "raw", false, "print the report markdown without rendering")
	f.BoolVar(&c.json, "json", false, "print the research snapshot as JSON instead of the report")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	path := c.portfolio
	if path == "" {
		path = cfg.Env.PortfolioFile
	}

	p, err := portfolio.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return failf("%v", err)
	}
	defer closeApp(a)

	state, err := a.Analyze(ctx, p, "")
	if err != nil {
		return failf("%v", err)
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state.Snapshot); err != nil {
			return failf("%v", err)
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(state.Report, c.raw)

	if state.Failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
