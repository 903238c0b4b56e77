package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stockscout/internal/app"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarize a single article" }
func (*summaryCmd) Usage() string {
	return `stockscout summary <url>

  Extracts and summarizes one article, reading and filling the summary
  cache.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one url\n")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return failf("%v", err)
	}
	defer closeApp(a)

	s, ok, err := a.Summarize(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !ok {
		return failf("no summary could be produced for %s", f.Arg(0))
	}

	fmt.Println(s.Summary)
	return subcommands.ExitSuccess
}
