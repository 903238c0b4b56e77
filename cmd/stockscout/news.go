package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"stockscout/internal/app"
)

type newsCmd struct {
	raw bool
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "summarize today's macro news" }
func (*newsCmd) Usage() string {
	return `stockscout news [-raw]

  Runs the macro searches, index tickers and RSS feeds and prints one
  summary per article.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print markdown without rendering")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return failf("%v", err)
	}
	defer closeApp(a)

	items := a.MacroNews(ctx)

	var b strings.Builder
	b.WriteString("# Macro news\n\n")
	if len(items) == 0 {
		b.WriteString("No macro news available.\n")
	}
	for _, n := range items {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", n.Title, n.Summary)
	}

	printMarkdown(b.String(), c.raw)
	return subcommands.ExitSuccess
}
