package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"stockscout/internal/app"
	"stockscout/internal/config"
)

var commands = []subcommands.Command{
	&analyzeCmd{},
	&newsCmd{},
	&summaryCmd{},
	&sweepCmd{},
}

// loadConfig reads the config and routes logs to stderr so stdout only
// carries command output.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	return cfg, nil
}

func failf(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Println(md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Println(md)
		return
	}

	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// closeApp logs instead of failing the command.
func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		slog.Warn("error closing stores", "error", err)
	}
}
