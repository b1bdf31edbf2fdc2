package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/totals-data/internal/config"
	"github.com/rickgao/totals-data/internal/version"
)

const usage = `usage: enricher [flags] <command> [command flags]

commands:
  discover   backfill events day by day into the event table
  schedule   attach league schedule facts (game id, venue, scores)
  enrich     fill missing odds, weather and outcomes
  run        discover, schedule and enrich in sequence
  export     write the table as a rounded CSV for reading
  serve      status API, progress feed and cron-driven runs

flags:
`

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --log-level %q\n", *logLevel)
		os.Exit(2)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	command, args := flag.Arg(0), flag.Args()[1:]

	logger.Info("starting enricher",
		version.LogAttrs(),
		"command", command,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Cancel on SIGINT/SIGTERM. The current event still finishes.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, command, args, cfg, logger); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, cfg *config.Config, logger *slog.Logger) error {
	switch command {
	case "discover":
		return cmdDiscover(ctx, args, cfg, logger)
	case "schedule":
		return cmdSchedule(ctx, args, cfg, logger)
	case "enrich":
		return cmdEnrich(ctx, args, cfg, logger)
	case "run":
		return cmdRun(ctx, args, cfg, logger)
	case "export":
		return cmdExport(ctx, args, cfg, logger)
	case "serve":
		return cmdServe(ctx, args, cfg, logger)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
