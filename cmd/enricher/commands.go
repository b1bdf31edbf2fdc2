package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/totals-data/internal/config"
	"github.com/rickgao/totals-data/internal/enrich"
	"github.com/rickgao/totals-data/internal/progress"
	"github.com/rickgao/totals-data/internal/scheduler"
	"github.com/rickgao/totals-data/internal/server"
	"github.com/rickgao/totals-data/internal/table"
)

func cmdDiscover(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	fromFlag := fs.String("from", cfg.Discovery.From, "first day, YYYY-MM-DD")
	toFlag := fs.String("to", cfg.Discovery.To, "last day, YYYY-MM-DD (default today)")
	fs.Parse(args)

	rng := cfg.Discovery
	rng.From, rng.To = *fromFlag, *toFlag
	from, to, err := rng.Range(time.Now())
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.runner(nil).Discover(ctx, from, to)
	fmt.Printf("fetched %d events, added %d, removed %d duplicates, %d failed days, %d rows total\n",
		report.Fetched, report.Added, report.Duplicates, report.FailedDays, report.Total)
	return err
}

func cmdSchedule(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	fs.Parse(args)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.runner(nil).Schedule(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("attached schedule facts to %d rows\n", n)
	return nil
}

func cmdEnrich(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	force := fs.Bool("force", false, "re-enrich rows that already have odds")
	fs.Parse(args)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.runner(a.pipeline(*force, nil)).Enrich(ctx)
	printSummary(sum)
	return err
}

func cmdRun(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	force := fs.Bool("force", false, "re-enrich rows that already have odds")
	fs.Parse(args)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.runner(a.pipeline(*force, nil)).RunAll(ctx)
	printSummary(sum)
	return err
}

func cmdExport(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "-", "output CSV path, - for stdout")
	fs.Parse(args)

	// Only the store is needed.
	a := &app{cfg: cfg, logger: logger}
	defer a.Close()
	if err := a.openStore(ctx); err != nil {
		return err
	}

	rows, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}

	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	if err := table.WriteDisplayRows(w, rows); err != nil {
		return err
	}
	logger.Info("table exported", "rows", len(rows), "out", *out)
	return nil
}

func cmdServe(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "status API listen address")
	runNow := fs.Bool("run-now", false, "run the chain once on start")
	fs.Parse(args)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := progress.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()
	defer func() {
		stopHub()
		<-hubDone
	}()

	pipeline := a.pipeline(false, hub)
	runner := a.runner(pipeline)

	srv := server.New(*addr, pipeline, hub, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled || *runNow {
		schedCfg := scheduler.DefaultConfig()
		schedCfg.Spec = cfg.Scheduler.Cron
		schedCfg.RunOnStart = *runNow
		sched = scheduler.New(schedCfg, scheduler.JobFunc(func(ctx context.Context) error {
			_, err := runner.RunAll(ctx)
			return err
		}), logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
	}

	logger.Info("enricher serving",
		"status_url", fmt.Sprintf("http://%s/status", *addr),
		"scheduler", sched != nil,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler stop timed out", "error", err)
		}
	}
	return srv.Stop(shutdownCtx)
}

func printSummary(sum enrich.Summary) {
	fmt.Printf("run %s: %d rows, %d processed, %d skipped\n", sum.RunID, sum.Rows, sum.Processed, sum.Skipped)
	fmt.Printf("  odds %d, weather %d, outcomes %d\n", sum.OddsFilled, sum.WeatherFilled, sum.OutcomesFilled)
	fmt.Printf("  no data %d, failures %d, duplicates removed %d\n", sum.NoData, sum.Failures, sum.Duplicates)
	if sum.Interrupted {
		fmt.Println("  interrupted: partial progress saved")
	}
	fmt.Printf("  took %s\n", sum.Duration.Round(time.Millisecond))
}
