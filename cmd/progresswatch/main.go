// progresswatch connects to an enricher progress feed and prints events.
// Usage: go run ./cmd/progresswatch --url ws://localhost:8080/ws
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/totals-data/internal/progress"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "progress feed URL")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	runID := flag.String("run", "", "only show events for this run id")
	reconnect := flag.Bool("reconnect", false, "redial with backoff when the feed drops")
	maxWait := flag.Duration("max-wait", progress.DefaultReconnectConfig().MaxWait, "longest wait between redials")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("watching progress feed", "url", *url)

	var count int
	handle := func(ev progress.Event) {
		if *runID != "" && ev.RunID != *runID {
			return
		}
		count++

		if *verbose {
			data, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(ev)
			fmt.Println(string(data))
			return
		}
		fmt.Println(format(ev))
	}

	var err error
	if *reconnect {
		cfg := progress.DefaultReconnectConfig()
		cfg.MaxWait = *maxWait
		err = progress.WatchForever(ctx, *url, cfg, logger, handle)
	} else {
		err = progress.Watch(ctx, *url, handle)
	}
	if err != nil {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}

	logger.Info("feed closed", "events", count)
}

func format(ev progress.Event) string {
	line := fmt.Sprintf("%s #%-5d %-8s %-8s", ev.At.Format(time.TimeOnly), ev.Seq, ev.Stage, ev.Status)
	if ev.EventID != "" {
		line += " " + ev.EventID
	}
	if ev.Detail != "" {
		line += " (" + ev.Detail + ")"
	}
	return line
}
