// dupcheck audits exported CSV tables for exact duplicate rows across files.
// Usage: go run ./cmd/dupcheck --first 6 --out dupes.csv a.csv b.csv
//
// Rows match when every compared column is equal; two empty cells are equal
// and numeric cells compare as numbers. The report is informational only and
// the exit code is 0 even when duplicates are found.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rickgao/totals-data/internal/table"
)

func main() {
	first := flag.Int("first", 0, "compare the first N columns of the first file (0 = all)")
	columns := flag.String("columns", "", "comma-separated column names to compare (overrides --first)")
	out := flag.String("out", "duplicates.csv", "pair report path (- for stdout)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dupcheck [--first N | --columns a,b,c] [--out path] file.csv...")
		os.Exit(2)
	}

	var frames []table.Frame
	for _, path := range flag.Args() {
		f, err := table.ReadFrame(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		logger.Warn("no readable files")
		return
	}

	cols := selectColumns(frames[0], *columns, *first)
	if len(cols) == 0 {
		logger.Warn("no columns to compare")
		return
	}

	records := 0
	for _, f := range frames {
		records += len(f.Records)
	}

	pairs := table.FindDuplicates(frames, cols)
	logger.Info("duplicate scan complete",
		"files", len(frames),
		"records", records,
		"columns", len(cols),
		"pairs", len(pairs),
	)

	if err := writeReport(*out, pairs); err != nil {
		logger.Warn("failed to write report", "path", *out, "error", err)
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(os.Stderr, "%s:%d == %s:%d\n", p.A.Frame, p.A.Line, p.B.Frame, p.B.Line)
	}
}

func selectColumns(f table.Frame, names string, first int) []string {
	if names != "" {
		var cols []string
		for _, c := range strings.Split(names, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
		return cols
	}
	if first <= 0 {
		return f.FirstColumns(len(f.Header))
	}
	return f.FirstColumns(first)
}

func writeReport(path string, pairs []table.DuplicatePair) error {
	if path == "-" {
		return table.WriteDuplicates(os.Stdout, pairs)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.WriteDuplicates(f, pairs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
