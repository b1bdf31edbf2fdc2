package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rickgao/totals-data/internal/model"
)

// CSVStore persists the event table as a CSV file.
type CSVStore struct {
	Path string
}

// NewCSVStore creates a store for path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// Load reads the table. A missing file is an empty table.
func (s *CSVStore) Load(_ context.Context) ([]model.Row, error) {
	frame, err := ReadFrame(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	rows := make([]model.Row, 0, len(frame.Records))
	for i, rec := range frame.Records {
		r, err := FromRecord(frame.Header, rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.Path, i+2, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// Save writes the table atomically through a temporary file.
func (s *CSVStore) Save(_ context.Context, rows []model.Row) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRows(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace table: %w", err)
	}
	return nil
}

// WriteRows writes the header and one full-precision record per row.
func WriteRows(w io.Writer, rows []model.Row) error {
	return writeRows(w, rows, ToRecord)
}

// WriteDisplayRows writes rows rounded for reading, e.g. a spreadsheet export.
func WriteDisplayRows(w io.Writer, rows []model.Row) error {
	return writeRows(w, rows, ToDisplayRecord)
}

func writeRows(w io.Writer, rows []model.Row, render func(model.Row) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(render(r)); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadFrame loads any CSV file as a Frame named after the file.
func ReadFrame(path string) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return Frame{}, fmt.Errorf("read %s: %w", path, err)
	}

	frame := Frame{Name: filepath.Base(path)}
	if len(all) == 0 {
		return frame, nil
	}
	frame.Header = all[0]
	frame.Records = all[1:]
	return frame, nil
}

// WriteDuplicates writes a pair report to w.
func WriteDuplicates(w io.Writer, pairs []DuplicatePair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame_a", "line_a", "frame_b", "line_b"}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := cw.Write([]string{
			p.A.Frame, fmt.Sprint(p.A.Line),
			p.B.Frame, fmt.Sprint(p.B.Line),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
