package table

import (
	"math"
	"strconv"
	"strings"
)

// Frame is a generic table read for auditing.
type Frame struct {
	Name    string
	Header  []string
	Records [][]string
}

// RecordRef locates a record. Line is the 1-based file line, header included.
type RecordRef struct {
	Frame string
	Line  int
}

// DuplicatePair is two records equal on every compared column. A precedes B.
type DuplicatePair struct {
	A, B RecordRef
}

// FirstColumns returns the first n header names of f.
func (f Frame) FirstColumns(n int) []string {
	if n > len(f.Header) {
		n = len(f.Header)
	}
	return append([]string(nil), f.Header[:n]...)
}

type projected struct {
	ref    RecordRef
	values []string
}

// FindDuplicates compares every record of every frame against every later
// record, frames taken in order. Two records match when all compared columns
// are equal; two missing cells are equal.
//
// This is a plain O(n^2) pairwise scan. Tables here hold low thousands of
// rows, and hashing would have to reproduce the missing-equals-missing and
// numeric equality rules exactly.
func FindDuplicates(frames []Frame, columns []string) []DuplicatePair {
	var records []projected
	for _, f := range frames {
		index := make(map[string]int, len(f.Header))
		for i, h := range f.Header {
			index[h] = i
		}
		for i, rec := range f.Records {
			vals := make([]string, len(columns))
			for c, col := range columns {
				if pos, ok := index[col]; ok && pos < len(rec) {
					vals[c] = rec[pos]
				}
			}
			records = append(records, projected{
				ref:    RecordRef{Frame: f.Name, Line: i + 2},
				values: vals,
			})
		}
	}

	var pairs []DuplicatePair
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if equalValues(records[i].values, records[j].values) {
				pairs = append(pairs, DuplicatePair{A: records[i].ref, B: records[j].ref})
			}
		}
	}
	return pairs
}

func equalValues(a, b []string) bool {
	for k := range a {
		if !equalCell(a[k], b[k]) {
			return false
		}
	}
	return true
}

func equalCell(a, b string) bool {
	ma, mb := isMissing(a), isMissing(b)
	if ma || mb {
		return ma && mb
	}
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return false
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && math.IsNaN(f) {
		return true
	}
	return strings.EqualFold(s, "null") || strings.EqualFold(s, "none")
}
