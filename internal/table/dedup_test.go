package table

import (
	"reflect"
	"testing"
)

func TestFindDuplicates(t *testing.T) {
	train := Frame{
		Name:   "train",
		Header: []string{"id", "line", "temp", "extra"},
		Records: [][]string{
			{"a", "8.5", "", "x"},
			{"b", "9", "70", "y"},
			{"a", "8.50", "NaN", "z"},
		},
	}
	test := Frame{
		Name:   "test",
		Header: []string{"id", "line", "temp"},
		Records: [][]string{
			{"b", "9.0", "70"},
			{"c", "7", "60"},
		},
	}

	cols := []string{"id", "line", "temp"}
	got := FindDuplicates([]Frame{train, test}, cols)
	want := []DuplicatePair{
		{A: RecordRef{"train", 2}, B: RecordRef{"train", 4}},
		{A: RecordRef{"train", 3}, B: RecordRef{"test", 2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindDuplicates = %+v, want %+v", got, want)
	}

	// "extra" differs, and test lacks it, so nothing matches across it.
	if got := FindDuplicates([]Frame{train}, []string{"id", "extra"}); len(got) != 0 {
		t.Errorf("pairs over extra = %+v, want none", got)
	}
}

func TestFindDuplicates_Properties(t *testing.T) {
	f := Frame{
		Name:    "f",
		Header:  []string{"a"},
		Records: [][]string{{"1"}, {"1"}, {"1"}},
	}

	pairs := FindDuplicates([]Frame{f}, []string{"a"})
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want 3", len(pairs))
	}

	seen := make(map[[2]RecordRef]bool)
	for _, p := range pairs {
		if p.A == p.B {
			t.Errorf("self pair %+v", p)
		}
		if p.A.Line >= p.B.Line {
			t.Errorf("pair not ordered: %+v", p)
		}
		if seen[[2]RecordRef{p.B, p.A}] {
			t.Errorf("pair reported in both orders: %+v", p)
		}
		seen[[2]RecordRef{p.A, p.B}] = true
	}
}

func TestEqualCell(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"NaN", "", true},
		{"nan", "null", true},
		{"", "0", false},
		{"1", "1.0", true},
		{"x", "x", true},
		{"x", "X", false},
		{"1e1", "10", true},
	}

	for _, tt := range tests {
		if got := equalCell(tt.a, tt.b); got != tt.want {
			t.Errorf("equalCell(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFirstColumns(t *testing.T) {
	f := Frame{Header: []string{"a", "b", "c"}}
	if got := f.FirstColumns(2); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FirstColumns(2) = %v", got)
	}
	if got := f.FirstColumns(10); len(got) != 3 {
		t.Errorf("FirstColumns(10) = %v", got)
	}
}
