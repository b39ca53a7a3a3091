package table

import (
	"reflect"
	"testing"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"1", "editor", "*"},
		{"10", "logs"},
		{"2", "日本語", "-"},
	}
	got := Format(rows, []Alignment{AlignRight, AlignLeft, AlignLeft})
	want := []string{
		" 1  editor  *",
		"10  logs",
		" 2  日本語  -",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", got, want)
	}
}

func TestWidthsCountsWideRunes(t *testing.T) {
	if got := Widths([][]string{{"ab", "日本"}}); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("unexpected widths %v", got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
