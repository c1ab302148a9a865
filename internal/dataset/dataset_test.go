package dataset

import "testing"

func TestNewTableValidatesColumns(t *testing.T) {
	if _, err := NewTable(nil, nil); err == nil {
		t.Fatalf("expected error for empty column list")
	}
	if _, err := NewTable([]string{"A", ""}, nil); err == nil {
		t.Fatalf("expected error for empty column name")
	}
	if _, err := NewTable([]string{"A", "A"}, nil); err == nil {
		t.Fatalf("expected error for duplicate column name")
	}
}

func TestNewTablePadsRaggedRows(t *testing.T) {
	table, err := NewTable([]string{"A", "B", "C"}, [][]string{
		{"1"},
		{"2", "3", "4", "5"},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	view := table.View()
	if _, ok := view.Cell(0, "B"); ok {
		t.Fatalf("expected padded cell to be missing")
	}
	if val, ok := view.Cell(1, "C"); !ok || val != "4" {
		t.Fatalf("expected truncated row to keep first columns, got %q ok=%v", val, ok)
	}
}

func TestViewNarrowPreservesOrder(t *testing.T) {
	table, err := NewTable([]string{"A"}, [][]string{{"x"}, {"y"}, {"x"}, {"z"}})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	view := table.View()
	narrowed := view.Narrow(func(row int) bool {
		val, _ := view.Cell(row, "A")
		return val == "x" || val == "z"
	})
	if narrowed.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", narrowed.Len())
	}
	want := []string{"x", "x", "z"}
	for i, expected := range want {
		val, ok := narrowed.Cell(i, "A")
		if !ok || val != expected {
			t.Fatalf("row %d: expected %q, got %q ok=%v", i, expected, val, ok)
		}
	}
	if view.Len() != 4 {
		t.Fatalf("narrowing must not mutate the parent view")
	}
}

func TestViewMissingCells(t *testing.T) {
	table, err := NewTable([]string{"A", "B"}, [][]string{{"x", ""}})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	view := table.View()
	if _, ok := view.Cell(0, "B"); ok {
		t.Fatalf("expected empty cell to be missing")
	}
	if _, ok := view.Cell(0, "Nope"); ok {
		t.Fatalf("expected unknown column lookup to report missing")
	}
	if _, ok := view.Cell(5, "A"); ok {
		t.Fatalf("expected out-of-range row to report missing")
	}
}

func TestViewEqual(t *testing.T) {
	table, err := NewTable([]string{"A"}, [][]string{{"x"}, {"y"}})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	a := table.View()
	b := table.View()
	if !a.Equal(b) {
		t.Fatalf("expected identical views to be equal")
	}
	narrowed := a.Narrow(func(row int) bool { return row == 0 })
	if a.Equal(narrowed) {
		t.Fatalf("expected narrowed view to differ")
	}
}
