package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/avelanarius/surveyscope/internal/answer"
	"github.com/avelanarius/surveyscope/internal/dataset"
	"github.com/avelanarius/surveyscope/internal/distribution"
	"github.com/avelanarius/surveyscope/internal/session"
)

func TestInsertAndListSnapshots(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "snapshots.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	table, err := dataset.NewTable(
		[]string{"Lang"},
		[][]string{
			{"Python;JavaScript"},
			{"Python"},
			{"Java"},
		},
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	dist, err := distribution.Compute(table.View(), "Lang", answer.DefaultDelimiter)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	ctx := context.Background()
	id, err := st.InsertSnapshot(ctx, Snapshot{
		SourcePath: "survey.xlsx",
		Filters:    "Age=25-34",
	}, dist)
	if err != nil {
		t.Fatalf("insert snapshot: %v", err)
	}

	snaps, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	snap := snaps[0]
	if snap.ID != id || snap.Question != "Lang" || snap.Total != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Kind != "multi-answer" || snap.Filters != "Age=25-34" {
		t.Fatalf("unexpected snapshot metadata: %+v", snap)
	}
	if snap.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	entries, err := st.SnapshotAnswers(ctx, id)
	if err != nil {
		t.Fatalf("snapshot answers: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(entries))
	}
	if entries[0].Answer != "Python" || entries[0].Count != 2 {
		t.Fatalf("expected Python first in display order: %+v", entries[0])
	}
}

func TestDescribeFilters(t *testing.T) {
	if got := DescribeFilters(nil); got != "" {
		t.Fatalf("expected empty description, got %q", got)
	}
	got := DescribeFilters([]session.Clause{
		{Question: "Age", Option: "25-34"},
		{Question: "Lang", Option: "Go"},
	})
	if got != "Age=25-34; Lang=Go" {
		t.Fatalf("unexpected description: %q", got)
	}
}
