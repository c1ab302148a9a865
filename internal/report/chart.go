package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/avelanarius/surveyscope/internal/distribution"
)

const (
	defaultBarWidth    = 50
	minBarWidth        = 10
	labelColumnWidth   = 35
	maxLabelWidth      = 30
	maxSeparatorWidth  = 80
	terminalWidthFallb = 80
)

// BarChart renders a horizontal terminal bar chart for a distribution.
// Answers are sorted by descending count (ties keep discovery order), bars
// are scaled to the largest count, and percentages are shown to one
// decimal place.
func (r Renderer) BarChart(w io.Writer, dist distribution.Distribution) error {
	if len(dist.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No data available for question: %s\n", dist.Question)
		return err
	}
	width := r.BarWidth
	if width <= 0 {
		width = autoBarWidth()
	}
	if width < minBarWidth {
		width = minBarWidth
	}

	entries := dist.SortedByCount()
	maxCount := entries[0].Count
	for _, e := range entries[1:] {
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}

	if _, err := fmt.Fprintf(w, "\nDistribution for: %s\n", dist.Question); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separatorFor(dist.Question, 20)); err != nil {
		return err
	}
	for _, e := range entries {
		barWidth := 0
		if maxCount > 0 {
			barWidth = e.Count * width / maxCount
		}
		bar := strings.Repeat("█", barWidth)
		label := padCell(truncateLabel(e.Answer), labelColumnWidth, false)
		if _, err := fmt.Fprintf(w, "%s %s %6d (%5.1f%%)\n", label, bar, e.Count, e.Percentage); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func truncateLabel(label string) string {
	if displayWidth(label) <= maxLabelWidth {
		return label
	}
	return runewidth.Truncate(label, maxLabelWidth, "...")
}

func separatorFor(title string, extra int) string {
	width := displayWidth(title) + extra
	if width > maxSeparatorWidth {
		width = maxSeparatorWidth
	}
	return strings.Repeat("=", width)
}

func autoBarWidth() int {
	return BarWidthFor(terminalWidth())
}

// BarWidthFor computes a bar width that fits within the total available
// width, leaving room for the label and count columns.
func BarWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return defaultBarWidth
	}
	// label column + space + space + "%6d (%5.1f%%)" tail.
	reserved := labelColumnWidth + 2 + 16
	width := totalWidth - reserved
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > defaultBarWidth {
		width = defaultBarWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthFallb
	}
	return width
}
