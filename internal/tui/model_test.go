package tui

import (
	"strings"
	"testing"
)

func TestParseFilterInput(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		question string
		option   string
		wantErr  bool
	}{
		{name: "simple", input: "Age=25-34", question: "Age", option: "25-34"},
		{name: "spaces trimmed", input: "  Age = 25-34 ", question: "Age", option: "25-34"},
		{name: "option keeps equals", input: "Formula=a=b", question: "Formula", option: "a=b"},
		{name: "empty", input: "", wantErr: true},
		{name: "no separator", input: "Age", wantErr: true},
		{name: "missing option", input: "Age=", wantErr: true},
		{name: "missing question", input: "=Go", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, option, err := parseFilterInput(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for input %q, got question=%q option=%q", tc.input, q, option)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q != tc.question || option != tc.option {
				t.Errorf("parseFilterInput(%q) = (%q, %q), want (%q, %q)",
					tc.input, q, option, tc.question, tc.option)
			}
		})
	}
}

func TestPadLine(t *testing.T) {
	if got := padLine("ab", 5); got != "ab   " {
		t.Errorf("padLine = %q, want %q", got, "ab   ")
	}
	if got := padLine("abcdef", 4); got != "abcdef" {
		t.Errorf("padLine should not truncate, got %q", got)
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("a\nb\nc", 3, 2)
	want := "a  \nb  "
	if got != want {
		t.Errorf("fitLines truncate = %q, want %q", got, want)
	}

	got = fitLines("a", 2, 3)
	if lines := strings.Split(got, "\n"); len(lines) != 3 {
		t.Errorf("fitLines pad produced %d lines, want 3", len(lines))
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Errorf("truncateLine = %q, want %q", got, "abc...")
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Errorf("truncateLine = %q, want %q", got, "abc")
	}
}
