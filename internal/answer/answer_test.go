package answer

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "missing", raw: "", want: nil},
		{name: "single value", raw: "Python", want: []string{"Python"}},
		{name: "single value keeps surrounding spaces", raw: " Python ", want: []string{" Python "}},
		{name: "packed values trimmed", raw: "Python; JavaScript ;Go", want: []string{"Python", "JavaScript", "Go"}},
		{name: "empty pieces kept", raw: "A;;B", want: []string{"A", "", "B"}},
		{name: "trailing delimiter", raw: "A;", want: []string{"A", ""}},
		{name: "duplicate tokens kept", raw: "A;A", want: []string{"A", "A"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Split(tc.raw, DefaultDelimiter)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Split(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !Contains("Python;JavaScript;Go", "Go", DefaultDelimiter) {
		t.Fatalf("expected Go to be found in packed value")
	}
	if Contains("Python;JavaScript", "Java", DefaultDelimiter) {
		t.Fatalf("Java must not match a packed value containing JavaScript")
	}
	if !Contains("Python", "Python", DefaultDelimiter) {
		t.Fatalf("single-value cell should match by equality")
	}
	if Contains("", "Python", DefaultDelimiter) {
		t.Fatalf("missing value must never match")
	}
	if !Contains("A; B ;C", "B", DefaultDelimiter) {
		t.Fatalf("tokens should be trimmed before comparison")
	}
}
