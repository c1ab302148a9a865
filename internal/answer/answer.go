// Package answer normalizes raw survey cell values into answer tokens.
package answer

import "strings"

// DefaultDelimiter separates packed multi-select answers in a single cell.
const DefaultDelimiter = ";"

// Split normalizes a raw cell value into answer tokens. A missing value
// (empty string) yields nil. When the delimiter is present the value is
// split and each piece trimmed; empty pieces are kept, so "A;;B" yields
// ["A", "", "B"]. Otherwise the value itself is the single token.
func Split(raw, delim string) []string {
	if raw == "" {
		return nil
	}
	if delim == "" || !strings.Contains(raw, delim) {
		return []string{raw}
	}
	pieces := strings.Split(raw, delim)
	tokens := make([]string, len(pieces))
	for i, piece := range pieces {
		tokens[i] = strings.TrimSpace(piece)
	}
	return tokens
}

// Contains reports whether option is exactly one of the tokens of raw.
// For single-value cells this degenerates to equality with the raw value.
func Contains(raw, option, delim string) bool {
	for _, token := range Split(raw, delim) {
		if token == option {
			return true
		}
	}
	return false
}
