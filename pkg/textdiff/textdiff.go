// Package textdiff normalizes program output and produces a cheap
// positional line diff between expected and actual text.
package textdiff

import "strings"

// Normalize removes incidental formatting differences: line endings become
// \n, trailing horizontal whitespace is stripped per line, trailing blank
// lines are dropped and the whole text is trimmed. Case and internal
// structure are preserved. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Equal reports whether two texts match after normalization.
func Equal(expected, actual string) bool {
	return Normalize(expected) == Normalize(actual)
}

type LineKind string

const (
	// LineMissing: expected has a line at this index, actual does not.
	LineMissing LineKind = "missing"
	// LineExtra: actual has a line at this index, expected does not.
	LineExtra LineKind = "extra"
	// LineDifferent: both have a line at this index and they differ.
	LineDifferent LineKind = "different"
)

// LineDiff describes one mismatching line position.
type LineDiff struct {
	Index    int      `json:"index"`
	Kind     LineKind `json:"kind"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	// Offset is the first differing byte within the line pair; only set
	// for LineDifferent.
	Offset int `json:"offset,omitempty"`
	// LenDelta is len(actual)-len(expected) for the line pair.
	LenDelta int `json:"len_delta,omitempty"`
}

// Compare aligns the normalized texts line by line up to the longer length
// and reports every mismatching index. It returns nil when the texts are
// equal. This is a positional diff, not a minimal edit script.
func Compare(expected, actual string) []LineDiff {
	ne, na := Normalize(expected), Normalize(actual)
	if ne == na {
		return nil
	}
	expLines := splitLines(ne)
	actLines := splitLines(na)
	n := len(expLines)
	if len(actLines) > n {
		n = len(actLines)
	}

	var diffs []LineDiff
	for i := 0; i < n; i++ {
		switch {
		case i >= len(actLines):
			diffs = append(diffs, LineDiff{Index: i, Kind: LineMissing, Expected: expLines[i]})
		case i >= len(expLines):
			diffs = append(diffs, LineDiff{Index: i, Kind: LineExtra, Actual: actLines[i]})
		case expLines[i] != actLines[i]:
			diffs = append(diffs, LineDiff{
				Index:    i,
				Kind:     LineDifferent,
				Expected: expLines[i],
				Actual:   actLines[i],
				Offset:   firstDiffOffset(expLines[i], actLines[i]),
				LenDelta: len(actLines[i]) - len(expLines[i]),
			})
		}
	}
	return diffs
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func firstDiffOffset(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
