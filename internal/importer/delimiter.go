package importer

// AutoDelimiter requests delimiter detection from the file's first line.
const AutoDelimiter rune = 0

// delimiterCandidates are tried in order; earlier entries win ties, so the
// comma-first ordering gives the comma-wins-ties behavior callers rely on.
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// DetectDelimiter infers the field separator from a sample line, usually the
// file's first non-empty line. Occurrences inside double-quoted spans are not
// counted. When every candidate scores zero the comma is returned.
func DetectDelimiter(sample string) rune {
	best := ','
	bestCount := 0

	for _, cand := range delimiterCandidates {
		count := countOutsideQuotes(sample, cand)
		if count > bestCount {
			best = cand
			bestCount = count
		}
	}

	return best
}

// countOutsideQuotes counts occurrences of c in s that are not inside a
// double-quoted span. A quote opens a span; the next unescaped quote closes
// it. Escaped quotes ("") inside a span do not close it.
func countOutsideQuotes(s string, c rune) int {
	count := 0
	inQuotes := false

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '"' {
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				i++ // escaped quote, stay inside the span
				continue
			}
			inQuotes = !inQuotes
			continue
		}
		if r == c && !inQuotes {
			count++
		}
	}

	return count
}
