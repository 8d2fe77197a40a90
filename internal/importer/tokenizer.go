package importer

import "strings"

// TokenizeLine splits a single line into fields on delim, honoring
// double-quote quoting. Inside a quoted span the delimiter is literal
// content and "" produces a literal quote. An unterminated quote at end of
// line is treated as implicitly closed; tokenizing never fails.
func TokenizeLine(line string, delim rune) []string {
	fields := make([]string, 0, 8)

	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes

		case r == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()

		default:
			cur.WriteRune(r)
		}
	}

	// End of line always closes the current field.
	fields = append(fields, cur.String())

	return fields
}
