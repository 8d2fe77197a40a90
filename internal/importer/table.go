package importer

import (
	"strings"
)

// RawTable is the in-memory form of an uploaded file: one header row plus
// zero or more data rows, all tokenized with a single delimiter.
//
// Rows shorter than the header are padded with empty fields to header width;
// rows with extra trailing fields keep them. Padding rather than rejection
// means every mapped column can be addressed by index on every row.
type RawTable struct {
	Headers   []string
	Rows      [][]string
	Delimiter rune
}

// Parse converts delimited file text into a RawTable. Pass AutoDelimiter to
// detect the separator from the first non-blank line. Blank lines are
// discarded and both \n and \r\n line endings are accepted. Returns
// ErrEmptyFile when fewer than two non-blank lines remain.
func Parse(text string, delim rune) (*RawTable, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	if delim == AutoDelimiter {
		delim = DetectDelimiter(lines[0])
	}

	headers := TokenizeLine(lines[0], delim)

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, padRow(TokenizeLine(line, delim), len(headers)))
	}

	return &RawTable{Headers: headers, Rows: rows, Delimiter: delim}, nil
}

// splitLines splits on line breaks and drops blank lines.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// padRow extends row with empty fields until it is at least width long.
func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// Serialize renders the whole table back to delimited text using the
// table's own delimiter. Parse(t.Serialize(), t.Delimiter) yields an equal
// table for any table without embedded line breaks.
func (t *RawTable) Serialize() string {
	return SerializeRows(t.Headers, t.Rows, t.Delimiter)
}

// SerializeRows renders a header row plus data rows as delimited text.
// Fields containing the delimiter, a quote, or a line break are quoted, with
// embedded quotes doubled.
func SerializeRows(headers []string, rows [][]string, delim rune) string {
	var b strings.Builder

	writeRow(&b, headers, delim)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row, delim)
	}

	return b.String()
}

func writeRow(b *strings.Builder, row []string, delim rune) {
	for i, field := range row {
		if i > 0 {
			b.WriteRune(delim)
		}
		b.WriteString(quoteField(field, delim))
	}
}

// quoteField wraps field in quotes when it contains the delimiter, a quote,
// or a line break, doubling any embedded quotes.
func quoteField(field string, delim rune) string {
	if !strings.ContainsAny(field, string(delim)+"\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
