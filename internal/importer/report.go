package importer

import "strconv"

// RowResult is the outcome for a single source row. Row is the absolute
// data-row index within the whole file, starting at zero.
type RowResult struct {
	Row       int    `json:"row"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason,omitempty"`
	CreatedID string `json:"createdId,omitempty"`
}

// ImportSummary accumulates per-row outcomes over a run. It is owned and
// mutated solely by the orchestrator's sequential loop; everyone else reads
// snapshots. Rows from chunks never attempted (after a cancel) are absent
// from Results rather than marked failed.
type ImportSummary struct {
	TotalRows    int         `json:"totalRows"`
	SuccessCount int         `json:"successCount"`
	ErrorCount   int         `json:"errorCount"`
	Results      []RowResult `json:"results"`
}

// Clone returns a deep copy safe to hand to readers while the run mutates
// the original.
func (s *ImportSummary) Clone() *ImportSummary {
	out := *s
	out.Results = make([]RowResult, len(s.Results))
	copy(out.Results, s.Results)
	return &out
}

// FailedRows returns the failed subset of Results in row order.
func (s *ImportSummary) FailedRows() []RowResult {
	var failed []RowResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// FailedRowsCSV renders the diagnostic export: a two-column delimited file
// with one line per failed row, quoted with the same rules as chunk
// serialization. Row numbers are 1-based to match what users see in their
// spreadsheet (plus the header line).
func (s *ImportSummary) FailedRowsCSV(delim rune) string {
	failed := s.FailedRows()

	rows := make([][]string, 0, len(failed))
	for _, r := range failed {
		rows = append(rows, []string{rowLabel(r.Row), r.Reason})
	}

	return SerializeRows([]string{"Row", "Error"}, rows, delim)
}

// rowLabel converts a zero-based data index to the 1-based file line after
// the header row.
func rowLabel(row int) string {
	return strconv.Itoa(row + 2)
}
