package importer

import (
	"context"
	"fmt"
)

// DefaultChunkSize bounds how many rows travel in one remote call. The
// record-creation endpoint runs under a tight per-invocation execution
// budget, so chunks stay small and exactly one is in flight at a time.
const DefaultChunkSize = 100

// ChunkRowResult is one row's outcome inside a ChunkResponse. Row is local
// to the chunk, starting at zero.
type ChunkRowResult struct {
	Row       int
	Success   bool
	Reason    string
	CreatedID string
}

// ChunkResponse is what the record-creation service returns for one chunk.
type ChunkResponse struct {
	SuccessCount int
	ErrorCount   int
	Results      []ChunkRowResult
}

// SubmitFunc sends one serialized chunk (header + rows) to the
// record-creation service. Out-of-band parameters such as the target
// collection and the column mapping are bound into the closure by the
// caller.
type SubmitFunc func(ctx context.Context, chunkText string) (*ChunkResponse, error)

// ProgressFunc receives (processed, total) row counts once per completed
// chunk, never per row.
type ProgressFunc func(processed, total int)

// RunOptions tune a single orchestrated import.
type RunOptions struct {
	// ChunkSize caps rows per remote call; zero means DefaultChunkSize.
	ChunkSize int
	// OnProgress, when set, is invoked after each chunk's outcome has been
	// folded into the summary.
	OnProgress ProgressFunc
	// OnSummary, when set, receives a snapshot of the accumulated summary
	// after each chunk. The orchestrator retains sole ownership of the live
	// summary; readers only ever see these clones.
	OnSummary func(*ImportSummary)
}

// Run drives a whole import: it partitions the table into consecutive
// chunks, re-serializes and submits them strictly sequentially, and folds
// every outcome into one ImportSummary.
//
// A chunk-level failure (transport error, remote server error, malformed
// response) marks every row of that chunk failed with a shared reason and
// the run continues; partial success is the designed behavior, not a
// defect. Cancellation via ctx is checked before each submission, so rows
// in unattempted chunks are absent from Results, distinguishable from
// failed ones. The two pre-flight errors are the only ones Run returns.
func Run(ctx context.Context, table *RawTable, mapping ColumnMapping, detected []DetectedColumn, submit SubmitFunc, opts RunOptions) (*ImportSummary, error) {
	if !HasDestination(mapping, detected) {
		return nil, ErrMissingDestination
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	summary := &ImportSummary{
		TotalRows: len(table.Rows),
		Results:   make([]RowResult, 0, len(table.Rows)),
	}

	chunk := 0
	for start := 0; start < len(table.Rows); start += chunkSize {
		chunk++

		if ctx.Err() != nil {
			// Cancelled: return what has been accumulated so far.
			return summary, nil
		}

		end := min(start+chunkSize, len(table.Rows))
		rows := table.Rows[start:end]

		resp, err := submit(ctx, SerializeRows(table.Headers, rows, table.Delimiter))
		if err == nil && resp == nil {
			err = fmt.Errorf("malformed response: empty body")
		}
		if err == nil && len(resp.Results) != len(rows) {
			err = fmt.Errorf("malformed response: %d results for %d rows", len(resp.Results), len(rows))
		}

		if err != nil {
			reason := fmt.Sprintf("chunk %d failed: %v", chunk, err)
			for i := range rows {
				summary.Results = append(summary.Results, RowResult{
					Row:    start + i,
					Reason: reason,
				})
			}
			summary.ErrorCount += len(rows)
		} else {
			for _, r := range resp.Results {
				summary.Results = append(summary.Results, RowResult{
					Row:       start + r.Row,
					Success:   r.Success,
					Reason:    r.Reason,
					CreatedID: r.CreatedID,
				})
			}
			summary.SuccessCount += resp.SuccessCount
			summary.ErrorCount += resp.ErrorCount
		}

		if opts.OnProgress != nil {
			opts.OnProgress(end, len(table.Rows))
		}
		if opts.OnSummary != nil {
			opts.OnSummary(summary.Clone())
		}
	}

	return summary, nil
}
