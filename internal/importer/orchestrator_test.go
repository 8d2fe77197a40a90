package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

// buildTable makes a destination-url table with n data rows.
func buildTable(n int) *RawTable {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("https://example.com/%d", i), "slug" + strconv.Itoa(i)}
	}
	return &RawTable{
		Headers:   []string{"Destination URL", "Slug"},
		Rows:      rows,
		Delimiter: ',',
	}
}

var testMapping = ColumnMapping{
	"Destination URL": FieldDestinationURL,
	"Slug":            FieldSlug,
}

// okResponse answers success for every row in the chunk.
func okResponse(chunkText string) *ChunkResponse {
	rows := strings.Count(chunkText, "\n") // header takes the first line
	resp := &ChunkResponse{SuccessCount: rows}
	for i := 0; i < rows; i++ {
		resp.Results = append(resp.Results, ChunkRowResult{
			Row:       i,
			Success:   true,
			CreatedID: "lnk_" + strconv.Itoa(i),
		})
	}
	return resp
}

func TestRunChunkingAndPartialFailure(t *testing.T) {
	table := buildTable(250)

	var calls []int // rows per submit call
	submit := func(_ context.Context, chunkText string) (*ChunkResponse, error) {
		rows := strings.Count(chunkText, "\n")
		calls = append(calls, rows)
		if len(calls) == 2 {
			return nil, errors.New("connection reset")
		}
		return okResponse(chunkText), nil
	}

	var progress [][2]int
	summary, err := Run(context.Background(), table, testMapping, nil, submit, RunOptions{
		ChunkSize: 100,
		OnProgress: func(processed, total int) {
			progress = append(progress, [2]int{processed, total})
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Exactly three submissions of 100, 100, 50 rows.
	if len(calls) != 3 || calls[0] != 100 || calls[1] != 100 || calls[2] != 50 {
		t.Fatalf("submit calls = %v, want [100 100 50]", calls)
	}

	if summary.TotalRows != 250 {
		t.Errorf("TotalRows = %d, want 250", summary.TotalRows)
	}
	if summary.SuccessCount != 150 {
		t.Errorf("SuccessCount = %d, want 150", summary.SuccessCount)
	}
	if summary.ErrorCount != 100 {
		t.Errorf("ErrorCount = %d, want 100", summary.ErrorCount)
	}
	if len(summary.Results) != 250 {
		t.Fatalf("len(Results) = %d, want 250", len(summary.Results))
	}

	// Results cover every absolute row index in order.
	for i, r := range summary.Results {
		if r.Row != i {
			t.Fatalf("Results[%d].Row = %d, want %d", i, r.Row, i)
		}
	}

	// Chunk 2's rows share the chunk-level failure reason.
	for i := 100; i < 200; i++ {
		r := summary.Results[i]
		if r.Success {
			t.Fatalf("row %d should have failed with chunk 2", i)
		}
		if !strings.HasPrefix(r.Reason, "chunk 2 failed:") {
			t.Fatalf("row %d reason = %q, want chunk 2 failure", i, r.Reason)
		}
	}

	// Chunks 1 and 3 resolved per their own responses.
	if !summary.Results[0].Success || !summary.Results[249].Success {
		t.Error("rows in successful chunks should succeed")
	}

	// Progress reported once per chunk, not per row.
	wantProgress := [][2]int{{100, 250}, {200, 250}, {250, 250}}
	if len(progress) != len(wantProgress) {
		t.Fatalf("progress calls = %v, want %v", progress, wantProgress)
	}
	for i := range wantProgress {
		if progress[i] != wantProgress[i] {
			t.Fatalf("progress[%d] = %v, want %v", i, progress[i], wantProgress[i])
		}
	}
}

func TestRunCancelBetweenChunks(t *testing.T) {
	table := buildTable(250)

	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	submit := func(_ context.Context, chunkText string) (*ChunkResponse, error) {
		calls++
		cancel() // takes effect before the next chunk is prepared
		return okResponse(chunkText), nil
	}

	summary, err := Run(ctx, table, testMapping, nil, submit, RunOptions{ChunkSize: 100})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("submit calls = %d, want 1", calls)
	}

	// Only chunk 1's rows are present; later rows are absent, not failed.
	if len(summary.Results) != 100 {
		t.Fatalf("len(Results) = %d, want 100", len(summary.Results))
	}
	if summary.SuccessCount != 100 || summary.ErrorCount != 0 {
		t.Errorf("counts = %d/%d, want 100/0", summary.SuccessCount, summary.ErrorCount)
	}
	if summary.TotalRows != 250 {
		t.Errorf("TotalRows = %d, want 250", summary.TotalRows)
	}
}

func TestRunMissingDestinationPreflight(t *testing.T) {
	table := buildTable(10)

	submit := func(context.Context, string) (*ChunkResponse, error) {
		t.Fatal("submit must not be called when the destination is missing")
		return nil, nil
	}

	_, err := Run(context.Background(), table, ColumnMapping{"Slug": FieldSlug}, nil, submit, RunOptions{})
	if !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("Run() error = %v, want ErrMissingDestination", err)
	}
}

func TestRunDetectedColumnSatisfiesDestination(t *testing.T) {
	table := buildTable(5)
	detected := []DetectedColumn{{Header: "US", Kind: KindGeo, Code: "US"}}

	submit := func(_ context.Context, chunkText string) (*ChunkResponse, error) {
		return okResponse(chunkText), nil
	}

	summary, err := Run(context.Background(), table, nil, detected, submit, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.SuccessCount != 5 {
		t.Errorf("SuccessCount = %d, want 5", summary.SuccessCount)
	}
}

func TestRunMalformedResponseFailsChunk(t *testing.T) {
	table := buildTable(3)

	submit := func(context.Context, string) (*ChunkResponse, error) {
		// One result for three rows.
		return &ChunkResponse{
			SuccessCount: 1,
			Results:      []ChunkRowResult{{Row: 0, Success: true}},
		}, nil
	}

	summary, err := Run(context.Background(), table, testMapping, nil, submit, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.ErrorCount != 3 || summary.SuccessCount != 0 {
		t.Errorf("counts = %d/%d, want 0/3 failures", summary.SuccessCount, summary.ErrorCount)
	}
	for _, r := range summary.Results {
		if !strings.Contains(r.Reason, "malformed response") {
			t.Errorf("row %d reason = %q, want malformed response", r.Row, r.Reason)
		}
	}
}

func TestRunNilResponseFailsChunk(t *testing.T) {
	table := buildTable(3)

	submit := func(context.Context, string) (*ChunkResponse, error) {
		return nil, nil
	}

	summary, err := Run(context.Background(), table, testMapping, nil, submit, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.ErrorCount != 3 || summary.SuccessCount != 0 {
		t.Errorf("counts = %d/%d, want 0/3 failures", summary.SuccessCount, summary.ErrorCount)
	}
	for _, r := range summary.Results {
		if !strings.Contains(r.Reason, "malformed response") {
			t.Errorf("row %d reason = %q, want malformed response", r.Row, r.Reason)
		}
	}
}

func TestRunRowLevelRejection(t *testing.T) {
	table := buildTable(4)

	submit := func(_ context.Context, chunkText string) (*ChunkResponse, error) {
		resp := okResponse(chunkText)
		// The remote service rejects the second row only.
		resp.Results[1] = ChunkRowResult{Row: 1, Success: false, Reason: "invalid destination URL"}
		resp.SuccessCount = 3
		resp.ErrorCount = 1
		return resp, nil
	}

	summary, err := Run(context.Background(), table, testMapping, nil, submit, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.SuccessCount != 3 || summary.ErrorCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", summary.SuccessCount, summary.ErrorCount)
	}
	if summary.Results[1].Success || summary.Results[1].Reason != "invalid destination URL" {
		t.Errorf("Results[1] = %+v, want row-level rejection", summary.Results[1])
	}
	if !summary.Results[0].Success || !summary.Results[2].Success || !summary.Results[3].Success {
		t.Error("other rows should succeed")
	}
}

func TestRunSerializesChunksWithHeaders(t *testing.T) {
	table := &RawTable{
		Headers:   []string{"Destination URL"},
		Rows:      [][]string{{"https://a.example"}, {"has,comma"}},
		Delimiter: ',',
	}

	var got string
	submit := func(_ context.Context, chunkText string) (*ChunkResponse, error) {
		got = chunkText
		return okResponse(chunkText), nil
	}

	if _, err := Run(context.Background(), table, ColumnMapping{"Destination URL": FieldDestinationURL}, nil, submit, RunOptions{}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "Destination URL\nhttps://a.example\n\"has,comma\""
	if got != want {
		t.Errorf("chunk text = %q, want %q", got, want)
	}
}
