// Package importer converts uploaded tabular files into shortlink-creation
// requests: delimiter detection, quote-aware tokenizing, header
// classification, slug extraction, and chunked submission with partial
// failure isolation. It has no HTTP dependencies and is driven by the web
// layer.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zaeemsc/openshortlink-sub000/internal/metrics"
)

// Phase indicates the current stage of an import run.
type Phase string

const (
	PhaseStarting  Phase = "starting"
	PhaseImporting Phase = "importing"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
	PhaseCancelled Phase = "cancelled"
)

// Progress is the externally visible state of an import run.
type Progress struct {
	RunID         string `json:"runId"`
	FileName      string `json:"fileName"`
	Phase         Phase  `json:"phase"`
	ProcessedRows int    `json:"processedRows"`
	TotalRows     int    `json:"totalRows"`
	SuccessCount  int    `json:"successCount"`
	ErrorCount    int    `json:"errorCount"`
	Error         string `json:"error,omitempty"`
}

// Percent returns run progress as 0-100.
func (p Progress) Percent() int {
	if p.TotalRows == 0 {
		return 0
	}
	return p.ProcessedRows * 100 / p.TotalRows
}

// ChunkRequest is one remote record-creation call: a serialized chunk plus
// the out-of-band parameters the service needs to interpret it.
type ChunkRequest struct {
	CollectionID string
	Mapping      ColumnMapping
	Detected     []DetectedColumn
	Rules        ExtractionRules
	Delimiter    rune
	Data         string
}

// Submitter sends one chunk to the record-creation service.
type Submitter interface {
	SubmitChunk(ctx context.Context, req ChunkRequest) (*ChunkResponse, error)
}

// RunRecord is what gets persisted about a finished run.
type RunRecord struct {
	ID           string
	FileName     string
	CollectionID string
	TotalRows    int
	SuccessCount int
	ErrorCount   int
	Cancelled    bool
	StartedAt    time.Time
	Duration     time.Duration
}

// RunRecorder persists finished run summaries. A nil recorder disables
// history.
type RunRecorder interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// Options tune a Service.
type Options struct {
	// ChunkSize caps rows per remote call (default DefaultChunkSize).
	ChunkSize int
	// MaxFileSize rejects uploads larger than this many bytes; zero
	// disables the check.
	MaxFileSize int64
	// RunTimeout bounds a whole import run (default 10m).
	RunTimeout time.Duration
}

// Service owns the registry of active import runs: it starts them, streams
// their progress, cancels them, and hands out their results.
type Service struct {
	submitter   Submitter
	recorder    RunRecorder
	chunkSize   int
	maxFileSize int64
	runTimeout  time.Duration

	mu   sync.RWMutex
	runs map[string]*activeRun
}

type activeRun struct {
	ID       string
	FileName string
	Cancel   context.CancelFunc
	Done     chan struct{}

	stateMu  sync.Mutex
	progress Progress
	summary  *ImportSummary // latest snapshot, final once Done closes

	listenerMu sync.Mutex
	listeners  []chan Progress
}

// NewService creates a Service. recorder may be nil.
func NewService(submitter Submitter, recorder RunRecorder, opts Options) *Service {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	runTimeout := opts.RunTimeout
	if runTimeout <= 0 {
		runTimeout = 10 * time.Minute
	}

	return &Service{
		submitter:   submitter,
		recorder:    recorder,
		chunkSize:   chunkSize,
		maxFileSize: opts.MaxFileSize,
		runTimeout:  runTimeout,
		runs:        make(map[string]*activeRun),
	}
}

// ImportRequest describes one import to start.
type ImportRequest struct {
	FileName     string
	Data         []byte
	Delimiter    rune // AutoDelimiter to detect
	CollectionID string
	Mapping      ColumnMapping
	Rules        ExtractionRules
}

// StartImport validates the request, parses the file, and launches the
// orchestrated run in the background. The two pre-flight failures
// (ErrEmptyFile, ErrMissingDestination) surface here, synchronously, before
// any remote call; everything after that is folded into the summary.
func (s *Service) StartImport(req ImportRequest) (string, error) {
	table, detected, err := s.prepare(req)
	if err != nil {
		return "", err
	}

	runID := uuid.New().String()
	runCtx, cancel := context.WithTimeout(context.Background(), s.runTimeout)

	run := &activeRun{
		ID:       runID,
		FileName: req.FileName,
		Cancel:   cancel,
		Done:     make(chan struct{}),
		progress: Progress{
			RunID:     runID,
			FileName:  req.FileName,
			Phase:     PhaseStarting,
			TotalRows: len(table.Rows),
		},
	}

	s.mu.Lock()
	s.runs[runID] = run
	s.mu.Unlock()

	go s.process(runCtx, run, table, detected, req)

	return runID, nil
}

// prepare runs every check that must happen before a run exists: size
// limit, mapping validation, parsing, classification, and the required
// destination field.
func (s *Service) prepare(req ImportRequest) (*RawTable, []DetectedColumn, error) {
	if s.maxFileSize > 0 && int64(len(req.Data)) > s.maxFileSize {
		return nil, nil, ErrFileTooLarge
	}
	if err := Validate(req.Mapping, req.Rules); err != nil {
		return nil, nil, err
	}

	table, err := parseUpload(req.FileName, req.Data, req.Delimiter)
	if err != nil {
		return nil, nil, err
	}

	detected := ClassifyHeaders(table.Headers, req.Mapping)
	if !HasDestination(req.Mapping, detected) {
		return nil, nil, ErrMissingDestination
	}

	return table, detected, nil
}

// parseUpload picks the workbook or delimited-text path by file name.
func parseUpload(fileName string, data []byte, delim rune) (*RawTable, error) {
	if IsWorkbook(fileName) {
		return ParseWorkbook(bytes.NewReader(data))
	}
	return Parse(string(sanitizeUTF8(data)), delim)
}

// process drives one run to completion in the background.
func (s *Service) process(ctx context.Context, run *activeRun, table *RawTable, detected []DetectedColumn, req ImportRequest) {
	startedAt := time.Now()

	metrics.ImportStarted()
	defer func() {
		metrics.ImportFinished()
		close(run.Done)
		run.closeListeners()
		s.cleanup(run.ID, 5*time.Minute)
	}()

	run.setPhase(PhaseImporting)
	run.notifyProgress()

	submit := func(ctx context.Context, chunkText string) (*ChunkResponse, error) {
		start := time.Now()
		resp, err := s.submitter.SubmitChunk(ctx, ChunkRequest{
			CollectionID: req.CollectionID,
			Mapping:      req.Mapping,
			Detected:     detected,
			Rules:        req.Rules,
			Delimiter:    table.Delimiter,
			Data:         chunkText,
		})
		metrics.ObserveChunk(time.Since(start), err == nil)
		return resp, err
	}

	summary, err := Run(ctx, table, req.Mapping, detected, submit, RunOptions{
		ChunkSize:  s.chunkSize,
		OnProgress: run.updateCounts,
		OnSummary:  run.setSummary,
	})
	if err != nil {
		// Only pre-flight errors reach here, and prepare already ran them;
		// treat any residue as a failed run rather than panicking.
		run.fail(err)
		return
	}

	cancelled := ctx.Err() != nil && len(summary.Results) < summary.TotalRows

	run.finish(summary, cancelled)

	metrics.AddRowResults(summary.SuccessCount, summary.ErrorCount)

	if s.recorder != nil {
		recCtx, recCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer recCancel()
		if err := s.recorder.RecordRun(recCtx, RunRecord{
			ID:           run.ID,
			FileName:     req.FileName,
			CollectionID: req.CollectionID,
			TotalRows:    summary.TotalRows,
			SuccessCount: summary.SuccessCount,
			ErrorCount:   summary.ErrorCount,
			Cancelled:    cancelled,
			StartedAt:    startedAt,
			Duration:     time.Since(startedAt),
		}); err != nil {
			// History is best-effort; the run outcome stands regardless.
			slog.Warn("failed to record run history", "run_id", run.ID, "error", err)
		}
	}
}

// SubscribeProgress returns a channel receiving progress updates, closed
// when the run completes. The current progress is delivered immediately.
func (s *Service) SubscribeProgress(runID string) (<-chan Progress, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}

	ch := make(chan Progress, 10)

	// Registration and the initial snapshot both happen under listenerMu so
	// closeListeners cannot close ch between the two. The channel is fresh
	// and buffered, so the sends never block.
	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	select {
	case <-run.Done:
		// A finished run no longer notifies listeners; hand the subscriber
		// the final state and a closed channel instead of registering it.
		ch <- run.snapshotProgress()
		close(ch)
		return ch, nil
	default:
	}

	run.listeners = append(run.listeners, ch)
	ch <- run.snapshotProgress()

	return ch, nil
}

// CancelImport requests cancellation; the run stops at the next chunk
// boundary and keeps what it already accumulated.
func (s *Service) CancelImport(runID string) error {
	run, err := s.run(runID)
	if err != nil {
		return err
	}
	run.Cancel()
	return nil
}

// Progress returns the current progress without blocking.
func (s *Service) Progress(runID string) (Progress, error) {
	run, err := s.run(runID)
	if err != nil {
		return Progress{}, err
	}
	return run.snapshotProgress(), nil
}

// Result blocks until the run completes and returns its final summary.
func (s *Service) Result(ctx context.Context, runID string) (*ImportSummary, error) {
	run, err := s.run(runID)
	if err != nil {
		return nil, err
	}

	select {
	case <-run.Done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	run.stateMu.Lock()
	defer run.stateMu.Unlock()
	return run.summary, nil
}

// FailedRowsCSV renders the diagnostic export from the currently
// accumulated summary; it works mid-run and after completion alike.
func (s *Service) FailedRowsCSV(runID string) (string, error) {
	run, err := s.run(runID)
	if err != nil {
		return "", err
	}

	run.stateMu.Lock()
	summary := run.summary
	run.stateMu.Unlock()

	if summary == nil {
		summary = &ImportSummary{}
	}
	return summary.FailedRowsCSV(','), nil
}

func (s *Service) run(runID string) (*activeRun, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, nil
}

// cleanup removes the run from tracking after a delay, leaving clients time
// to collect results.
func (s *Service) cleanup(runID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}

func (run *activeRun) snapshotProgress() Progress {
	run.stateMu.Lock()
	defer run.stateMu.Unlock()
	return run.progress
}

func (run *activeRun) setPhase(phase Phase) {
	run.stateMu.Lock()
	run.progress.Phase = phase
	run.stateMu.Unlock()
}

func (run *activeRun) updateCounts(processed, total int) {
	run.stateMu.Lock()
	run.progress.ProcessedRows = processed
	run.progress.TotalRows = total
	run.stateMu.Unlock()
	run.notifyProgress()
}

func (run *activeRun) setSummary(snapshot *ImportSummary) {
	run.stateMu.Lock()
	run.summary = snapshot
	run.progress.SuccessCount = snapshot.SuccessCount
	run.progress.ErrorCount = snapshot.ErrorCount
	run.stateMu.Unlock()
	run.notifyProgress()
}

func (run *activeRun) fail(err error) {
	run.stateMu.Lock()
	run.progress.Phase = PhaseFailed
	run.progress.Error = err.Error()
	run.stateMu.Unlock()
	run.notifyProgress()
}

func (run *activeRun) finish(summary *ImportSummary, cancelled bool) {
	run.stateMu.Lock()
	run.summary = summary
	run.progress.SuccessCount = summary.SuccessCount
	run.progress.ErrorCount = summary.ErrorCount
	if cancelled {
		run.progress.Phase = PhaseCancelled
	} else {
		run.progress.Phase = PhaseComplete
	}
	run.stateMu.Unlock()
	run.notifyProgress()
}

// notifyProgress fans the current progress out to all listeners, skipping
// any that cannot keep up.
func (run *activeRun) notifyProgress() {
	snapshot := run.snapshotProgress()

	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	for _, ch := range run.listeners {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (run *activeRun) closeListeners() {
	run.listenerMu.Lock()
	defer run.listenerMu.Unlock()

	for _, ch := range run.listeners {
		close(ch)
	}
	run.listeners = nil
}
