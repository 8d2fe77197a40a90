package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
	"github.com/zaeemsc/openshortlink-sub000/internal/logging"
)

// errBadRequest wraps malformed client input so classifyError can answer
// with a 400 instead of a 500.
var errBadRequest = errors.New("bad request")

// handlePreview parses and classifies an upload without importing it.
//
// Multipart form fields: file (required), mapping (JSON object of header ->
// target field), rules (JSON object of header -> slug prefix), delimiter
// (single character, "tab", or empty for auto-detection).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseImportForm(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	preview, err := s.service.Preview(*req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// handleStartImport launches an import run and answers immediately with its
// id; progress and results are fetched through the run endpoints.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseImportForm(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if req.CollectionID == "" {
		respondError(w, r, fmt.Errorf("%w: collectionId is required", errBadRequest))
		return
	}

	runID, err := s.service.StartImport(*req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("import started",
		"run_id", runID,
		"file", req.FileName,
		"collection", req.CollectionID,
	)

	respondJSON(w, http.StatusAccepted, map[string]string{"runId": runID})
}

// handleProgress streams progress updates as server-sent events, one event
// per completed chunk, until the run finishes or the client disconnects.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	updates, err := s.service.SubscribeProgress(runID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case progress, open := <-updates:
			if !open {
				return
			}
			payload, err := json.Marshal(progress)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// handleResult blocks until the run completes and returns the full summary
// with every row's outcome.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	summary, err := s.service.Result(r.Context(), runID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if err := s.service.CancelImport(runID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

// handleFailedRows downloads the two-column (Row, Error) diagnostic CSV for
// a run, built from whatever the run has accumulated so far.
func (s *Server) handleFailedRows(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	csvText, err := s.service.FailedRowsCSV(runID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "failed-rows-"+runID+".csv"))
	_, _ = io.WriteString(w, csvText)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, v))
			return
		}
		limit = n
	}

	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.history.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// parseImportForm extracts the shared multipart fields of the preview and
// import endpoints.
func (s *Server) parseImportForm(r *http.Request) (*importer.ImportRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.maxFileSize+1<<20)

	if err := r.ParseMultipartForm(s.maxFileSize + 1<<20); err != nil {
		return nil, fmt.Errorf("%w: parse multipart form: %v", errBadRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field: %v", errBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mapping, err := parseMapping(r.FormValue("mapping"))
	if err != nil {
		return nil, err
	}

	rules, err := parseRules(r.FormValue("rules"))
	if err != nil {
		return nil, err
	}

	delim, err := parseDelimiter(r.FormValue("delimiter"))
	if err != nil {
		return nil, err
	}

	return &importer.ImportRequest{
		FileName:     header.Filename,
		Data:         data,
		Delimiter:    delim,
		CollectionID: r.FormValue("collectionId"),
		Mapping:      mapping,
		Rules:        rules,
	}, nil
}

func parseMapping(raw string) (importer.ColumnMapping, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: invalid mapping JSON: %v", errBadRequest, err)
	}

	mapping := make(importer.ColumnMapping, len(decoded))
	for header, field := range decoded {
		mapping[header] = importer.TargetField(field)
	}
	return mapping, nil
}

func parseRules(raw string) (importer.ExtractionRules, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: invalid rules JSON: %v", errBadRequest, err)
	}

	rules := make(importer.ExtractionRules, len(decoded))
	for header, prefix := range decoded {
		rules[header] = importer.ExtractionRule{Prefix: prefix}
	}
	return rules, nil
}

// parseDelimiter accepts a single character, the word "tab", or an empty
// value requesting auto-detection.
func parseDelimiter(raw string) (rune, error) {
	switch raw {
	case "", "auto":
		return importer.AutoDelimiter, nil
	case "tab", "\\t":
		return '\t', nil
	}

	runes := []rune(raw)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be a single character, got %q", errBadRequest, raw)
	}
	return runes[0], nil
}
