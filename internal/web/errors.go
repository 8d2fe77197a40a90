package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zaeemsc/openshortlink-sub000/internal/history"
	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
	"github.com/zaeemsc/openshortlink-sub000/internal/logging"
)

// ErrorResponse is the JSON shape of every API error. Code is stable and
// machine-readable; Message is for humans.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error with the request id and answers
// with a stable error code. Pre-flight import errors map to 4xx; anything
// unrecognized is a 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func classifyError(err error) (int, string) {
	var ruleErr *importer.RuleError

	switch {
	case errors.Is(err, importer.ErrEmptyFile):
		return http.StatusBadRequest, "EMPTY_FILE"
	case errors.Is(err, importer.ErrMissingDestination):
		return http.StatusBadRequest, "MISSING_DESTINATION"
	case errors.Is(err, importer.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, importer.ErrRunNotFound), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, "RUN_NOT_FOUND"
	case errors.As(err, &ruleErr):
		return http.StatusBadRequest, "INVALID_RULE"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
