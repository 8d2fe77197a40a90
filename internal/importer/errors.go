package importer

import (
	"errors"
	"fmt"
)

// ErrEmptyFile indicates the uploaded file has fewer than two usable lines
// (a header plus at least one data row). Surfaced before any remote call.
var ErrEmptyFile = errors.New("file must contain a header row and at least one data row")

// ErrMissingDestination indicates no column is mapped to the destination URL
// and the classifier found no redirect column either. Surfaced before any
// remote call.
var ErrMissingDestination = errors.New("no column provides a destination URL")

// ErrFileTooLarge indicates the upload exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

// ErrRunNotFound indicates the requested import run is unknown or already
// cleaned up.
var ErrRunNotFound = errors.New("import run not found")

// RuleError reports an extraction rule attached to a column that is not
// mapped to the slug field.
type RuleError struct {
	Header string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("extraction rule on %q: rules may only be attached to the slug column", e.Header)
}
