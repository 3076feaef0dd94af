package core

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by the pipeline when the extracted text is blank.
// It is the only scan failure surfaced to callers; detector degradation is not.
var ErrEmptyInput = errors.New("no text to scan")

// InvalidStyleError reports an unrecognized redaction style. It is a caller
// error, surfaced as such.
type InvalidStyleError struct {
	Style string
}

func (e *InvalidStyleError) Error() string {
	return fmt.Sprintf("invalid redaction style %q", e.Style)
}
