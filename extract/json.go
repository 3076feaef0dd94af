package extract

import (
	"bytes"
	"context"
	"encoding/json"
)

// JSON re-indents JSON documents before scanning, which puts each field on
// its own line and keeps boundary-anchored patterns from being confused by
// minified input. Invalid JSON falls back to the raw text.
type JSON struct{}

// Extensions claims .json files.
func (*JSON) Extensions() []string {
	return []string{".json"}
}

// Extract pretty-prints the document, or returns it verbatim when it does
// not parse.
func (*JSON) Extract(_ context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data), nil
	}
	return buf.String(), nil
}

var _ Backend = (*JSON)(nil)
