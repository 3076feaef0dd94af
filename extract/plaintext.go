package extract

import (
	"context"
	"strings"
	"unicode/utf8"
)

// PlainText serves textual formats verbatim. Invalid UTF-8 sequences are
// replaced so downstream regex scanning always sees a valid string.
type PlainText struct{}

// Extensions covers common text, data, and source-code formats.
func (*PlainText) Extensions() []string {
	return []string{
		".txt", ".md", ".csv", ".tsv", ".log",
		".xml", ".html", ".htm", ".yaml", ".yml",
		".go", ".js", ".ts", ".py", ".java", ".rb", ".sh", ".sql",
	}
}

// Extract returns the bytes as a string, repairing invalid UTF-8.
func (*PlainText) Extract(_ context.Context, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

var _ Backend = (*PlainText)(nil)
