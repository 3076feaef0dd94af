package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCustomPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
patterns:
  - name: EmployeeID
    pattern: 'EMP-\d{6}'
    severity: HIGH
  - name: TicketRef
    pattern: 'TKT-[0-9a-f]{8}'
    severity: LOW
`), 0644))

	patterns, err := LoadCustomPatterns(path)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "EmployeeID", patterns[0].Name)
	assert.Equal(t, SeverityHigh, patterns[0].Severity)
	assert.Equal(t, `TKT-[0-9a-f]{8}`, patterns[1].Pattern)
}

func TestLoadCustomPatternsRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns:\n  - pattern: 'x+'\n"), 0644))

	_, err := LoadCustomPatterns(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestLoadCustomPatternsMissingFile(t *testing.T) {
	_, err := LoadCustomPatterns(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
