package dataguard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SamuelRCrider/dataguard-go/config"
	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/SamuelRCrider/dataguard-go/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceScanText(t *testing.T) {
	svc, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.ScanText(context.Background(), "ssn is 123-45-6789")
	require.NoError(t, err)

	require.NotEmpty(t, result.Findings)
	assert.Equal(t, core.KindSSN, result.Findings[0].Kind)
	assert.Equal(t, 25, result.DeterministicScore)
	assert.Equal(t, core.RiskLow, result.RiskLevel)
}

func TestServiceScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("card 4111 1111 1111 1111"), 0644))

	svc, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.ScanFile(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, result.Findings)
	assert.Equal(t, core.KindCreditCard, result.Findings[0].Kind)
}

func TestServiceScanFileUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4E, 0x47, 0x00}, 0644))

	svc, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.ScanFile(context.Background(), path)
	var unsupported *extract.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
}

func TestServiceRedact(t *testing.T) {
	svc, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	defer svc.Close()

	text := "ssn is 123-45-6789"
	result, err := svc.ScanText(context.Background(), text)
	require.NoError(t, err)

	redacted, err := svc.Redact(text, result, core.StyleFull)
	require.NoError(t, err)
	assert.Equal(t, "ssn is [REDACTED]", redacted)
}

func TestServiceHistory(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "scans.jsonl")

	svc, err := NewService(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.ScanText(context.Background(), "a@b.com")
	require.NoError(t, err)

	entries, err := svc.RecentScans(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].FindingCount)
}

func TestServiceCustomPatterns(t *testing.T) {
	cfg := config.Default()
	cfg.Detector.CustomPatterns = []core.CustomPattern{
		{Name: "EmployeeID", Pattern: `EMP-\d{6}`, Severity: core.SeverityHigh},
	}

	svc, err := NewService(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.ScanText(context.Background(), "badge EMP-004521 issued")
	require.NoError(t, err)
	require.NotEmpty(t, result.Findings)
	assert.Equal(t, core.Kind("EmployeeID"), result.Findings[len(result.Findings)-1].Kind)
}

func TestRedactText(t *testing.T) {
	redacted, err := RedactText(context.Background(), "mail a@b.com now", core.StyleAsterisk)
	require.NoError(t, err)
	assert.Equal(t, "mail ******* now", redacted)
}
