package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SamuelRCrider/dataguard-go/ai"
	"github.com/SamuelRCrider/dataguard-go/cache"
	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/SamuelRCrider/dataguard-go/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	return p
}

func TestScanEmptyInput(t *testing.T) {
	p := newTestPipeline(t, Options{})

	_, err := p.Scan(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	_, err = p.Scan(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestScanDeterministicOnly(t *testing.T) {
	p := newTestPipeline(t, Options{})

	result, err := p.Scan(context.Background(), "contact me at alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, core.Fingerprint("contact me at alice@example.com"), result.Fingerprint)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, core.KindEmail, result.Findings[0].Kind)
	assert.Equal(t, 10, result.DeterministicScore)
	assert.Nil(t, result.AiScore)
	assert.Equal(t, 10, result.FusedScore)
	assert.Equal(t, core.RiskLow, result.RiskLevel)
	assert.False(t, result.Cached)
	assert.False(t, result.CreatedAt.IsZero())
}

func TestScanCacheHitSkipsAI(t *testing.T) {
	stub := &ai.StubClient{Response: `{"riskScore": 50, "summary": "risky", "issues": []}`}
	p := newTestPipeline(t, Options{
		Analyzer: ai.NewAnalyzer(stub, nil),
		Cache:    cache.NewResultCache(cache.NewMemory(16, time.Minute), time.Minute, nil),
	})

	first, err := p.Scan(context.Background(), "text with a@b.com inside")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, stub.Calls())

	second, err := p.Scan(context.Background(), "text with a@b.com inside")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, stub.Calls())

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.FusedScore, second.FusedScore)
}

func TestScanFusesAIScore(t *testing.T) {
	stub := &ai.StubClient{Response: `{"riskScore": 80, "summary": "several identifiers", "issues": [
		{"type": "Address", "severity": "MEDIUM", "description": "Found street address"}
	]}`}
	p := newTestPipeline(t, Options{Analyzer: ai.NewAnalyzer(stub, nil)})

	result, err := p.Scan(context.Background(), "reach alice@example.com today")
	require.NoError(t, err)

	// round(10*0.6 + 80*0.4) = 38
	require.NotNil(t, result.AiScore)
	assert.Equal(t, 80, *result.AiScore)
	assert.Equal(t, 38, result.FusedScore)
	assert.Equal(t, core.RiskMedium, result.RiskLevel)
	assert.Equal(t, "several identifiers", result.AiSummary)

	// Deterministic findings come first, AI findings after.
	require.Len(t, result.Findings, 2)
	assert.Equal(t, core.KindEmail, result.Findings[0].Kind)
	assert.Equal(t, core.Kind("Address"), result.Findings[1].Kind)

	// AI findings never contribute to the deterministic score.
	assert.Equal(t, 10, result.DeterministicScore)
}

func TestScanDegradesWhenAIFails(t *testing.T) {
	stub := &ai.StubClient{Err: errors.New("quota exceeded (429)")}
	p := newTestPipeline(t, Options{Analyzer: ai.NewAnalyzer(stub, nil)})

	result, err := p.Scan(context.Background(), "ssn 123-45-6789 on file")
	require.NoError(t, err)

	assert.Nil(t, result.AiScore)
	assert.Empty(t, result.AiSummary)
	assert.Equal(t, result.DeterministicScore, result.FusedScore)
}

// blockingClient stalls until its context is cancelled.
type blockingClient struct{}

func (blockingClient) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingClient) Available() bool { return true }

func TestScanAITimeoutOnlyBoundsAIBranch(t *testing.T) {
	p := newTestPipeline(t, Options{
		Analyzer:  ai.NewAnalyzer(blockingClient{}, nil),
		AITimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	result, err := p.Scan(context.Background(), "email a@b.com")
	require.NoError(t, err)

	assert.Nil(t, result.AiScore)
	require.Len(t, result.Findings, 1)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// fixedFaces always reports the configured answer.
type fixedFaces struct {
	detected bool
	err      error
}

func (f fixedFaces) DetectFaces(context.Context, []byte) (bool, error) {
	return f.detected, f.err
}

func TestScanFaceDetection(t *testing.T) {
	p := newTestPipeline(t, Options{Faces: fixedFaces{detected: true}})

	result, err := p.ScanDocument(context.Background(), Document{
		Filename: "photo-report.txt",
		Text:     "see attached photo",
		Raw:      []byte{0x01},
	})
	require.NoError(t, err)

	require.Len(t, result.Findings, 1)
	finding := result.Findings[0]
	assert.Equal(t, core.KindFaceDetected, finding.Kind)
	assert.Equal(t, core.SeverityHigh, finding.Severity)
	assert.Equal(t, 90, finding.Confidence)
	assert.Empty(t, finding.MatchedText)

	// Faces contribute a flat 20 points, not severity points.
	assert.Equal(t, 20, result.DeterministicScore)
}

func TestScanFaceDetectorFailureIsSkipped(t *testing.T) {
	p := newTestPipeline(t, Options{Faces: fixedFaces{err: errors.New("detector offline")}})

	result, err := p.ScanDocument(context.Background(), Document{Text: "plain text", Raw: []byte{0x01}})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestScanBoundsTextSample(t *testing.T) {
	p := newTestPipeline(t, Options{})

	long := "a@b.com " + strings.Repeat("x", maxSampleChars+1000)
	result, err := p.Scan(context.Background(), long)
	require.NoError(t, err)
	assert.Len(t, result.ExtractedTextSample, maxSampleChars)
}

func TestScanRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	log, err := history.Open(dir+"/scans.jsonl", 0)
	require.NoError(t, err)
	defer log.Close()

	p := newTestPipeline(t, Options{History: log})

	_, err = p.ScanDocument(context.Background(), Document{Filename: "doc.txt", Text: "a@b.com"})
	require.NoError(t, err)

	entries, err := log.Recent(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.txt", entries[0].Filename)
	assert.Equal(t, 1, entries[0].FindingCount)
	assert.False(t, entries[0].Cached)
	assert.NotEmpty(t, entries[0].ScanID)
}
