package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureAssessment = `{
  "riskScore": 45,
  "summary": "Found 1 email and 1 SSN",
  "issues": [
    {"type": "Email", "severity": "MEDIUM", "description": "Found email: a@b.com"},
    {"type": "SSN", "severity": "CRITICAL", "description": "Found SSN: XXX-XX-6789"}
  ]
}`

func TestParseAssessmentDirect(t *testing.T) {
	assessment, err := ParseAssessment(fixtureAssessment)
	require.NoError(t, err)
	assert.Equal(t, 45, assessment.RiskScore)
	assert.Equal(t, "Found 1 email and 1 SSN", assessment.Summary)
	require.Len(t, assessment.Issues, 2)
	assert.Equal(t, "Email", assessment.Issues[0].Type)
}

func TestParseAssessmentMarkdownWrapped(t *testing.T) {
	wrapped := "```json\n" + fixtureAssessment + "\n```"
	assessment, err := ParseAssessment(wrapped)
	require.NoError(t, err)
	assert.Equal(t, 45, assessment.RiskScore)
}

func TestParseAssessmentEmbeddedInProse(t *testing.T) {
	noisy := "Here is the analysis you asked for:\n" + fixtureAssessment + "\nLet me know if you need more."
	assessment, err := ParseAssessment(noisy)
	require.NoError(t, err)
	assert.Equal(t, 45, assessment.RiskScore)
	assert.Len(t, assessment.Issues, 2)
}

func TestParseAssessmentBracesInsideStrings(t *testing.T) {
	tricky := `prefix {"riskScore": 10, "summary": "odd {curly} \"text\"", "issues": []} suffix`
	assessment, err := ParseAssessment(tricky)
	require.NoError(t, err)
	assert.Equal(t, 10, assessment.RiskScore)
	assert.Equal(t, `odd {curly} "text"`, assessment.Summary)
}

func TestParseAssessmentGarbage(t *testing.T) {
	_, err := ParseAssessment("I could not analyze this document.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseAssessment("{ broken json ...")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyzeHappyPath(t *testing.T) {
	stub := &StubClient{Response: "```json\n" + fixtureAssessment + "\n```"}
	analyzer := NewAnalyzer(stub, nil)

	assessment, ok := analyzer.Analyze(context.Background(), "some document text")
	require.True(t, ok)
	assert.Equal(t, 45, assessment.RiskScore)
	assert.Equal(t, 1, stub.Calls())
}

func TestAnalyzeClientFailureIsAbsent(t *testing.T) {
	stub := &StubClient{Err: errors.New("quota exceeded (429)")}
	analyzer := NewAnalyzer(stub, nil)

	assessment, ok := analyzer.Analyze(context.Background(), "text")
	assert.False(t, ok)
	assert.Nil(t, assessment)
}

func TestAnalyzeMalformedResponseIsAbsent(t *testing.T) {
	stub := &StubClient{Response: "no json here"}
	analyzer := NewAnalyzer(stub, nil)

	_, ok := analyzer.Analyze(context.Background(), "text")
	assert.False(t, ok)
}

func TestAnalyzeNilOrUnavailableClient(t *testing.T) {
	_, ok := NewAnalyzer(nil, nil).Analyze(context.Background(), "text")
	assert.False(t, ok)

	stub := &StubClient{Unavailable: true}
	_, ok = NewAnalyzer(stub, nil).Analyze(context.Background(), "text")
	assert.False(t, ok)
	assert.Equal(t, 0, stub.Calls())
}

func TestAnalyzeClampsRiskScore(t *testing.T) {
	stub := &StubClient{Response: `{"riskScore": 400, "summary": "x", "issues": []}`}
	assessment, ok := NewAnalyzer(stub, nil).Analyze(context.Background(), "text")
	require.True(t, ok)
	assert.Equal(t, 100, assessment.RiskScore)
}

func TestTruncateAscii(t *testing.T) {
	long := strings.Repeat("a", MaxInputChars+500)
	out := Truncate(long, MaxInputChars)
	assert.Len(t, out, MaxInputChars)

	assert.Equal(t, "short", Truncate("short", MaxInputChars))
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	long := strings.Repeat("é", 100) // 2 bytes per rune
	out := Truncate(long, 7)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 7, utf8.RuneCountInString(out))
}

func TestAssessmentFindings(t *testing.T) {
	assessment, err := ParseAssessment(fixtureAssessment)
	require.NoError(t, err)

	findings := assessment.Findings()
	require.Len(t, findings, 2)
	assert.Equal(t, core.Kind("Email"), findings[0].Kind)
	assert.Equal(t, core.SeverityMedium, findings[0].Severity)
	assert.Empty(t, findings[0].MatchedText)
	assert.Zero(t, findings[0].Confidence)

	// Unknown severities normalize to MEDIUM.
	odd := &Assessment{Issues: []Issue{{Type: "Mystery", Severity: "SEVERE"}}}
	assert.Equal(t, core.SeverityMedium, odd.Findings()[0].Severity)
}
