package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxInputChars bounds how much text is sent to the model, to bound cost and
// latency. Truncation is rune-aware and never splits a multibyte sequence.
const MaxInputChars = 30000

// ErrMalformedResponse marks model output that could not be parsed into an
// Assessment even after repair. It is logged and recovered, never surfaced.
var ErrMalformedResponse = errors.New("malformed ai response")

const promptHeader = `Extract ALL sensitive data from this document and return a JSON as specified:
{
  "riskScore": <total points, max 100>,
  "summary": "Found X emails, Y phones, Z SSNs, etc.",
  "issues": [
    {"type": "Email", "severity": "MEDIUM", "description": "Found email: example@domain.com"},
    {"type": "Phone", "severity": "MEDIUM", "description": "Found phone: 123-456-7890"},
    {"type": "SSN", "severity": "CRITICAL", "description": "Found SSN: XXX-XX-1234"},
    {"type": "FaceDetected", "severity": "HIGH", "description": "Document contains photo of person or face"}
  ]
}

Look for:
- Emails, phones, SSN, credit cards, addresses
- API keys, passwords, credentials
- Passport, I-94, driver license numbers
- References to photos, images, faces, or people
- Mentions like "photo attached", "see image", "person in video", "face visible"

Document:
`

// Analyzer wraps a Client into the AI detector contract: one attempt per
// scan, absent on any failure, never an error to the caller.
type Analyzer struct {
	client Client
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil client yields an analyzer that is
// permanently absent, which keeps the pipeline deterministic-only.
func NewAnalyzer(client Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze sends the (truncated) text to the model and returns the parsed
// assessment. The second return is false whenever no assessment is
// available: unconfigured client, transport or quota failure, timeout, or an
// unrepairable response. Failures are logged and recovered; the caller
// degrades to a deterministic-only result.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Assessment, bool) {
	if a == nil || a.client == nil || !a.client.Available() {
		return nil, false
	}

	prompt := promptHeader + Truncate(text, MaxInputChars)

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("ai detector unavailable, degrading to deterministic-only",
			zap.Error(err))
		return nil, false
	}

	assessment, err := ParseAssessment(raw)
	if err != nil {
		a.logger.Warn("ai response unparseable, degrading to deterministic-only",
			zap.Error(err))
		return nil, false
	}

	if assessment.RiskScore < 0 {
		assessment.RiskScore = 0
	}
	if assessment.RiskScore > 100 {
		assessment.RiskScore = 100
	}

	return assessment, true
}

// Truncate cuts s to at most max characters on a rune boundary.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	count := 0
	for i := 0; i < len(s); {
		if count == max {
			return s[:i]
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s
}

// ParseAssessment parses model output into an Assessment. Models routinely
// wrap their JSON in markdown fences or prose; the strategy is: strip fence
// markers and try a direct parse, then fall back to the first balanced
// {...} span, then give up.
func ParseAssessment(raw string) (*Assessment, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var assessment Assessment
	if err := json.Unmarshal([]byte(clean), &assessment); err == nil {
		return &assessment, nil
	}

	span, ok := balancedObject(clean)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(span), &assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &assessment, nil
}

// balancedObject returns the first balanced {...} span in s, tracking string
// literals and escapes so braces inside values do not confuse the count.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
