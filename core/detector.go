package core

import (
	"fmt"
	"regexp"
)

// Deterministic detector confidence. Regex matches are exact evidence; the
// constant mirrors that they are still not ground truth (postal codes inside
// longer numbers are a known false-positive class, kept by design).
const detectorConfidence = 95

// defaultGenericTokenMinLength is the minimum length for the generic opaque
// token detector. The pattern is deliberately high-recall; the threshold is a
// configuration knob rather than a hardcoded assumption.
const defaultGenericTokenMinLength = 32

// Detector is one deterministic pattern detector.
type Detector struct {
	Kind     Kind
	Severity Severity
	re       *regexp.Regexp
}

// CustomPattern declares an operator-supplied detector loaded from
// configuration. Custom detectors run after the built-in table, in
// declaration order, so scan output stays deterministic.
type CustomPattern struct {
	Name     string   `yaml:"name"`
	Pattern  string   `yaml:"pattern"`
	Severity Severity `yaml:"severity"`
}

// MatcherConfig tunes the detector set.
type MatcherConfig struct {
	// GenericTokenMinLength is the minimum run of [a-zA-Z0-9_-] the generic
	// token detector fires on. Zero means the default of 32.
	GenericTokenMinLength int

	// DisableGenericToken drops the generic token detector entirely for
	// callers that cannot tolerate its false positives.
	DisableGenericToken bool

	// CustomPatterns adds operator-defined detectors.
	CustomPatterns []CustomPattern
}

// PatternMatcher applies a fixed, ordered set of regex detectors. It is pure
// and synchronous; identical input always yields identical output in
// identical order.
type PatternMatcher struct {
	detectors []Detector
}

// NewPatternMatcher builds the detector table. The built-in order is fixed:
// AwsKey, GenericApiKey, SSN, CreditCard, Email, Phone, IPAddress,
// PassportNumber, VisaRecordNumber, PostalCode.
func NewPatternMatcher(cfg MatcherConfig) (*PatternMatcher, error) {
	minLen := cfg.GenericTokenMinLength
	if minLen <= 0 {
		minLen = defaultGenericTokenMinLength
	}

	detectors := []Detector{
		{KindAwsKey, SeverityCritical, regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
		{KindGenericApiKey, SeverityHigh, regexp.MustCompile(fmt.Sprintf(`[a-zA-Z0-9_-]{%d,}`, minLen))},
		{KindSSN, SeverityCritical, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		{KindCreditCard, SeverityCritical, regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)},
		{KindEmail, SeverityMedium, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
		{KindPhone, SeverityMedium, regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?(?:\(?\d{3}\)?[\s.-]?)?\d{3}[\s.-]?\d{4}\b`)},
		{KindIPAddress, SeverityMedium, regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)},
		{KindPassportNumber, SeverityMedium, regexp.MustCompile(`\b[A-Z]{1,2}[0-9]{6,9}\b`)},
		{KindVisaRecordNumber, SeverityMedium, regexp.MustCompile(`\b[0-9]{11}\b`)},
		{KindPostalCode, SeverityMedium, regexp.MustCompile(`\b\d{5}(-\d{4})?\b`)},
	}

	if cfg.DisableGenericToken {
		filtered := detectors[:0]
		for _, d := range detectors {
			if d.Kind != KindGenericApiKey {
				filtered = append(filtered, d)
			}
		}
		detectors = filtered
	}

	for _, cp := range cfg.CustomPatterns {
		re, err := regexp.Compile(cp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid custom pattern %q: %w", cp.Name, err)
		}
		sev := cp.Severity
		switch sev {
		case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		default:
			sev = SeverityMedium
		}
		detectors = append(detectors, Detector{Kind: Kind(cp.Name), Severity: sev, re: re})
	}

	return &PatternMatcher{detectors: detectors}, nil
}

// Scan applies every detector independently over the full text and returns
// one Finding per occurrence, in detector order. Overlapping matches from
// different kinds are all retained; there is no cross-kind de-duplication.
// Empty text yields an empty list, not an error.
func (m *PatternMatcher) Scan(text string) []Finding {
	findings := []Finding{}
	if text == "" {
		return findings
	}

	for _, d := range m.detectors {
		for _, match := range d.re.FindAllString(text, -1) {
			findings = append(findings, Finding{
				Kind:        d.Kind,
				Severity:    d.Severity,
				MatchedText: match,
				DisplayText: DisplayMask(match),
				Confidence:  detectorConfidence,
			})
		}
	}

	return findings
}

// DisplayMask derives the preview form of a matched value: first 4 + "..." +
// last 4 characters. Matches of 8 characters or fewer are returned whole;
// there is nothing left to hide at that length.
func DisplayMask(match string) string {
	r := []rune(match)
	if len(r) <= 8 {
		return match
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}
