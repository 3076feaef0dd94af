package core

import (
	"strings"
	"unicode/utf8"
)

// Style selects how matched spans are masked in redacted output.
type Style string

const (
	// StyleFull replaces each match with the literal [REDACTED] marker
	StyleFull Style = "full"

	// StylePartial keeps the first and last 4 characters around a *** core.
	// Matches under 8 characters produce overlapping output; callers guard.
	StylePartial Style = "partial"

	// StyleAsterisk masks with one '*' per character of the original match
	StyleAsterisk Style = "asterisk"

	// StyleBlock masks with one block glyph per character of the original match
	StyleBlock Style = "block"
)

const fullMask = "[REDACTED]"
const blockGlyph = "█"

// Redact replaces every occurrence of each finding's MatchedText in text with
// the style-specific mask. Replacement is literal, never regex, so matched
// text containing metacharacters is not re-interpreted. Each distinct matched
// value is replaced once per value, which makes redaction idempotent: masks
// no longer contain the original text, so reapplying with the same findings
// is a no-op. Findings without a matched span are skipped.
func Redact(text string, findings []Finding, style Style) (string, error) {
	switch style {
	case StyleFull, StylePartial, StyleAsterisk, StyleBlock:
	default:
		return "", &InvalidStyleError{Style: string(style)}
	}

	seen := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		match := f.MatchedText
		if match == "" {
			continue
		}
		if _, done := seen[match]; done {
			continue
		}
		seen[match] = struct{}{}

		text = strings.ReplaceAll(text, match, maskFor(match, style))
	}

	return text, nil
}

func maskFor(match string, style Style) string {
	switch style {
	case StylePartial:
		r := []rune(match)
		head, tail := r, r
		if len(r) > 4 {
			head = r[:4]
			tail = r[len(r)-4:]
		}
		return string(head) + "***" + string(tail)
	case StyleAsterisk:
		return strings.Repeat("*", utf8.RuneCountInString(match))
	case StyleBlock:
		return strings.Repeat(blockGlyph, utf8.RuneCountInString(match))
	default:
		return fullMask
	}
}
