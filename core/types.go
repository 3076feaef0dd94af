package core

import "time"

// Severity ranks how damaging a detected item is if it leaks.
type Severity string

const (
	// SeverityLow covers findings that are sensitive only in aggregate
	SeverityLow Severity = "LOW"

	// SeverityMedium covers personal identifiers (emails, phones, addresses)
	SeverityMedium Severity = "MEDIUM"

	// SeverityHigh covers opaque credentials and biometric hits
	SeverityHigh Severity = "HIGH"

	// SeverityCritical covers directly abusable secrets and regulated IDs
	SeverityCritical Severity = "CRITICAL"
)

// Points returns the risk-score contribution of one finding at this severity.
func (s Severity) Points() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	default:
		return 10
	}
}

// Kind identifies what a detector matched. Deterministic detectors use the
// fixed set below; AI-reported findings may carry free-form kinds.
type Kind string

const (
	KindAwsKey           Kind = "AwsKey"
	KindGenericApiKey    Kind = "GenericApiKey"
	KindSSN              Kind = "SSN"
	KindCreditCard       Kind = "CreditCard"
	KindEmail            Kind = "Email"
	KindPhone            Kind = "Phone"
	KindIPAddress        Kind = "IPAddress"
	KindPassportNumber   Kind = "PassportNumber"
	KindVisaRecordNumber Kind = "VisaRecordNumber"
	KindPostalCode       Kind = "PostalCode"
	KindFaceDetected     Kind = "FaceDetected"
)

// Finding is one detected occurrence of sensitive content.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`

	// MatchedText is the exact substring that matched. It must be a literal
	// substring of the source text; redaction locates matches through it.
	// Empty for findings that have no span (AI-reported, face detection).
	MatchedText string `json:"matchedText"`

	// DisplayText is a masked preview for UI purposes, never used for
	// redaction matching.
	DisplayText string `json:"displayText"`

	// Confidence is 0-100. Deterministic detectors fix it per detector;
	// zero means unset.
	Confidence int `json:"confidence,omitempty"`

	// Description carries the AI detector's free-text note, when present.
	Description string `json:"description,omitempty"`
}

// RiskLevel is the overall classification derived from the fused score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ScanResult is one completed inspection. Immutable after creation; a cache
// hit returns a copy annotated with Cached=true, never the stored value.
type ScanResult struct {
	Fingerprint string `json:"fingerprint"`

	// Findings are ordered by detector scan order, deterministic findings
	// first, then AI-reported ones.
	Findings []Finding `json:"findings"`

	DeterministicScore int `json:"deterministicScore"`

	// AiScore is nil when the AI detector was skipped or failed; the fused
	// score then falls back to the deterministic score alone.
	AiScore *int `json:"aiScore,omitempty"`

	FusedScore int       `json:"fusedScore"`
	RiskLevel  RiskLevel `json:"riskLevel"`

	// AiSummary is empty when the AI detector failed or was skipped.
	AiSummary string `json:"aiSummary,omitempty"`

	// ExtractedTextSample is a bounded copy of the source text retained for
	// preview and redaction, never the unbounded original.
	ExtractedTextSample string `json:"extractedTextSample"`

	CreatedAt time.Time `json:"createdAt"`
	Cached    bool      `json:"cached"`
}
