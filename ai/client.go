package ai

import (
	"context"

	"github.com/SamuelRCrider/dataguard-go/core"
)

// Client is the capability interface for the generative model behind the AI
// detector. Production clients (Gemini, MCP) and the test stub all satisfy
// it, so nothing in the pipeline holds provider state.
type Client interface {
	// Complete sends one prompt and returns the raw model text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Available reports whether the client is configured to make calls.
	Available() bool
}

// Assessment is the structured verdict requested from the model.
type Assessment struct {
	RiskScore int     `json:"riskScore"`
	Summary   string  `json:"summary"`
	Issues    []Issue `json:"issues"`
}

// Issue is one finding reported by the model. Types are free-form; the model
// is prompted with the deterministic kind names but may invent its own.
type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Findings converts the assessment's issues into findings. AI findings carry
// no matched span (the model reports descriptions, not exact offsets) and no
// confidence, which downstream treats as unset.
func (a *Assessment) Findings() []core.Finding {
	if a == nil {
		return nil
	}
	findings := make([]core.Finding, 0, len(a.Issues))
	for _, issue := range a.Issues {
		findings = append(findings, core.Finding{
			Kind:        core.Kind(issue.Type),
			Severity:    normalizeSeverity(issue.Severity),
			Description: issue.Description,
		})
	}
	return findings
}

func normalizeSeverity(s string) core.Severity {
	switch core.Severity(s) {
	case core.SeverityLow, core.SeverityMedium, core.SeverityHigh, core.SeverityCritical:
		return core.Severity(s)
	default:
		return core.SeverityMedium
	}
}
