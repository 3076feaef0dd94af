package pipeline

import (
	"context"

	"github.com/SamuelRCrider/dataguard-go/core"
)

// faceConfidence is the fixed confidence attached to face findings.
const faceConfidence = 90

// FaceDetector reports whether a document's raw bytes contain a human face.
// It is an optional capability; deployments wire one in when they run an
// image or PDF detector next to the scanner. The default is none.
type FaceDetector interface {
	DetectFaces(ctx context.Context, data []byte) (bool, error)
}

// faceFinding is the finding appended when a detector reports a face. It
// has no text span, so redaction skips it; it contributes a flat score
// bonus instead of severity points.
func faceFinding() core.Finding {
	return core.Finding{
		Kind:        core.KindFaceDetected,
		Severity:    core.SeverityHigh,
		Confidence:  faceConfidence,
		Description: "Document contains photo of person or face",
	}
}
