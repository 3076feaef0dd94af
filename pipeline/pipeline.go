// Package pipeline orchestrates a scan end to end: fingerprint, cache
// lookup, concurrent deterministic and AI detection, fusion, caching, and
// history. The deterministic branch always completes; the AI branch is
// best-effort and bounded by its own timeout.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/SamuelRCrider/dataguard-go/ai"
	"github.com/SamuelRCrider/dataguard-go/cache"
	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/SamuelRCrider/dataguard-go/history"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxSampleChars bounds the text sample retained on a result.
const maxSampleChars = 50000

// Document is one unit of input to the pipeline.
type Document struct {
	// Filename is recorded in history; empty for raw text scans.
	Filename string

	// Text is the extracted text to scan.
	Text string

	// Raw holds the original file bytes for the face detector. Nil skips
	// face detection.
	Raw []byte
}

// Options wires a Pipeline. Only Matcher has a built-in default; a nil
// Analyzer disables AI detection, a nil Cache disables caching, a nil
// History disables the scan log.
type Options struct {
	Matcher   *core.PatternMatcher
	Analyzer  *ai.Analyzer
	Cache     *cache.ResultCache
	History   *history.Log
	Faces     FaceDetector
	AITimeout time.Duration
	Logger    *zap.Logger
}

// Pipeline runs scans. Safe for concurrent use; identical in-flight inputs
// collapse to a single computation.
type Pipeline struct {
	matcher   *core.PatternMatcher
	analyzer  *ai.Analyzer
	cache     *cache.ResultCache
	history   *history.Log
	faces     FaceDetector
	aiTimeout time.Duration
	logger    *zap.Logger
	group     singleflight.Group
}

// New creates a Pipeline from Options.
func New(opts Options) (*Pipeline, error) {
	matcher := opts.Matcher
	if matcher == nil {
		m, err := core.NewPatternMatcher(core.MatcherConfig{})
		if err != nil {
			return nil, err
		}
		matcher = m
	}
	resultCache := opts.Cache
	if resultCache == nil {
		resultCache = cache.NewResultCache(cache.NewNoop(), 0, nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		matcher:   matcher,
		analyzer:  opts.Analyzer,
		cache:     resultCache,
		history:   opts.History,
		faces:     opts.Faces,
		aiTimeout: opts.AITimeout,
		logger:    logger,
	}, nil
}

// Scan inspects raw text.
func (p *Pipeline) Scan(ctx context.Context, text string) (*core.ScanResult, error) {
	return p.ScanDocument(ctx, Document{Text: text})
}

// ScanDocument inspects one document. Blank text is rejected before
// fingerprinting; everything after that point produces a result. A cache
// hit returns the prior result marked Cached without invoking the AI
// detector. Concurrent calls with identical text share one computation.
func (p *Pipeline) ScanDocument(ctx context.Context, doc Document) (*core.ScanResult, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, core.ErrEmptyInput
	}

	fingerprint := core.Fingerprint(doc.Text)

	value, err, _ := p.group.Do(fingerprint, func() (interface{}, error) {
		if cached := p.cache.Get(ctx, fingerprint); cached != nil {
			cached.Cached = true
			p.record(doc.Filename, cached)
			return cached, nil
		}
		return p.compute(ctx, doc, fingerprint)
	})
	if err != nil {
		return nil, err
	}
	return value.(*core.ScanResult), nil
}

// compute runs both detector branches and assembles the result. The
// deterministic branch and the face hook run to completion regardless of
// the AI branch; the AI branch is bounded by the configured timeout and
// degrades to absent on any failure.
func (p *Pipeline) compute(ctx context.Context, doc Document, fingerprint string) (*core.ScanResult, error) {
	var (
		findings   []core.Finding
		assessment *ai.Assessment
		faceSeen   bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		findings = p.matcher.Scan(doc.Text)
		return nil
	})

	g.Go(func() error {
		aiCtx := gctx
		if p.aiTimeout > 0 {
			var cancel context.CancelFunc
			aiCtx, cancel = context.WithTimeout(gctx, p.aiTimeout)
			defer cancel()
		}
		if a, ok := p.analyzer.Analyze(aiCtx, doc.Text); ok {
			assessment = a
		}
		return nil
	})

	if p.faces != nil && doc.Raw != nil {
		g.Go(func() error {
			detected, err := p.faces.DetectFaces(gctx, doc.Raw)
			if err != nil {
				p.logger.Warn("face detection failed, skipping", zap.Error(err))
				return nil
			}
			faceSeen = detected
			return nil
		})
	}

	// No branch returns an error; Wait only joins them.
	_ = g.Wait()

	if faceSeen {
		findings = append(findings, faceFinding())
	}

	deterministic := core.DeterministicScore(findings)

	var aiScore *int
	var aiSummary string
	if assessment != nil {
		score := assessment.RiskScore
		aiScore = &score
		aiSummary = assessment.Summary
		findings = append(findings, assessment.Findings()...)
	}

	fused, level := core.Fuse(deterministic, aiScore)

	result := &core.ScanResult{
		Fingerprint:         fingerprint,
		Findings:            findings,
		DeterministicScore:  deterministic,
		AiScore:             aiScore,
		FusedScore:          fused,
		RiskLevel:           level,
		AiSummary:           aiSummary,
		ExtractedTextSample: ai.Truncate(doc.Text, maxSampleChars),
		CreatedAt:           time.Now().UTC(),
	}

	p.cache.Put(ctx, result)
	p.record(doc.Filename, result)
	return result, nil
}

// record appends to the scan log when one is configured. Failures are
// logged and swallowed; history never fails a scan.
func (p *Pipeline) record(filename string, result *core.ScanResult) {
	if p.history == nil {
		return
	}
	if err := p.history.Record(history.FromResult(filename, result)); err != nil {
		p.logger.Warn("history append failed", zap.Error(err))
	}
}
