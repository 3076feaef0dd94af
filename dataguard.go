// Package dataguard assembles the sensitive-data scanner: deterministic
// pattern detection, optional AI detection, score fusion, caching,
// redaction, and scan history behind one facade.
package dataguard

import (
	"context"
	"fmt"
	"os"

	"github.com/SamuelRCrider/dataguard-go/ai"
	"github.com/SamuelRCrider/dataguard-go/cache"
	"github.com/SamuelRCrider/dataguard-go/config"
	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/SamuelRCrider/dataguard-go/extract"
	"github.com/SamuelRCrider/dataguard-go/history"
	"github.com/SamuelRCrider/dataguard-go/pipeline"
	"go.uber.org/zap"
)

// Service is a fully wired scanner. Build one with NewService and reuse it;
// it is safe for concurrent use.
type Service struct {
	pipeline *pipeline.Pipeline
	registry *extract.Registry
	history  *history.Log
	redis    *cache.Redis
	logger   *zap.Logger
}

// NewService wires a Service from configuration. A nil cfg uses defaults:
// in-memory cache, built-in detectors, no AI provider, no history.
func NewService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	patterns := cfg.Detector.CustomPatterns
	if cfg.Detector.PatternsFile != "" {
		loaded, err := core.LoadCustomPatterns(cfg.Detector.PatternsFile)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, loaded...)
	}

	matcher, err := core.NewPatternMatcher(core.MatcherConfig{
		GenericTokenMinLength: cfg.Detector.GenericTokenMinLength,
		DisableGenericToken:   cfg.Detector.DisableGenericToken,
		CustomPatterns:        patterns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern matcher: %w", err)
	}

	svc := &Service{
		registry: extract.NewRegistry(),
		logger:   logger,
	}

	store, err := svc.buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.History.Path != "" {
		log, err := history.Open(cfg.History.Path, cfg.History.RotationSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open scan history: %w", err)
		}
		svc.history = log
	}

	p, err := pipeline.New(pipeline.Options{
		Matcher:   matcher,
		Analyzer:  analyzer,
		Cache:     cache.NewResultCache(store, cfg.Cache.TTL, logger),
		History:   svc.history,
		AITimeout: cfg.AI.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	svc.pipeline = p

	return svc, nil
}

// buildStore selects the cache backend. An unreachable redis degrades to
// the in-memory backend rather than failing startup.
func (s *Service) buildStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNoop(), nil
	case "redis":
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			s.logger.Warn("redis unavailable, falling back to in-memory cache",
				zap.String("addr", cfg.Cache.Addr), zap.Error(err))
			return cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
		}
		s.redis = r
		return r, nil
	default:
		return cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
	}
}

func buildAnalyzer(cfg *config.Config, logger *zap.Logger) (*ai.Analyzer, error) {
	switch cfg.AI.Provider {
	case "none":
		return nil, nil
	case "gemini":
		client, err := ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build gemini client: %w", err)
		}
		return ai.NewAnalyzer(client, logger), nil
	case "mcp":
		client, err := ai.NewMCPClient(ai.MCPConfig{
			ServerPath: cfg.AI.MCPServerPath,
			ToolName:   cfg.AI.MCPToolName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build MCP client: %w", err)
		}
		return ai.NewAnalyzer(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// RegisterExtractor adds a text-extraction backend, letting callers plug in
// PDF, DOCX, or OCR parsers.
func (s *Service) RegisterExtractor(b extract.Backend) {
	s.registry.Register(b)
}

// ScanText scans raw text.
func (s *Service) ScanText(ctx context.Context, text string) (*core.ScanResult, error) {
	return s.pipeline.Scan(ctx, text)
}

// ScanFile reads a file, extracts its text, and scans it. Files whose
// format has no registered backend fail with *extract.UnsupportedFormatError.
func (s *Service) ScanFile(ctx context.Context, path string) (*core.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := s.registry.Extract(ctx, path, data)
	if err != nil {
		return nil, err
	}

	return s.pipeline.ScanDocument(ctx, pipeline.Document{
		Filename: path,
		Text:     text,
		Raw:      data,
	})
}

// Redact masks every deterministic finding of a result in the given text.
func (s *Service) Redact(text string, result *core.ScanResult, style core.Style) (string, error) {
	return core.Redact(text, result.Findings, style)
}

// RecentScans returns up to n history entries, newest first. It returns
// nothing when history is disabled.
func (s *Service) RecentScans(n int) ([]history.Entry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(n)
}

// Close releases the history log and any cache connections.
func (s *Service) Close() error {
	var firstErr error
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			firstErr = err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ScanText scans raw text with a default-configured service. Library
// callers that need caching across calls or an AI provider should build a
// Service instead.
func ScanText(ctx context.Context, text string) (*core.ScanResult, error) {
	svc, err := NewService(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return svc.ScanText(ctx, text)
}

// RedactText scans text and returns it with every finding masked in the
// given style.
func RedactText(ctx context.Context, text string, style core.Style) (string, error) {
	result, err := ScanText(ctx, text)
	if err != nil {
		return "", err
	}
	return core.Redact(text, result.Findings, style)
}
