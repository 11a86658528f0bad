package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/parser"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"
	"github.com/panpapadopoulos/cooking/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTimeout = 60 * time.Second

// Service parses with a model when one is configured and falls back to the
// heuristic parser otherwise. The fallback path is always reachable.
type Service struct {
	extractor Extractor
	fallback  recipe.Parser
	cache     *Cache
	limiter   *rate.Limiter
	registry  *units.Registry
	timeout   time.Duration
}

var _ recipe.Parser = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithCache enables the response cache.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLimiter gates model calls. Calls refused by the limiter fall back.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithFallback replaces the heuristic parser.
func WithFallback(p recipe.Parser) Option {
	return func(s *Service) { s.fallback = p }
}

// WithRegistry sets the unit table used to normalize model output.
func WithRegistry(reg *units.Registry) Option {
	return func(s *Service) { s.registry = reg }
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService wraps extractor, which may be nil when no model is set up.
func NewService(extractor Extractor, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		fallback:  parser.Default(),
		registry:  units.Default(),
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether model calls will be attempted.
func (s *Service) Configured() bool {
	return s.extractor != nil && s.extractor.Configured()
}

// CacheStats exposes the response cache counters.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// SmartParse structures text with the model and, on any failure, with the
// heuristic parser. The returned error is non-nil only when ctx is done.
func (s *Service) SmartParse(ctx context.Context, text string, hint language.Hint) (*Result, error) {
	key := CacheKey(text, hint)
	if r, ok := s.cache.Get(key); ok {
		r.OriginalText = text
		metrics.ObserveParse(Name, "cached")
		return &Result{Recipe: r, Parser: Name, Cached: true, Warnings: []Advisory{}}, nil
	}

	if !s.Configured() {
		return s.fallbackParse(ctx, text, hint, ErrNoCredential)
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return s.fallbackParse(ctx, text, hint, ErrRateLimited)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	ex, err := s.extractor.Extract(callCtx, text, hint)
	common.LogAICall("extract", time.Since(start), err)
	if err != nil {
		return s.fallbackParse(ctx, text, hint, err)
	}

	r := Normalize(s.registry, ex, text, hint)
	if len(r.Ingredients) == 0 && len(r.Instructions) == 0 {
		return s.fallbackParse(ctx, text, hint, ErrMalformedResponse)
	}

	s.cache.Set(key, r)
	metrics.ObserveParse(Name, "ok")
	return &Result{Recipe: r, Parser: Name, Warnings: []Advisory{}}, nil
}

// Parse implements recipe.Parser on top of SmartParse, dropping advisories.
func (s *Service) Parse(ctx context.Context, text string, hint language.Hint) (*recipe.Recipe, error) {
	res, err := s.SmartParse(ctx, text, hint)
	if err != nil {
		return nil, err
	}
	return res.Recipe, nil
}

func (s *Service) fallbackParse(ctx context.Context, text string, hint language.Hint, cause error) (*Result, error) {
	advisory := AdvisoryFor(cause)
	metrics.ObserveFallback(advisory.Code)
	if !errors.Is(cause, ErrNoCredential) {
		common.LogWarn("ai parse failed, using heuristic parser",
			zap.String("reason", advisory.Code),
			zap.Error(cause),
		)
	}

	r, err := s.fallback.Parse(ctx, text, hint)
	if err != nil {
		return nil, err
	}
	metrics.ObserveParse(parser.Name, "fallback")
	return &Result{Recipe: r, Parser: parser.Name, Warnings: []Advisory{advisory}}, nil
}

// Translate renders text in the other language. Unlike parsing it has no
// fallback: callers get ErrNoCredential or ErrRateLimited directly.
func (s *Service) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	if strings.TrimSpace(text) == "" || from == to {
		return text, nil
	}
	if !s.Configured() {
		return "", ErrNoCredential
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return "", ErrRateLimited
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.extractor.Translate(callCtx, text, from, to)
	common.LogAICall("translate", time.Since(start), err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// AdvisoryFor describes why a model parse was abandoned.
func AdvisoryFor(err error) Advisory {
	switch {
	case errors.Is(err, ErrNoCredential):
		return Advisory{Code: "no_credential", Message: "AI parsing is not configured, used the basic parser"}
	case errors.Is(err, ErrRateLimited):
		return Advisory{Code: "rate_limited", Message: "AI parsing is busy, used the basic parser"}
	case errors.Is(err, ErrMalformedResponse):
		return Advisory{Code: "malformed_response", Message: "AI response could not be read, used the basic parser"}
	case errors.Is(err, context.DeadlineExceeded):
		return Advisory{Code: "timeout", Message: "AI parsing timed out, used the basic parser"}
	default:
		return Advisory{Code: "upstream_error", Message: "AI parsing failed, used the basic parser"}
	}
}
