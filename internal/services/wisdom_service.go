package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// WisdomService wraps a QuoteSource so that callers always get a quote.
type WisdomService struct {
	source  ports.QuoteSource
	enabled bool
	logger  *slog.Logger
}

// NewWisdomService creates a wisdom service. A nil source behaves as disabled.
func NewWisdomService(source ports.QuoteSource, enabled bool, logger *slog.Logger) *WisdomService {
	return &WisdomService{
		source:  source,
		enabled: enabled && source != nil,
		logger:  loggerOrDiscard(logger),
	}
}

// FetchWisdom returns a quote for mode. Any failure, including an empty or
// unrecognised reply, yields domain.FallbackQuote.
func (s *WisdomService) FetchWisdom(ctx context.Context, mode domain.Mode) domain.Quote {
	if !s.enabled {
		return domain.FallbackQuote()
	}

	start := time.Now()
	quote, err := s.source.FetchQuote(ctx, mode)
	if err == nil {
		err = quote.Validate()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "wisdom_fetch",
			"mode", string(mode),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return domain.FallbackQuote()
	}

	s.logger.DebugContext(ctx, "wisdom_fetch",
		"mode", string(mode),
		"duration_ms", time.Since(start).Milliseconds(),
		"mood", string(quote.Mood),
	)
	return quote
}
