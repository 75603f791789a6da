package ports

import (
	"context"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// QuoteSource produces a quote for the given mode and may fail.
// This is a driven port (implemented by adapters).
type QuoteSource interface {
	FetchQuote(ctx context.Context, mode domain.Mode) (domain.Quote, error)
}

// WisdomProvider always yields a quote, substituting a fallback on failure.
type WisdomProvider interface {
	FetchWisdom(ctx context.Context, mode domain.Mode) domain.Quote
}
