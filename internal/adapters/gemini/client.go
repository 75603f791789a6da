// Package gemini implements ports.QuoteSource on the Gemini generateContent
// REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// Prompts sent for focus and break modes.
const (
	FocusPrompt = "Generate a very short (max 15 words), cute, motivating sentence from a cat to a human who needs to focus. The cat is encouraging. Return JSON."
	BreakPrompt = "Generate a very short (max 15 words), cute, funny sentence from a cat to a human who is taking a break. The cat is sleepy or playful. Return JSON."
)

// defaultRetryBackoff is the pause before the first retry. Later retries
// wait a multiple of it.
const defaultRetryBackoff = 250 * time.Millisecond

// Config holds the connection settings of the client.
type Config struct {
	Endpoint   string
	Model      string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// RetryBackoff is the pause before retry n, multiplied by n.
	RetryBackoff time.Duration
}

// Client fetches cat wisdom from Gemini.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// Ensure Client implements ports.QuoteSource.
var _ ports.QuoteSource = (*Client)(nil)

// NewClient creates a Gemini client. A nil logger discards call logs.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
	}
}

// PromptFor returns the prompt sent for mode.
func PromptFor(mode domain.Mode) string {
	if mode == domain.ModeWork {
		return FocusPrompt
	}
	return BreakPrompt
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
	ResponseSchema   schema `json:"responseSchema"`
}

type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
	Enum       []string          `json:"enum,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// statusError is a non-200 reply.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func quoteSchema() schema {
	moods := make([]string, 0, len(domain.Moods))
	for _, m := range domain.Moods {
		moods = append(moods, string(m))
	}
	return schema{
		Type: "OBJECT",
		Properties: map[string]schema{
			"text": {Type: "STRING"},
			"mood": {Type: "STRING", Enum: moods},
		},
		Required: []string{"text", "mood"},
	}
}

// FetchQuote asks the model for a quote matching mode.
func (c *Client) FetchQuote(ctx context.Context, mode domain.Mode) (domain.Quote, error) {
	if c.cfg.APIKey == "" {
		return domain.Quote{}, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: PromptFor(mode)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   quoteSchema(),
		},
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		quote, err := c.doRequest(ctx, body)
		if err == nil {
			c.observe(ctx, mode, start, nil)
			return quote, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout, bad output or client errors
		if ctx.Err() != nil || errors.Is(err, ErrInvalidOutput) {
			break
		}
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
		if i+1 < attempts && !c.wait(ctx, time.Duration(i+1)*c.cfg.RetryBackoff) {
			break
		}
	}

	err := c.classify(ctx, lastErr, attempts)
	c.observe(ctx, mode, start, err)
	return domain.Quote{}, err
}

// wait pauses for d and reports false when ctx ends first.
func (c *Client) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) classify(ctx context.Context, err error, attempts int) error {
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.Is(err, ErrInvalidOutput):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case attempts > 1:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	default:
		return err
	}
}

func (c *Client) doRequest(ctx context.Context, body generateRequest) (domain.Quote, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.Endpoint, c.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Quote{}, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return domain.Quote{}, &statusError{code: httpResp.StatusCode, body: string(respBody)}
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.Quote{}, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}

	quote, err := ExtractJSON[domain.Quote](resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return domain.Quote{}, err
	}
	if err := quote.Validate(); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return quote, nil
}

func (c *Client) observe(ctx context.Context, mode domain.Mode, start time.Time, err error) {
	attrs := []any{
		"model", c.cfg.Model,
		"mode", string(mode),
		"latency_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	}
	if err != nil {
		attrs = append(attrs, "error_code", errorCode(err), "error", err.Error())
		c.logger.WarnContext(ctx, "gemini_call", attrs...)
		return
	}
	c.logger.DebugContext(ctx, "gemini_call", attrs...)
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
