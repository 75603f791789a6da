package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/purrmodoro/internal/domain"
)

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:   endpoint,
		Model:      "gemini-2.5-flash",
		APIKey:     "test-key",
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}
}

func replyWith(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
}

func TestClient_FetchQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, FocusPrompt, req.Contents[0].Parts[0].Text)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		assert.Equal(t, []string{"happy", "sleepy", "focused", "playful"}, req.GenerationConfig.ResponseSchema.Properties["mood"].Enum)

		replyWith(w, `{"text":"Eyes on the yarn, human.","mood":"focused"}`)
	}))
	defer srv.Close()

	quote, err := NewClient(testConfig(srv.URL), nil).FetchQuote(context.Background(), domain.ModeWork)
	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Text: "Eyes on the yarn, human.", Mood: domain.MoodFocused}, quote)
}

func TestClient_FetchQuote_BreakPromptAndFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, BreakPrompt, req.Contents[0].Parts[0].Text)

		replyWith(w, "```json\n{\"text\":\"Nap time {obviously}.\",\"mood\":\"sleepy\"}\n```")
	}))
	defer srv.Close()

	quote, err := NewClient(testConfig(srv.URL), nil).FetchQuote(context.Background(), domain.ModeLongBreak)
	require.NoError(t, err)
	assert.Equal(t, "Nap time {obviously}.", quote.Text)
	assert.Equal(t, domain.MoodSleepy, quote.Mood)
}

func TestClient_FetchQuote_Non200Retries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "overloaded")
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchQuote(context.Background(), domain.ModeWork)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_FetchQuote_RetriesBackOff(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	cfg.RetryBackoff = 40 * time.Millisecond
	_, err := NewClient(cfg, nil).FetchQuote(context.Background(), domain.ModeWork)
	assert.ErrorIs(t, err, ErrRetryExhausted)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, times[2].Sub(times[1]), 80*time.Millisecond)
}

func TestClient_FetchQuote_CancelStopsBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 30 * time.Second
	cfg.MaxRetries = 3
	cfg.RetryBackoff = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewClient(cfg, nil).FetchQuote(ctx, domain.ModeWork)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchQuote_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), nil).FetchQuote(context.Background(), domain.ModeWork)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchQuote_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	_, err := NewClient(cfg, nil).FetchQuote(context.Background(), domain.ModeWork)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_FetchQuote_InvalidOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply func(w http.ResponseWriter)
	}{
		{"not json", func(w http.ResponseWriter) { fmt.Fprint(w, "<html>") }},
		{"no candidates", func(w http.ResponseWriter) { fmt.Fprint(w, `{"candidates":[]}`) }},
		{"prose only", func(w http.ResponseWriter) { replyWith(w, "meow meow") }},
		{"empty text", func(w http.ResponseWriter) { replyWith(w, `{"text":"","mood":"happy"}`) }},
		{"unknown mood", func(w http.ResponseWriter) { replyWith(w, `{"text":"Hi","mood":"angry"}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.reply(w)
			}))
			defer srv.Close()

			_, err := NewClient(testConfig(srv.URL), nil).FetchQuote(context.Background(), domain.ModeWork)
			assert.ErrorIs(t, err, ErrInvalidOutput)
			assert.Equal(t, int32(1), calls.Load(), "invalid output is not retried")
		})
	}
}

func TestClient_FetchQuote_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(testConfig(endpoint), nil).FetchQuote(context.Background(), domain.ModeWork)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_FetchQuote_NoAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	_, err := NewClient(cfg, nil).FetchQuote(context.Background(), domain.ModeWork)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Quote
		wantErr bool
	}{
		{"plain", `{"text":"a","mood":"happy"}`, domain.Quote{Text: "a", Mood: domain.MoodHappy}, false},
		{"fenced", "```json\n{\"text\":\"b\",\"mood\":\"sleepy\"}\n```", domain.Quote{Text: "b", Mood: domain.MoodSleepy}, false},
		{"surrounding prose", `Sure! {"text":"c \"quoted\"","mood":"playful"} Enjoy.`, domain.Quote{Text: `c "quoted"`, Mood: domain.MoodPlayful}, false},
		{"no object", "purr", domain.Quote{}, true},
		{"unbalanced", `{"text":"d"`, domain.Quote{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON[domain.Quote](tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptFor(t *testing.T) {
	assert.Equal(t, FocusPrompt, PromptFor(domain.ModeWork))
	assert.Equal(t, BreakPrompt, PromptFor(domain.ModeShortBreak))
	assert.Equal(t, BreakPrompt, PromptFor(domain.ModeLongBreak))
}
