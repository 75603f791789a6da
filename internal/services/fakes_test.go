package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

type memoryPrefs struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
	failSet bool
}

func newMemoryPrefs() *memoryPrefs {
	return &memoryPrefs{values: make(map[string]string)}
}

func (m *memoryPrefs) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryPrefs) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("quota exceeded")
	}
	m.values[key] = value
	return nil
}

type memoryHistory struct {
	mu          sync.Mutex
	completions []*domain.Completion
	fail        bool
}

func (m *memoryHistory) Save(ctx context.Context, c *domain.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk full")
	}
	m.completions = append(m.completions, c)
	return nil
}

func (m *memoryHistory) FindByID(ctx context.Context, id string) (*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.completions {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (m *memoryHistory) FindRecent(ctx context.Context, since time.Time) ([]*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Completion
	for _, c := range m.completions {
		if !c.CompletedAt.Before(since) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (m *memoryHistory) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	day, _ := m.FindRecent(ctx, start)
	var today []*domain.Completion
	for _, c := range day {
		if c.CompletedAt.Before(start.AddDate(0, 0, 1)) {
			today = append(today, c)
		}
	}
	stats := domain.Summarize(today)
	return &stats, nil
}

func (m *memoryHistory) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.completions)
}

type recordingSound struct {
	mu    sync.Mutex
	clips []string
	err   error
	// onPlay runs after the clip is recorded, standing in for a user acting
	// while the sound plays.
	onPlay func()
}

func (r *recordingSound) Play(clip string) error {
	r.mu.Lock()
	r.clips = append(r.clips, clip)
	err, onPlay := r.err, r.onPlay
	r.mu.Unlock()

	if onPlay != nil {
		onPlay()
	}
	return err
}

func (r *recordingSound) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clips)
}

type notification struct {
	title, body, icon string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (r *recordingNotifier) Notify(title, body, icon string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{title, body, icon})
	return r.err
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.sent...)
}

type stubGit struct {
	info *ports.GitInfo
	err  error
}

func (s stubGit) Detect(ctx context.Context, dir string) (*ports.GitInfo, error) {
	return s.info, s.err
}

type stubQuoteSource struct {
	quote domain.Quote
	err   error
	calls int
}

func (s *stubQuoteSource) FetchQuote(ctx context.Context, mode domain.Mode) (domain.Quote, error) {
	s.calls++
	return s.quote, s.err
}

var (
	_ ports.PreferenceStore   = (*memoryPrefs)(nil)
	_ ports.HistoryRepository = (*memoryHistory)(nil)
	_ ports.SoundPlayer       = (*recordingSound)(nil)
	_ ports.Notifier          = (*recordingNotifier)(nil)
	_ ports.GitDetector       = stubGit{}
	_ ports.QuoteSource       = (*stubQuoteSource)(nil)
)
