package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

const testKey = "test-key"

type mockSearcher struct {
	searchFn func(ctx context.Context, req searchuc.Request) (result.Result, error)
	last     searchuc.Request
	calls    int
}

func (m *mockSearcher) Search(ctx context.Context, req searchuc.Request) (result.Result, error) {
	m.calls++
	m.last = req
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return result.New(nil, "", "", nil), nil
}

type mockAssistant struct {
	answerFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockAssistant) Answer(ctx context.Context, prompt string) (string, error) {
	if m.answerFn != nil {
		return m.answerFn(ctx, prompt)
	}
	return "", nil
}

type mockQueries struct {
	entries []query.LogEntry
	today   int64
	err     error
	limit   int
}

func (m *mockQueries) Recent(_ context.Context, limit int) ([]query.LogEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

func (m *mockQueries) CountOn(_ context.Context, _ time.Time) (int64, error) {
	return m.today, m.err
}

type mockUsage struct {
	period domusage.Period
	report domusage.Report
}

func (m *mockUsage) Report(_ context.Context, period domusage.Period) domusage.Report {
	m.period = period
	return m.report
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// memRepo is an in-memory restaurant repository.
type memRepo struct {
	mu   sync.Mutex
	recs map[string]domrest.Restaurant
}

func newMemRepo() *memRepo {
	return &memRepo{recs: make(map[string]domrest.Restaurant)}
}

func (m *memRepo) Create(_ context.Context, r *domrest.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[r.ID()] = *r
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (domrest.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return domrest.Restaurant{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) List(context.Context) ([]domrest.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domrest.Restaurant, 0, len(m.recs))
	for _, r := range m.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, r *domrest.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[r.ID()]; !ok {
		return domain.ErrNotFound
	}
	m.recs[r.ID()] = *r
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

type testEnv struct {
	handler   http.Handler
	search    *mockSearcher
	assistant *mockAssistant
	queries   *mockQueries
	usage     *mockUsage
	health    *mockHealth
	repo      *memRepo
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		search:    &mockSearcher{},
		assistant: &mockAssistant{},
		queries:   &mockQueries{},
		usage:     &mockUsage{},
		health:    &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}},
		repo:      newMemRepo(),
	}
	srv := NewServer(Deps{
		Search:      env.search,
		Assistant:   env.assistant,
		Restaurants: restaurantuc.New(env.repo),
		Queries:     env.queries,
		Usage:       env.usage,
		Health:      env.health,
	}, opts, nil)
	env.handler = NewRouter(srv, []string{testKey}, nil)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (status %d): %v", rr.Code, err)
	}
	return v
}
