package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

type stageCompleter struct {
	mu      sync.Mutex
	answers map[string]string
	err     error // returned for stages without an answer; defaults to ErrModelProviderError
	calls   int
}

func (s *stageCompleter) Complete(ctx context.Context, _ string) (domain.CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if a, ok := s.answers[domain.StageFromContext(ctx)]; ok {
		return domain.CompletionResult{Text: a}, nil
	}
	if s.err != nil {
		return domain.CompletionResult{}, s.err
	}
	return domain.CompletionResult{}, domain.ErrModelProviderError
}

func TestAnswer_AllSpecialists(t *testing.T) {
	llm := &stageCompleter{answers: map[string]string{
		StageConditions:     "```json\n{\"area\":\"渋谷\",\"cuisine\":[\"居酒屋\"],\"priceCategory\":\"\",\"features\":[\"個室あり\"]}\n```",
		StageKeywords:       `{"keywords":["渋谷","個室","居酒屋"]}`,
		StageRecommendation: "個室のある居酒屋なら落ち着いて話せます。",
	}}
	svc := New(llm, 0, zap.NewNop())

	got, err := svc.Answer(context.Background(), "  渋谷で個室のある居酒屋  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.calls != 3 {
		t.Errorf("expected 3 calls, got %d", llm.calls)
	}
	for _, want := range []string{
		"**質問:** 渋谷で個室のある居酒屋",
		`"area": "渋谷"`,
		"- 個室\n",
		"個室のある居酒屋なら落ち着いて話せます。",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("answer missing %q:\n%s", want, got)
		}
	}
	ci := strings.Index(got, "## 検索条件")
	ki := strings.Index(got, "## キーワード")
	ri := strings.Index(got, "## おすすめ")
	if ci < 0 || ci > ki || ki > ri {
		t.Errorf("sections out of order: %d %d %d", ci, ki, ri)
	}
	if strings.Count(got, "---") != 2 {
		t.Errorf("expected 2 separators:\n%s", got)
	}
}

func TestAnswer_PartialFailure(t *testing.T) {
	llm := &stageCompleter{answers: map[string]string{
		StageConditions:     "条件はありません",
		StageRecommendation: "気軽に入れるお店がおすすめです。",
	}}
	svc := New(llm, 1, zap.NewNop())

	got, err := svc.Answer(context.Background(), "気軽なお店")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "## 検索条件") || strings.Contains(got, "## キーワード") {
		t.Errorf("failed sections rendered:\n%s", got)
	}
	if !strings.Contains(got, "## おすすめ") || strings.Contains(got, "---") {
		t.Errorf("unexpected answer:\n%s", got)
	}
}

func TestAnswer_AllFail(t *testing.T) {
	svc := New(&stageCompleter{}, 0, nil)

	_, err := svc.Answer(context.Background(), "渋谷")
	if !errors.Is(err, domain.ErrModelProviderError) {
		t.Fatalf("expected ErrModelProviderError, got %v", err)
	}
}

func TestAnswer_BudgetSpent(t *testing.T) {
	svc := New(&stageCompleter{err: domain.ErrTokenBudgetExceeded}, 0, nil)

	_, err := svc.Answer(context.Background(), "渋谷")
	if !errors.Is(err, domain.ErrTokenBudgetExceeded) {
		t.Fatalf("expected ErrTokenBudgetExceeded, got %v", err)
	}
	if !errors.Is(err, domain.ErrModelProviderError) {
		t.Errorf("expected ErrModelProviderError to stay in the chain, got %v", err)
	}
}

func TestAnswer_EmptyPrompt(t *testing.T) {
	llm := &stageCompleter{}
	svc := New(llm, 0, nil)

	_, err := svc.Answer(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if llm.calls != 0 {
		t.Errorf("expected no model call")
	}
}
