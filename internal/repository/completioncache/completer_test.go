package completioncache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

func TestComplete_CacheMiss(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{
		Text: `{"keywords":["静か"]}`, Model: "model-a", PromptTokens: 12, TotalTokens: 30,
	}}
	cc, ms := newTestCachedCompleter(t, inner, time.Hour)

	var stored []byte
	var storedTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		if !strings.HasPrefix(key, "gourmet:llm_cache:") {
			t.Errorf("unexpected key %q", key)
		}
		stored, storedTTL = value, ttl
		return nil
	}

	res, err := cc.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cached || res.TotalTokens != 30 {
		t.Errorf("result = %+v", res)
	}
	if stored == nil || storedTTL != time.Hour {
		t.Fatalf("expected SETEX with 1h, got %q / %v", stored, storedTTL)
	}
}

func TestComplete_CacheHit(t *testing.T) {
	inner := &mockCompleter{}
	cc, ms := newTestCachedCompleter(t, inner, 0)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte(`{"text":"cached answer","model":"model-b"}`), nil
	}

	res, err := cc.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Cached || res.Text != "cached answer" || res.Model != "model-b" {
		t.Errorf("result = %+v", res)
	}
	if res.TotalTokens != 0 {
		t.Errorf("expected zero tokens on hit, got %d", res.TotalTokens)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times", inner.calls)
	}
}

func TestComplete_NoTTLKeepsEntry(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: "ok"}}
	cc, ms := newTestCachedCompleter(t, inner, 0)

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		setCalled = true
		if ttl != 0 {
			t.Errorf("ttl = %v, want 0", ttl)
		}
		return nil
	}

	if _, err := cc.Complete(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}
	if !setCalled {
		t.Error("expected SET")
	}
}

func TestComplete_InnerError(t *testing.T) {
	inner := &mockCompleter{err: domain.ErrRateLimited}
	cc, ms := newTestCachedCompleter(t, inner, time.Hour)
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Error("failed completions must not be cached")
		return nil
	}

	_, err := cc.Complete(context.Background(), "p")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestComplete_StoreErrorsAreIgnored(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: "fresh"}}
	cc, ms := newTestCachedCompleter(t, inner, time.Hour)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("conn reset") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("conn reset") }

	res, err := cc.Complete(context.Background(), "p")
	if err != nil || res.Text != "fresh" {
		t.Fatalf("Complete = %+v, %v", res, err)
	}
}

func TestComplete_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: "fresh"}}
	cc, ms := newTestCachedCompleter(t, inner, time.Hour)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("not json"), nil }

	res, err := cc.Complete(context.Background(), "p")
	if err != nil || res.Text != "fresh" || inner.calls != 1 {
		t.Fatalf("Complete = %+v, %v (calls %d)", res, err, inner.calls)
	}
}

func TestCacheKey_NamespaceSeparates(t *testing.T) {
	a := New(&mockCompleter{}, &mockKVStore{}, "model-a", 0, nil, zap.NewNop())
	b := New(&mockCompleter{}, &mockKVStore{}, "model-b", 0, nil, zap.NewNop())

	if a.cacheKey("same prompt") == b.cacheKey("same prompt") {
		t.Error("different namespaces must not share keys")
	}
	if a.cacheKey("p1") == a.cacheKey("p2") {
		t.Error("different prompts must not share keys")
	}
}

func TestComplete_RejectedAnswerNotCached(t *testing.T) {
	mustBeJSON := func(text string) error {
		if !strings.HasPrefix(text, "{") {
			return errors.New("not an object")
		}
		return nil
	}
	ctx := domain.ContextWithAnswerCheck(context.Background(), mustBeJSON)

	kv := map[string][]byte{}
	inner := &mockCompleter{result: domain.CompletionResult{Text: "すみません、わかりません。"}}
	cc, ms := newTestCachedCompleter(t, inner, time.Hour)
	ms.getFn = func(_ context.Context, key string) ([]byte, error) { return kv[key], nil }
	ms.setFn = func(_ context.Context, key string, value []byte, _ time.Duration) error {
		kv[key] = value
		return nil
	}

	res, err := cc.Complete(ctx, "prompt")
	if err != nil || res.Text != "すみません、わかりません。" {
		t.Fatalf("Complete = %+v, %v", res, err)
	}
	if len(kv) != 0 {
		t.Fatalf("rejected answer stored: %q", kv)
	}

	inner.result = domain.CompletionResult{Text: `{"keywords":["個室"]}`}
	if res, _ = cc.Complete(ctx, "prompt"); res.Cached || inner.calls != 2 {
		t.Fatalf("second call: cached=%v inner calls=%d", res.Cached, inner.calls)
	}
	if res, _ = cc.Complete(ctx, "prompt"); !res.Cached || inner.calls != 2 {
		t.Errorf("third call: cached=%v inner calls=%d, want a hit", res.Cached, inner.calls)
	}
}

func TestComplete_StaleEntryFailingCheckIsMiss(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: `{"ok":true}`}}
	cc, ms := newTestCachedCompleter(t, inner, 0)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte(`{"text":"prose","model":"model-a"}`), nil
	}
	var overwritten bool
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		overwritten = true
		return nil
	}

	ctx := domain.ContextWithAnswerCheck(context.Background(), func(text string) error {
		if text == "prose" {
			return errors.New("prose")
		}
		return nil
	})
	res, err := cc.Complete(ctx, "prompt")
	if err != nil || res.Cached || res.Text != `{"ok":true}` {
		t.Fatalf("Complete = %+v, %v", res, err)
	}
	if !overwritten {
		t.Error("valid answer must replace the stale entry")
	}
}
