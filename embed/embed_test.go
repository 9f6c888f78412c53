package embed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rushteam/courserec/core"
)

type fakeEmbeddings struct {
	failures int
	calls    int
	gotModel openai.EmbeddingModel
}

func (f *fakeEmbeddings) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.calls++
	req := conv.Convert()
	f.gotModel = req.Model
	if f.calls <= f.failures {
		return openai.EmbeddingResponse{}, errors.New("rate limited")
	}
	return openai.EmbeddingResponse{Data: []openai.Embedding{{Embedding: []float32{0.5, -1}}}}, nil
}

func TestOpenAIRetries(t *testing.T) {
	fake := &fakeEmbeddings{failures: 2}
	e := newOpenAI(fake, OpenAIConfig{MaxRetries: 3, RetryDelay: time.Microsecond})
	vec, err := e.Embed(context.Background(), "Go for beginners")
	if err != nil {
		t.Fatal(err)
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3", fake.calls)
	}
	if fake.gotModel != DefaultModel {
		t.Errorf("model = %q", fake.gotModel)
	}
	if len(vec) != 2 || vec[0] != 0.5 || vec[1] != -1 {
		t.Errorf("vector = %v", vec)
	}
}

func TestOpenAIGivesUp(t *testing.T) {
	fake := &fakeEmbeddings{failures: 10}
	e := newOpenAI(fake, OpenAIConfig{MaxRetries: 1, RetryDelay: time.Microsecond})
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 2 {
		t.Errorf("calls = %d, want 2", fake.calls)
	}
	if _, err := NewOpenAI(OpenAIConfig{}); !core.IsInvalidInput(err) {
		t.Errorf("missing api key err = %v", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	if d := calculateBackoff(time.Second, 0); d != 0 {
		t.Errorf("attempt 0 = %v", d)
	}
	d := calculateBackoff(time.Second, 1)
	if d < 1500*time.Millisecond || d > 2500*time.Millisecond {
		t.Errorf("attempt 1 = %v, want 2s ±25%%", d)
	}
	if d := calculateBackoff(time.Second, 100); d > 37500*time.Millisecond {
		t.Errorf("capped backoff = %v", d)
	}
}

func TestCached(t *testing.T) {
	calls := 0
	inner := core.EmbedFunc(func(_ context.Context, text string) ([]float64, error) {
		calls++
		return []float64{float64(len(text)), float64(calls)}, nil
	})
	c := NewCached(inner)
	a, _ := c.Embed(context.Background(), "abc")
	b, _ := c.Embed(context.Background(), "abc")
	if calls != 1 || a[1] != b[1] {
		t.Errorf("identical text should hit the cache: calls=%d a=%v b=%v", calls, a, b)
	}
	_, _ = c.Embed(context.Background(), "other")
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestLookup(t *testing.T) {
	catalog, _ := core.NewCatalog([]core.Course{
		{ID: 1, Title: "Go", Description: "Concurrency"},
		{ID: 2, Title: "No vector"},
	})
	store, _ := core.NewEmbeddingStore([]int64{1}, [][]float64{{1, 2}})
	l := NewLookup(catalog, store)

	vec, err := l.Embed(context.Background(), "Go. Concurrency")
	if err != nil || vec[1] != 2 {
		t.Errorf("Embed = %v, %v", vec, err)
	}
	if _, err := l.Embed(context.Background(), "No vector"); !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
