package embed

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/forumlab/forumsearch/internal/domain"
)

type stubProvider struct {
	vec    []float32
	err    error
	called bool
}

func (s *stubProvider) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.called = true
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: s.vec, TotalTokens: 7}, nil
}

func TestDegrading_NilProviderUsesFallback(t *testing.T) {
	fallback := NewDeterministic(16)
	e := NewDegrading(nil, fallback, zap.NewNop())

	got, err := e.Embed(context.Background(), "widget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := fallback.Embed(context.Background(), "widget")
	for i := range want.Embedding {
		if got.Embedding[i] != want.Embedding[i] {
			t.Fatal("expected deterministic fallback vector")
		}
	}
}

func TestDegrading_ProviderErrorAbsorbed(t *testing.T) {
	provider := &stubProvider{err: errors.New("remote 503")}
	fallback := NewDeterministic(16)
	e := NewDegrading(provider, fallback, zap.NewNop())

	got, err := e.Embed(context.Background(), "widget")
	if err != nil {
		t.Fatalf("provider errors must not propagate, got %v", err)
	}
	if !provider.called {
		t.Error("expected provider to be attempted first")
	}

	want, _ := fallback.Embed(context.Background(), "widget")
	for i := range want.Embedding {
		if got.Embedding[i] != want.Embedding[i] {
			t.Fatal("expected deterministic fallback vector after provider failure")
		}
	}
}

func TestDegrading_ProviderResultPassedThrough(t *testing.T) {
	provider := &stubProvider{vec: []float32{0.25, 0.75}}
	e := NewDegrading(provider, NewDeterministic(2), zap.NewNop())

	got, err := e.Embed(context.Background(), "widget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Embedding[0] != 0.25 || got.Embedding[1] != 0.75 {
		t.Errorf("expected provider vector, got %v", got.Embedding)
	}
	if got.TotalTokens != 7 {
		t.Errorf("expected token usage preserved, got %d", got.TotalTokens)
	}
}
