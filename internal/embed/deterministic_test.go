package embed

import (
	"context"
	"testing"
)

func TestDeterministic_SameInputSameVector(t *testing.T) {
	e := NewDeterministic(64)

	a, err := e.Embed(context.Background(), "Rust memory safety")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Embed(context.Background(), "Rust memory safety")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Embedding) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a.Embedding))
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("vectors differ at dimension %d: %v vs %v", i, a.Embedding[i], b.Embedding[i])
		}
	}
}

func TestDeterministic_DistinctInputsDiffer(t *testing.T) {
	e := NewDeterministic(64)

	a, _ := e.Embed(context.Background(), "Go concurrency patterns")
	b, _ := e.Embed(context.Background(), "Rust ownership model")

	same := true
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different texts to produce different vectors")
	}
}

func TestDeterministic_ValuesInUnitRange(t *testing.T) {
	e := NewDeterministic(128)

	res, _ := e.Embed(context.Background(), "widget")
	for i, v := range res.Embedding {
		if v < 0 || v > 1 {
			t.Fatalf("dimension %d out of [0,1]: %v", i, v)
		}
	}
}

func TestDeterministic_DefaultDimensions(t *testing.T) {
	e := NewDeterministic(0)

	res, _ := e.Embed(context.Background(), "x")
	if len(res.Embedding) != 1536 {
		t.Fatalf("expected default 1536 dimensions, got %d", len(res.Embedding))
	}
}

func TestTextHash_Rolling(t *testing.T) {
	// h("ab") = 31*'a' + 'b'
	if got, want := textHash("ab"), int32(31*97+98); got != want {
		t.Errorf("textHash(ab) = %d, want %d", got, want)
	}
	if textHash("") != 0 {
		t.Errorf("textHash of empty string should be 0")
	}
}
