package embedding_test

import (
	"context"
	"math"
	"testing"

	"textile-assistant/internal/embedding"
)

func TestHashEmbedder_Embed(t *testing.T) {
	e := embedding.NewHashEmbedder(64)
	ctx := context.Background()

	vecs, err := e.Embed(ctx, []string{"cotton yarn from sakthi", "cotton yarn from sakthi", "silk thread"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}

	t.Run("dimension", func(t *testing.T) {
		for i, v := range vecs {
			if len(v) != 64 {
				t.Errorf("vecs[%d] has %d dims, want 64", i, len(v))
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		for i := range vecs[0] {
			if vecs[0][i] != vecs[1][i] {
				t.Fatalf("same text produced different vectors at dim %d", i)
			}
		}
	})

	t.Run("unit norm", func(t *testing.T) {
		var norm float64
		for _, v := range vecs[0] {
			norm += v * v
		}
		if math.Abs(norm-1) > 1e-9 {
			t.Errorf("squared norm = %v, want 1", norm)
		}
	})

	t.Run("distinct texts differ", func(t *testing.T) {
		same := true
		for i := range vecs[0] {
			if vecs[0][i] != vecs[2][i] {
				same = false
				break
			}
		}
		if same {
			t.Errorf("unrelated texts produced identical vectors")
		}
	})
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	e := embedding.NewHashEmbedder(16)
	vecs, err := e.Embed(context.Background(), []string{""})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i, v := range vecs[0] {
		if v != 0 {
			t.Fatalf("empty text has non-zero component at %d", i)
		}
	}
}

func TestHashEmbedder_DefaultDimension(t *testing.T) {
	e := embedding.NewHashEmbedder(0)
	if e.Dimension() != 256 {
		t.Errorf("Dimension = %d, want 256", e.Dimension())
	}
}
