package gather

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

// The claude family uses the heuristic path, so these tests never need a
// tokenizer download.

func TestEstimateEmptyText(t *testing.T) {
	est := NewEstimator(zap.NewNop())
	got := est.Estimate("", []string{"claude-4-sonnet", "unknown-model"})
	for model, n := range got {
		if n != 0 {
			t.Fatalf("estimate for %s on empty text = %d, want 0", model, n)
		}
	}
}

func TestEstimateNonNegativeAndPositive(t *testing.T) {
	est := NewEstimator(zap.NewNop())
	got := est.Estimate("x", []string{"claude-4-sonnet"})
	if got["claude-4-sonnet"] < 1 {
		t.Fatalf("non-empty text must estimate at least one token, got %d", got["claude-4-sonnet"])
	}
}

func TestEstimateMonotoneOverAppendedBlocks(t *testing.T) {
	est := NewEstimator(zap.NewNop())

	doc := NewDocument(0)
	doc.Append("a.txt", "some plain text content here")
	small := est.Estimate(doc.Render(""), []string{"claude-4-sonnet"})["claude-4-sonnet"]

	doc.Append("b.txt", "and a second file with more words in it")
	large := est.Estimate(doc.Render(""), []string{"claude-4-sonnet"})["claude-4-sonnet"]

	if large < small {
		t.Fatalf("estimate shrank after appending a block: %d -> %d", small, large)
	}
}

func TestEstimateUnknownModelFallback(t *testing.T) {
	est := NewEstimator(zap.NewNop())
	text := strings.Repeat("abcd", 25) // 100 chars
	got := est.Estimate(text, []string{"some-future-model"})
	if got["some-future-model"] != 25 {
		t.Fatalf("unknown model should use chars/4: got %d, want 25", got["some-future-model"])
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost(1000, "claude-4-sonnet")
	if !ok {
		t.Fatalf("claude-4-sonnet should be priced")
	}
	// 1000 in-tokens at $0.003/1K plus 100 out-tokens at $0.015/1K.
	want := 0.003 + 0.0015
	if diff := cost - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("cost = %f, want %f", cost, want)
	}

	if _, ok := EstimateCost(1000, "some-future-model"); ok {
		t.Fatalf("unpriced model must report ok=false")
	}
}

func TestFormatCost(t *testing.T) {
	cases := map[float64]string{
		0.0042: "$0.0042",
		0.042:  "$0.042",
		0.42:   "$0.42",
		4.2:    "$4.20",
	}
	for in, want := range cases {
		if got := FormatCost(in); got != want {
			t.Fatalf("FormatCost(%f) = %q, want %q", in, got, want)
		}
	}
}
