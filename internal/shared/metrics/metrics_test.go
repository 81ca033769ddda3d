package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulativeOnce(t *testing.T) {
	h := newHistogram([]float64{100, 1000})
	h.Observe(50)
	h.Observe(500)
	h.Observe(5000)

	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if cumulative != 2 {
		t.Fatalf("expected 2 observations within bounds, got %d", cumulative)
	}
	if snap.count != 3 || snap.sum != 5550 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncQuizGenerated()
	IncLLMRateLimited()
	ObserveLLMDurationMs(120)

	out := Render()
	for _, want := range []string{
		"# TYPE quiz_generated_total counter",
		"llm_rate_limited_total",
		`llm_duration_ms_bucket{le="250"}`,
		`llm_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}
}
