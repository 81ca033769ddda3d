package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	quizGeneratedTotal     atomic.Uint64
	quizFailedTotal        atomic.Uint64
	quizSubmittedTotal     atomic.Uint64
	analysisStartedTotal   atomic.Uint64
	analysisCompletedTotal atomic.Uint64
	analysisFailedTotal    atomic.Uint64
	llmRateLimitedTotal    atomic.Uint64
	reportsSavedTotal      atomic.Uint64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

func IncQuizGenerated()     { quizGeneratedTotal.Add(1) }
func IncQuizFailed()        { quizFailedTotal.Add(1) }
func IncQuizSubmitted()     { quizSubmittedTotal.Add(1) }
func IncAnalysisStarted()   { analysisStartedTotal.Add(1) }
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }
func IncAnalysisFailed()    { analysisFailedTotal.Add(1) }
func IncLLMRateLimited()    { llmRateLimitedTotal.Add(1) }
func IncReportsSaved()      { reportsSavedTotal.Add(1) }

// ObserveLLMDurationMs records the latency of one text-generation call in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "quiz_generated_total", "Quizzes generated", quizGeneratedTotal.Load())
	writeCounter(&buf, "quiz_failed_total", "Quiz generations that failed", quizFailedTotal.Load())
	writeCounter(&buf, "quiz_submitted_total", "Quizzes scored", quizSubmittedTotal.Load())
	writeCounter(&buf, "analysis_started_total", "Compatibility analyses started", analysisStartedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Compatibility analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Compatibility analyses failed", analysisFailedTotal.Load())
	writeCounter(&buf, "llm_rate_limited_total", "Upstream 429 responses", llmRateLimitedTotal.Load())
	writeCounter(&buf, "reports_saved_total", "Reports persisted", reportsSavedTotal.Load())
	writeHistogram(&buf, "llm_duration_ms", "Text-generation call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
