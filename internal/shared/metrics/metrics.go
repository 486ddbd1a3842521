package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	resumeReplaceTotal       atomic.Uint64
	resumeReplaceFailedTotal atomic.Uint64
	applicationsSubmitted    atomic.Uint64
	applicationsFailed       atomic.Uint64
	applicationRetries       atomic.Uint64
	notificationsAdded       atomic.Uint64
	orphanBlobsDeleted       atomic.Uint64
	recommendationRecomputes atomic.Uint64
	tailoredResumes          atomic.Uint64

	resumeReplaceDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// IncResumeReplace counts a completed résumé replacement.
func IncResumeReplace() {
	resumeReplaceTotal.Add(1)
}

// IncResumeReplaceFailed counts a replacement that returned an error after validation.
func IncResumeReplaceFailed() {
	resumeReplaceFailedTotal.Add(1)
}

// IncApplicationOutcome counts a submission attempt by outcome.
func IncApplicationOutcome(succeeded bool) {
	if succeeded {
		applicationsSubmitted.Add(1)
		return
	}
	applicationsFailed.Add(1)
}

func IncApplicationRetry() {
	applicationRetries.Add(1)
}

func IncNotificationAdded() {
	notificationsAdded.Add(1)
}

// AddOrphanBlobsDeleted counts blobs removed by the sweeper.
func AddOrphanBlobsDeleted(n int) {
	if n > 0 {
		orphanBlobsDeleted.Add(uint64(n))
	}
}

func IncRecommendationRecompute() {
	recommendationRecomputes.Add(1)
}

// IncTailoredResume counts a tailored résumé written to the blob store.
func IncTailoredResume() {
	tailoredResumes.Add(1)
}

// ObserveResumeReplaceDurationMs records a replace duration in milliseconds.
func ObserveResumeReplaceDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	resumeReplaceDuration.Observe(value)
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
	writeCounter(&buf, "resume_replace_total", "Total resume replacements completed", resumeReplaceTotal.Load())
	writeCounter(&buf, "resume_replace_failed_total", "Total resume replacements that failed", resumeReplaceFailedTotal.Load())
	writeCounter(&buf, "applications_submitted_total", "Total submission attempts that succeeded", applicationsSubmitted.Load())
	writeCounter(&buf, "applications_failed_total", "Total submission attempts that failed", applicationsFailed.Load())
	writeCounter(&buf, "application_retries_total", "Total application retries", applicationRetries.Load())
	writeCounter(&buf, "notifications_added_total", "Total notifications appended", notificationsAdded.Load())
	writeCounter(&buf, "orphan_blobs_deleted_total", "Total unreferenced blobs removed by the sweeper", orphanBlobsDeleted.Load())
	writeCounter(&buf, "recommendation_recomputes_total", "Total recommendation recomputations", recommendationRecomputes.Load())
	writeCounter(&buf, "tailored_resumes_total", "Total tailored resumes generated", tailoredResumes.Load())
	writeHistogram(&buf, "resume_replace_duration_ms", "Resume replace duration in milliseconds", resumeReplaceDuration.Snapshot())
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

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
