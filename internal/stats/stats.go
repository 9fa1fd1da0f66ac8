// Package stats tracks scrape run statistics for the dashboard and Prometheus.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StatusClass is a coarse HTTP response grouping.
type StatusClass string

// Supported HTTP status classes tracked for page fetches.
const (
	Status2xx   StatusClass = "2xx"
	Status3xx   StatusClass = "3xx"
	Status4xx   StatusClass = "4xx"
	Status5xx   StatusClass = "5xx"
	StatusOther StatusClass = "other"
)

// ClassifyStatus groups HTTP status codes for run statistics.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return Status2xx
	case code >= 300 && code < 400:
		return Status3xx
	case code >= 400 && code < 500:
		return Status4xx
	case code >= 500 && code < 600:
		return Status5xx
	default:
		return StatusOther
	}
}

// RunStats summarizes one scrape run. It is persisted next to the recipes
// file and served by the dashboard.
type RunStats struct {
	RunID         string              `json:"run_id"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
	Attempted     int                 `json:"attempted"`
	Succeeded     int                 `json:"succeeded"`
	Failed        int                 `json:"failed"`
	Skipped       int                 `json:"skipped"`
	Retries       int                 `json:"retries"`
	StatusClasses map[StatusClass]int `json:"status_classes"`
	TotalFetchMs  int64               `json:"total_fetch_ms"`
}

// SuccessRate returns the fraction of attempted pages that produced a record.
func (s RunStats) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted)
}

// AvgFetchMs returns the mean per-page fetch latency in milliseconds.
func (s RunStats) AvgFetchMs() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.TotalFetchMs) / float64(s.Attempted)
}

// Recorder accumulates run statistics. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	stats RunStats
}

// NewRecorder starts a recorder for one run.
func NewRecorder(runID string) *Recorder {
	observeRunActive(true)
	return &Recorder{
		stats: RunStats{
			RunID:         runID,
			StartedAt:     time.Now().UTC(),
			StatusClasses: make(map[StatusClass]int),
		},
	}
}

// PageSucceeded records a page that produced a recipe record.
func (r *Recorder) PageSucceeded(statusCode int, dur time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Attempted++
	r.stats.Succeeded++
	r.stats.StatusClasses[ClassifyStatus(statusCode)]++
	r.stats.TotalFetchMs += dur.Milliseconds()
	observePage("success", statusCode, dur)
}

// PageFailed records a page whose fetch or extraction failed terminally.
func (r *Recorder) PageFailed(statusCode int, dur time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Attempted++
	r.stats.Failed++
	r.stats.StatusClasses[ClassifyStatus(statusCode)]++
	r.stats.TotalFetchMs += dur.Milliseconds()
	observePage("failure", statusCode, dur)
}

// PageSkipped records a page dropped without a fetch (robots, empty record).
func (r *Recorder) PageSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Attempted++
	r.stats.Skipped++
	observeSkip()
}

// Retried increments the retry counter.
func (r *Recorder) Retried() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Retries++
	observeRetry()
}

// Finish stamps the end time and returns a snapshot of the run.
func (r *Recorder) Finish() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.FinishedAt = time.Now().UTC()
	observeRunActive(false)
	return r.snapshotLocked()
}

// Snapshot returns a copy of the current statistics.
func (r *Recorder) Snapshot() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() RunStats {
	cp := r.stats
	cp.StatusClasses = make(map[StatusClass]int, len(r.stats.StatusClasses))
	for k, v := range r.stats.StatusClasses {
		cp.StatusClasses[k] = v
	}
	return cp
}

// Write persists the run statistics as indented JSON.
func Write(s RunStats, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create stats dir for %s: %w", target, err)
	}
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return fmt.Errorf("write run stats %s: %w", target, err)
	}
	return nil
}

// Read loads previously written run statistics. A missing file returns
// ok=false with no error.
func Read(target string) (RunStats, bool, error) {
	payload, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return RunStats{}, false, nil
		}
		return RunStats{}, false, fmt.Errorf("read run stats %s: %w", target, err)
	}
	var s RunStats
	if err := json.Unmarshal(payload, &s); err != nil {
		return RunStats{}, false, fmt.Errorf("parse run stats %s: %w", target, err)
	}
	return s, true, nil
}
