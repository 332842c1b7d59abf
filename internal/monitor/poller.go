package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"oncodash/domain/clinical"
	"oncodash/internal"
	"oncodash/ports"
)

// Poller fetches live prediction telemetry on a fixed interval, independent
// of user action. Poll failures are absorbed and logged at debug level: a
// transient backend hiccup must never disrupt the main workflow.
type Poller struct {
	backend  ports.Backend
	interval time.Duration
	limit    int
	logger   *internal.Logger

	mu   sync.RWMutex
	last *LiveSnapshot
}

// LiveSnapshot is the most recent successfully polled telemetry, summarized
// for display.
type LiveSnapshot struct {
	Events    []clinical.MonitoringEvent `json:"events"`
	Summary   LiveSummary                `json:"summary"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// LiveSummary aggregates the polled window.
type LiveSummary struct {
	EventCount      int     `json:"event_count"`
	PositiveRate    float64 `json:"positive_rate"`
	MeanProbability float64 `json:"mean_probability"`
	MedianLatencyMS float64 `json:"median_latency_ms"`
	P95LatencyMS    float64 `json:"p95_latency_ms"`
}

// NewPoller creates a live-feed poller.
func NewPoller(backend ports.Backend, interval time.Duration, limit int, logger *internal.Logger) *Poller {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Poller{backend: backend, interval: interval, limit: limit, logger: logger}
}

// Run polls until the context is canceled. It runs one immediate poll before
// settling into the ticker cadence.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	events, err := p.backend.MonitoringLive(ctx, p.limit)
	if err != nil {
		// Silently absorbed: never a user-facing error.
		p.logger.Debug("[Monitor] live poll failed: %v", err)
		return
	}

	snap := &LiveSnapshot{
		Events:    events,
		Summary:   summarize(events),
		FetchedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()
}

// Last returns the most recent snapshot, or nil before the first successful
// poll.
func (p *Poller) Last() *LiveSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func summarize(events []clinical.MonitoringEvent) LiveSummary {
	summary := LiveSummary{EventCount: len(events)}
	if len(events) == 0 {
		return summary
	}

	probs := make([]float64, len(events))
	latencies := make([]float64, len(events))
	positives := 0
	for i, e := range events {
		probs[i] = e.Probability
		latencies[i] = e.LatencyMS
		if e.Prediction == 1 {
			positives++
		}
	}
	summary.PositiveRate = float64(positives) / float64(len(events))

	// Single-value windows make Percentile error out; the mean and median
	// are still well defined there.
	if mean, err := stats.Mean(probs); err == nil {
		summary.MeanProbability = mean
	}
	if median, err := stats.Median(latencies); err == nil {
		summary.MedianLatencyMS = median
	}
	if p95, err := stats.Percentile(latencies, 95); err == nil {
		summary.P95LatencyMS = p95
	}
	return summary
}
