package monitor

import (
	"context"
	"math"
	"testing"
	"time"

	"oncodash/domain/clinical"
	"oncodash/internal/testkit"
)

func events(latencies ...float64) []clinical.MonitoringEvent {
	out := make([]clinical.MonitoringEvent, len(latencies))
	for i, l := range latencies {
		out[i] = clinical.MonitoringEvent{
			ModelID:     "m",
			Prediction:  i % 2,
			Probability: 0.5,
			LatencyMS:   l,
		}
	}
	return out
}

func TestPollCommitsSnapshot(t *testing.T) {
	fake := testkit.NewFakeBackend()
	p := NewPoller(fake, time.Minute, 50, nil)
	if p.Last() != nil {
		t.Fatal("poller should start empty")
	}

	p.poll(context.Background())

	snap := p.Last()
	if snap == nil {
		t.Fatal("no snapshot after poll")
	}
	if snap.Summary.EventCount != 2 {
		t.Errorf("event count = %d, want the fixture's 2", snap.Summary.EventCount)
	}
	if snap.Summary.PositiveRate != 0.5 {
		t.Errorf("positive rate = %v, want 0.5", snap.Summary.PositiveRate)
	}
}

func TestPollFailureKeepsLastSnapshot(t *testing.T) {
	fake := testkit.NewFakeBackend()
	p := NewPoller(fake, time.Minute, 50, nil)
	p.poll(context.Background())
	before := p.Last()

	fake.LiveFn = func(ctx context.Context, limit int) ([]clinical.MonitoringEvent, error) {
		return nil, clinical.ErrBackendStatus
	}
	p.poll(context.Background())

	if p.Last() != before {
		t.Error("a failed poll must keep the previous snapshot")
	}
}

func TestSummarize(t *testing.T) {
	summary := summarize(events(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if summary.EventCount != 10 {
		t.Errorf("event count = %d, want 10", summary.EventCount)
	}
	if math.Abs(summary.MedianLatencyMS-55) > 1e-9 {
		t.Errorf("median = %v, want 55", summary.MedianLatencyMS)
	}
	if summary.P95LatencyMS < 90 || summary.P95LatencyMS > 100 {
		t.Errorf("p95 = %v, want within [90, 100]", summary.P95LatencyMS)
	}
	if math.Abs(summary.MeanProbability-0.5) > 1e-9 {
		t.Errorf("mean probability = %v, want 0.5", summary.MeanProbability)
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	summary := summarize(nil)
	if summary.EventCount != 0 || summary.PositiveRate != 0 {
		t.Errorf("summary = %+v, want zero values", summary)
	}
}

func TestSummarizeSingleEvent(t *testing.T) {
	summary := summarize(events(42))
	if summary.EventCount != 1 {
		t.Errorf("event count = %d, want 1", summary.EventCount)
	}
	if summary.MedianLatencyMS != 42 {
		t.Errorf("median = %v, want 42", summary.MedianLatencyMS)
	}
}
