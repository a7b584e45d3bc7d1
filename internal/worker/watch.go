package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

// MonitorSource reads the live monitor feed.
type MonitorSource interface {
	GetMonitorStatus(ctx context.Context) (*tripintel.MonitorStatus, error)
}

// AnomalyPublisher receives anomaly transition events.
type AnomalyPublisher interface {
	PublishAnomaly(ctx context.Context, event AnomalyEvent) error
}

// AnomalyEvent describes a change in the monitor feed's anomaly state.
type AnomalyEvent struct {
	// DetectedAt is when the transition was observed.
	DetectedAt time.Time `json:"detected_at"`

	// Cleared is true when the feed returned to normal.
	Cleared bool `json:"cleared,omitempty"`

	// SpeedDrop and OffPeakCongestion echo the alerts that triggered the event.
	SpeedDrop         *tripintel.SpeedDropAlert  `json:"speed_drop,omitempty"`
	OffPeakCongestion *tripintel.CongestionAlert `json:"off_peak_congestion,omitempty"`
}

// WatchMetrics tracks watch job statistics.
type WatchMetrics struct {
	mu sync.RWMutex

	TotalPolls      int64
	FailedPolls     int64
	AnomaliesRaised int64
	AnomaliesClear  int64

	LastPollAt    time.Time
	LastAnomalyAt time.Time
}

// WatchJob polls the monitor feed and publishes anomaly transitions. Only
// edges are published: a feed that stays anomalous across polls produces one
// event, and a second event when it clears.
type WatchJob struct {
	config    WatchConfig
	source    MonitorSource
	publisher AnomalyPublisher
	logger    zerolog.Logger

	metrics *WatchMetrics

	mu          sync.Mutex
	lastAnomaly bool
}

// WatchJobConfig holds configuration for creating a WatchJob.
type WatchJobConfig struct {
	Config    WatchConfig
	Source    MonitorSource
	Publisher AnomalyPublisher
	Logger    zerolog.Logger
}

// NewWatchJob creates a new monitor watch job.
func NewWatchJob(cfg WatchJobConfig) *WatchJob {
	return &WatchJob{
		config:    cfg.Config.withDefaults(),
		source:    cfg.Source,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   &WatchMetrics{},
	}
}

// Run polls the monitor feed until the context is cancelled. Consecutive
// failures back off exponentially up to MaxBackoff; a successful poll resets
// the schedule to the configured interval.
func (j *WatchJob) Run(ctx context.Context) error {
	j.logger.Info().
		Dur("interval", j.config.Interval).
		Msg("starting monitor watch job")

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = j.config.Interval
	bo.MaxInterval = j.config.MaxBackoff
	bo.MaxElapsedTime = 0 // never give up
	bo.Reset()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("monitor watch job stopped")
			return ctx.Err()
		case <-timer.C:
		}

		if err := j.Poll(ctx); err != nil {
			delay := bo.NextBackOff()
			j.logger.Warn().Err(err).Dur("retry_in", delay).Msg("monitor poll failed")
			timer.Reset(delay)
			continue
		}

		bo.Reset()
		timer.Reset(j.config.Interval)
	}
}

// Poll reads the feed once and publishes a transition event if the anomaly
// state changed since the previous successful poll.
func (j *WatchJob) Poll(ctx context.Context) error {
	pollCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	status, err := j.source.GetMonitorStatus(pollCtx)

	j.metrics.mu.Lock()
	j.metrics.TotalPolls++
	j.metrics.LastPollAt = time.Now()
	if err != nil {
		j.metrics.FailedPolls++
	}
	j.metrics.mu.Unlock()

	if err != nil {
		return err
	}

	j.handleStatus(ctx, status)
	return nil
}

func (j *WatchJob) handleStatus(ctx context.Context, status *tripintel.MonitorStatus) {
	anomalous := status.Anomalous()

	j.mu.Lock()
	changed := anomalous != j.lastAnomaly
	j.lastAnomaly = anomalous
	j.mu.Unlock()

	if !changed {
		return
	}

	event := AnomalyEvent{
		DetectedAt: time.Now(),
		Cleared:    !anomalous,
	}
	if status.SpeedDrop.Detected {
		drop := status.SpeedDrop
		event.SpeedDrop = &drop
	}
	if status.OffPeakCongestion.Detected {
		congestion := status.OffPeakCongestion
		event.OffPeakCongestion = &congestion
	}

	j.metrics.mu.Lock()
	if anomalous {
		j.metrics.AnomaliesRaised++
		j.metrics.LastAnomalyAt = event.DetectedAt
	} else {
		j.metrics.AnomaliesClear++
	}
	j.metrics.mu.Unlock()

	j.logger.Info().
		Bool("cleared", event.Cleared).
		Bool("speed_drop", event.SpeedDrop != nil).
		Bool("off_peak_congestion", event.OffPeakCongestion != nil).
		Msg("monitor anomaly transition")

	if !j.config.PublishAnomalies || j.publisher == nil {
		return
	}

	if err := j.publisher.PublishAnomaly(ctx, event); err != nil {
		j.logger.Error().Err(err).Msg("failed to publish anomaly event")
	}
}

// GetMetrics returns a copy of the current metrics.
func (j *WatchJob) GetMetrics() WatchMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WatchMetrics{
		TotalPolls:      j.metrics.TotalPolls,
		FailedPolls:     j.metrics.FailedPolls,
		AnomaliesRaised: j.metrics.AnomaliesRaised,
		AnomaliesClear:  j.metrics.AnomaliesClear,
		LastPollAt:      j.metrics.LastPollAt,
		LastAnomalyAt:   j.metrics.LastAnomalyAt,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WatchJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_polls":      m.TotalPolls,
		"failed_polls":     m.FailedPolls,
		"anomalies_raised": m.AnomaliesRaised,
		"anomalies_clear":  m.AnomaliesClear,
		"last_poll_at":     m.LastPollAt,
		"last_anomaly_at":  m.LastAnomalyAt,
	}
}
