package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PredictorMonitor tracks latency and failures of move predictor calls
type PredictorMonitor struct {
	mu             sync.RWMutex
	calls          int
	failures       int
	totalLatency   time.Duration
	peakLatency    time.Duration
	lastError      string
	windowCalls    int
	windowFailures int
	checkInterval  time.Duration
	alertThreshold float64
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	logger         zerolog.Logger
}

// MonitorOption configures a PredictorMonitor
type MonitorOption func(*PredictorMonitor)

// WithCheckInterval sets how often metrics are logged
func WithCheckInterval(d time.Duration) MonitorOption {
	return func(pm *PredictorMonitor) {
		if d > 0 {
			pm.checkInterval = d
		}
	}
}

// WithAlertThreshold sets the failure ratio per interval that triggers a warning
func WithAlertThreshold(ratio float64) MonitorOption {
	return func(pm *PredictorMonitor) {
		pm.alertThreshold = ratio
	}
}

// WithMonitorLogger sets the logger used for metrics and alerts
func WithMonitorLogger(logger zerolog.Logger) MonitorOption {
	return func(pm *PredictorMonitor) {
		pm.logger = logger
	}
}

// NewPredictorMonitor creates a new predictor call monitor
func NewPredictorMonitor(opts ...MonitorOption) *PredictorMonitor {
	pm := &PredictorMonitor{
		checkInterval:  30 * time.Second,
		alertThreshold: 0.5,
		alertCooldown:  5 * time.Minute,
		stopChan:       make(chan struct{}),
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(pm)
	}
	pm.logger = pm.logger.With().Str("component", "predictor_monitor").Logger()
	return pm
}

// Record registers one finished predictor call
func (pm *PredictorMonitor) Record(latency time.Duration, err error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.calls++
	pm.windowCalls++
	pm.totalLatency += latency
	if latency > pm.peakLatency {
		pm.peakLatency = latency
	}
	if err != nil {
		pm.failures++
		pm.windowFailures++
		pm.lastError = err.Error()
	}
}

// Start begins periodic metric logging
func (pm *PredictorMonitor) Start() {
	go pm.monitor()
	pm.logger.Info().
		Dur("interval", pm.checkInterval).
		Msg("Started predictor call monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (pm *PredictorMonitor) Stop() {
	pm.stopOnce.Do(func() { close(pm.stopChan) })
}

// monitor is the main monitoring loop
func (pm *PredictorMonitor) monitor() {
	defer func() {
		if r := recover(); r != nil {
			pm.logger.Error().
				Interface("panic", r).
				Msg("Predictor monitor panicked - restarting")
			go pm.monitor()
		}
	}()

	ticker := time.NewTicker(pm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.check()
		case <-pm.stopChan:
			return
		}
	}
}

// check logs the metrics of the elapsed window and alerts on a high failure ratio
func (pm *PredictorMonitor) check() {
	pm.mu.Lock()
	windowCalls, windowFailures := pm.windowCalls, pm.windowFailures
	pm.windowCalls, pm.windowFailures = 0, 0

	var failureRate float64
	if windowCalls > 0 {
		failureRate = float64(windowFailures) / float64(windowCalls)
	}

	shouldAlert := windowCalls > 0 &&
		failureRate >= pm.alertThreshold &&
		time.Since(pm.lastAlert) > pm.alertCooldown
	if shouldAlert {
		pm.lastAlert = time.Now()
	}
	metrics := pm.metricsLocked()
	pm.mu.Unlock()

	pm.logger.Debug().
		Int("calls", metrics.Calls).
		Int("failures", metrics.Failures).
		Int("window_calls", windowCalls).
		Dur("avg_latency", metrics.AverageLatency).
		Dur("peak_latency", metrics.PeakLatency).
		Msg("Predictor call metrics")

	if shouldAlert {
		pm.logger.Warn().
			Int("window_calls", windowCalls).
			Int("window_failures", windowFailures).
			Float64("failure_rate", failureRate).
			Str("last_error", metrics.LastError).
			Msg("High predictor failure rate detected")
	}
}

// GetMetrics returns current predictor call metrics
func (pm *PredictorMonitor) GetMetrics() PredictorMetrics {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.metricsLocked()
}

func (pm *PredictorMonitor) metricsLocked() PredictorMetrics {
	var avg time.Duration
	if pm.calls > 0 {
		avg = pm.totalLatency / time.Duration(pm.calls)
	}
	return PredictorMetrics{
		Calls:          pm.calls,
		Failures:       pm.failures,
		AverageLatency: avg,
		PeakLatency:    pm.peakLatency,
		LastError:      pm.lastError,
	}
}

// PredictorMetrics contains predictor call statistics
type PredictorMetrics struct {
	Calls          int           `json:"calls"`
	Failures       int           `json:"failures"`
	AverageLatency time.Duration `json:"average_latency"`
	PeakLatency    time.Duration `json:"peak_latency"`
	LastError      string        `json:"last_error,omitempty"`
}
