package monitoring

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPredictorMonitor_Record(t *testing.T) {
	pm := NewPredictorMonitor(WithMonitorLogger(zerolog.Nop()))

	pm.Record(10*time.Millisecond, nil)
	pm.Record(30*time.Millisecond, errors.New("unavailable"))

	metrics := pm.GetMetrics()
	assert.Equal(t, 2, metrics.Calls)
	assert.Equal(t, 1, metrics.Failures)
	assert.Equal(t, 20*time.Millisecond, metrics.AverageLatency)
	assert.Equal(t, 30*time.Millisecond, metrics.PeakLatency)
	assert.Equal(t, "unavailable", metrics.LastError)
}

func TestPredictorMonitor_EmptyMetrics(t *testing.T) {
	pm := NewPredictorMonitor(WithMonitorLogger(zerolog.Nop()))
	metrics := pm.GetMetrics()
	assert.Zero(t, metrics.Calls)
	assert.Zero(t, metrics.AverageLatency)
	assert.Empty(t, metrics.LastError)
}

func TestPredictorMonitor_CheckAlertsOnFailureRate(t *testing.T) {
	var buf bytes.Buffer
	pm := NewPredictorMonitor(
		WithMonitorLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)),
		WithAlertThreshold(0.5),
	)

	pm.Record(time.Millisecond, errors.New("deadline exceeded"))
	pm.Record(time.Millisecond, nil)
	pm.check()
	assert.Contains(t, buf.String(), "High predictor failure rate detected")
	assert.Contains(t, buf.String(), "deadline exceeded")

	// Cooldown suppresses a second alert
	buf.Reset()
	pm.Record(time.Millisecond, errors.New("deadline exceeded"))
	pm.check()
	assert.Empty(t, buf.String())
}

func TestPredictorMonitor_CheckResetsWindow(t *testing.T) {
	var buf bytes.Buffer
	pm := NewPredictorMonitor(WithMonitorLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)))

	pm.Record(time.Millisecond, nil)
	pm.Record(time.Millisecond, nil)
	pm.check()
	assert.Empty(t, buf.String(), "no alert without failures")

	pm.check()
	assert.Empty(t, buf.String(), "an empty window never alerts")
	assert.Equal(t, 2, pm.GetMetrics().Calls, "totals survive a window reset")
}

func TestPredictorMonitor_StartStop(t *testing.T) {
	pm := NewPredictorMonitor(
		WithMonitorLogger(zerolog.Nop()),
		WithCheckInterval(5*time.Millisecond),
	)
	pm.Start()
	pm.Record(time.Millisecond, nil)
	time.Sleep(20 * time.Millisecond)
	pm.Stop()
	pm.Stop()
	assert.Equal(t, 1, pm.GetMetrics().Calls)
}
