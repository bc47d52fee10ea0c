package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks counters for one application session.
type Metrics struct {
	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64

	// Input handling
	keyCount     atomic.Uint64
	clickCount   atomic.Uint64
	unboundCount atomic.Uint64

	computations atomic.Uint64
	reloads      atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)

	for {
		old := m.renderMaxNs.Load()
		if ns <= old {
			break
		}
		if m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordKey records a key press that reached the keymap.
func (m *Metrics) RecordKey(bound bool) {
	m.keyCount.Add(1)
	if !bound {
		m.unboundCount.Add(1)
	}
}

// RecordClick records a mouse click on a button.
func (m *Metrics) RecordClick() {
	m.clickCount.Add(1)
}

// RecordComputation records a completed computation.
func (m *Metrics) RecordComputation() {
	m.computations.Add(1)
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renderCount := m.renderCount.Load()

	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		RenderCount:  renderCount,
		AvgRenderNs:  avgRenderNs,
		MaxRenderNs:  m.renderMaxNs.Load(),
		KeyCount:     m.keyCount.Load(),
		UnboundKeys:  m.unboundCount.Load(),
		ClickCount:   m.clickCount.Load(),
		Computations: m.computations.Load(),
		Reloads:      m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	RenderCount  uint64
	AvgRenderNs  int64
	MaxRenderNs  int64
	KeyCount     uint64
	UnboundKeys  uint64
	ClickCount   uint64
	Computations uint64
	Reloads      uint64
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
