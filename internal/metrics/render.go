// Package metrics provides Prometheus metrics for the render loop and the
// control surface.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lichtwerk",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Frames written to the strip",
	}, []string{"mode"})

	renderFrameErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lichtwerk",
		Subsystem: "render",
		Name:      "frame_errors_total",
		Help:      "Frame writes rejected by the strip driver",
	})

	renderTickSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lichtwerk",
		Subsystem: "render",
		Name:      "tick_seconds",
		Help:      "Time spent computing and writing one frame",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05, 0.1},
	})

	// Local copy for the health endpoint.
	renderStats   RenderStats
	renderStatsMu sync.RWMutex
)

// RenderStats summarizes render loop activity since start.
type RenderStats struct {
	Frames      uint64
	Errors      uint64
	LastFrameAt time.Time
	LastError   string
}

// RecordFrame counts one frame and its duration.
func RecordFrame(mode string, d time.Duration, err error) {
	renderTickSeconds.Observe(d.Seconds())

	renderStatsMu.Lock()
	defer renderStatsMu.Unlock()

	if err != nil {
		renderFrameErrors.Inc()
		renderStats.Errors++
		renderStats.LastError = err.Error()
		return
	}
	renderFrames.WithLabelValues(mode).Inc()
	renderStats.Frames++
	renderStats.LastFrameAt = time.Now()
}

// GetRenderStats returns a copy of the render counters.
func GetRenderStats() RenderStats {
	renderStatsMu.RLock()
	defer renderStatsMu.RUnlock()
	return renderStats
}
