package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/lichtwerk/internal/metrics"
)

// RenderStatsEvent is a periodic render loop sample.
type RenderStatsEvent struct {
	Frames      uint64  `json:"frames" example:"123456" doc:"Frames written since start"`
	FrameErrors uint64  `json:"frame_errors" example:"0" doc:"Failed frame writes since start"`
	FPS         float64 `json:"fps" example:"50" doc:"Frames per second over the last interval"`
	LastError   string  `json:"last_error,omitempty" doc:"Most recent frame write error"`
	Timestamp   string  `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Sample time"`
}

const renderStatsInterval = time.Second

// registerMetricsRoutes registers the render stats SSE endpoint
func (s *Server) registerMetricsRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "metrics-stream",
		Method:      http.MethodGet,
		Path:        "/api/metrics",
		Summary:     "Render Metrics Stream",
		Description: "Render loop frame counters and frame rate, sampled every second",
		Tags:        []string{"metrics"},
	}, map[string]any{
		"render-stats": RenderStatsEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ticker := time.NewTicker(renderStatsInterval)
		defer ticker.Stop()

		prev := metrics.GetRenderStats()
		prevAt := time.Now()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				stats := metrics.GetRenderStats()
				if err := send.Data(sampleRenderStats(prev, stats, now.Sub(prevAt), now)); err != nil {
					return
				}
				prev, prevAt = stats, now
			}
		}
	})
}

func sampleRenderStats(prev, cur metrics.RenderStats, elapsed time.Duration, now time.Time) RenderStatsEvent {
	var fps float64
	if elapsed > 0 && cur.Frames >= prev.Frames {
		fps = float64(cur.Frames-prev.Frames) / elapsed.Seconds()
	}
	return RenderStatsEvent{
		Frames:      cur.Frames,
		FrameErrors: cur.Errors,
		FPS:         fps,
		LastError:   cur.LastError,
		Timestamp:   now.Format(time.RFC3339),
	}
}
