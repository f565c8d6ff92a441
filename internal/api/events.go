package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/events"
)

// registerSSERoutes registers the state push stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Pushes the full state after confirmed mutations. The first event is the current state. Each state carries its store revision and revisions only increase; mutations in quick succession may arrive as one state event.",
		Tags:        []string{"events"},
	}, map[string]any{
		"state":              models.StatusData{},
		"render-mode":        events.RenderModeChangedEvent{},
		"hardware-error":     events.HardwareErrorEvent{},
		"hardware-recovered": events.HardwareRecoveredEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// State changes only wake the loop; it sends the store's current
		// snapshot when its revision is newer than the last one sent. Late or
		// dropped StateChangedEvents therefore never leave a client stale.
		stateCh := make(chan struct{}, 1)
		eventCh := make(chan any, 10)

		// Subscribe before taking the snapshot so no mutation falls between them.
		unsubscribers := []func(){
			events.SubscribeSignal[events.StateChangedEvent](s.eventBus, stateCh),
			events.SubscribeToChannel[events.RenderModeChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.HardwareErrorEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.HardwareRecoveredEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		current := s.control.Status()
		if err := send.Data(toStatusData(current)); err != nil {
			return
		}
		sent := current.Revision

		for {
			select {
			case <-ctx.Done():
				return
			case <-stateCh:
				current := s.control.Status()
				if current.Revision <= sent {
					continue
				}
				if err := send.Data(toStatusData(current)); err != nil {
					return
				}
				sent = current.Revision
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
