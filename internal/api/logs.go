package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/logging"
)

// LogsInput selects entries from the log history.
type LogsInput struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" default:"100" doc:"Maximum number of entries, newest kept"`
	Module string `query:"module" doc:"Only entries from this module"`
	Level  string `query:"level" enum:"debug,info,warn,error" doc:"Minimum level"`
}

// LogStreamInput lets a reconnecting EventSource resume where it left off.
type LogStreamInput struct {
	LastEventID uint64 `header:"Last-Event-ID" doc:"Sequence number of the last entry received"`
	Module      string `query:"module" doc:"Only entries from this module"`
}

// registerLogRoutes registers recent-log and log streaming endpoints.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Recent log entries from the in-memory history, oldest first",
		Tags:        []string{"logs"},
	}, func(_ context.Context, input *LogsInput) (*models.LogsResponse, error) {
		entries := recentLogs(logging.Filter{
			Module:   input.Module,
			MinLevel: input.Level,
			Limit:    input.Limit,
		})
		return &models.LogsResponse{
			Body: models.LogsData{Entries: entries, Count: len(entries)},
		}, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Log entries via Server-Sent Events. Replays the history after Last-Event-ID, then follows new entries. " +
			"Each message id is the entry sequence number.",
		Tags: []string{"logs"},
	}, map[string]any{
		"log-entry": events.LogEntryEvent{},
	}, func(ctx context.Context, input *LogStreamInput, send sse.Sender) {
		eventCh := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, eventCh)
		defer unsubscribe()

		sent := input.LastEventID
		emit := func(ev events.LogEntryEvent) error {
			// The subscription is open during replay; skip what was already sent.
			if ev.Seq <= sent || (input.Module != "" && ev.Module != input.Module) {
				return nil
			}
			sent = ev.Seq
			return send(sse.Message{ID: int(ev.Seq), Data: ev})
		}

		if history := logging.GetHistory(); history != nil {
			for _, entry := range history.Query(logging.Filter{Module: input.Module, After: sent}) {
				if err := emit(logEvent(entry)); err != nil {
					return
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if entry, ok := ev.(events.LogEntryEvent); ok {
					if err := emit(entry); err != nil {
						return
					}
				}
			}
		}
	})
}

// logEvent converts a history entry to its push form.
func logEvent(entry logging.LogEntry) events.LogEntryEvent {
	return events.LogEntryEvent{
		Seq:        entry.Seq,
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
		Level:      entry.Level,
		Module:     entry.Module,
		Message:    entry.Message,
		Attributes: entry.Attributes,
	}
}

func recentLogs(filter logging.Filter) []models.LogEntryData {
	history := logging.GetHistory()
	if history == nil {
		return []models.LogEntryData{}
	}

	entries := history.Query(filter)
	out := make([]models.LogEntryData, 0, len(entries))
	for _, entry := range entries {
		out = append(out, models.LogEntryData{
			Seq:        entry.Seq,
			Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
			Level:      entry.Level,
			Module:     entry.Module,
			Message:    entry.Message,
			Attributes: entry.Attributes,
		})
	}
	return out
}
