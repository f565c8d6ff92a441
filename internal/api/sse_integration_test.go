package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/events"
	"github.com/smazurov/lichtwerk/internal/logging"
)

type sseMessage struct {
	event string
	data  string
}

// readSSE streams event/data pairs from an open SSE response.
func readSSE(resp *http.Response) <-chan sseMessage {
	ch := make(chan sseMessage, 20)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(resp.Body)
		var msg sseMessage
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				msg.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				msg.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "" && msg.data != "":
				ch <- msg
				msg = sseMessage{}
			}
		}
	}()
	return ch
}

func nextMessage(t *testing.T, ch <-chan sseMessage, event string) map[string]any {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.Fatalf("stream closed waiting for %q", event)
			}
			if msg.event != event {
				continue
			}
			var out map[string]any
			if err := json.Unmarshal([]byte(msg.data), &out); err != nil {
				t.Fatalf("decode %q data %q: %v", event, msg.data, err)
			}
			return out
		case <-timeout:
			t.Fatalf("timeout waiting for %q event", event)
		}
	}
}

func TestSSE_SnapshotThenStateChanges(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}

	messages := readSSE(resp)

	first := nextMessage(t, messages, "state")
	if first["power"] != false || first["effect"] != "solid" {
		t.Errorf("initial snapshot = %v", first)
	}

	postJSON(t, ts.URL+"/api/effect", map[string]any{"effect": "theater"})

	changed := nextMessage(t, messages, "state")
	if changed["effect"] != "theater" {
		t.Errorf("effect = %v, want theater", changed["effect"])
	}
	if changed["theater_rainbow"] != false {
		t.Errorf("theater_rainbow = %v, want false", changed["theater_rainbow"])
	}
	if changed["effect_name"] != "Theater" {
		t.Errorf("effect_name = %v, want Theater", changed["effect_name"])
	}
}

func TestSSE_RejectedMutationIsNotPushed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	messages := readSSE(resp)
	nextMessage(t, messages, "state")

	postJSON(t, ts.URL+"/api/effect", map[string]any{"effect": "nope"})
	postJSON(t, ts.URL+"/api/brightness", map[string]any{"brightness": 7})

	// The first pushed state must be the accepted brightness change.
	next := nextMessage(t, messages, "state")
	if next["brightness"] != float64(7) || next["effect"] != "solid" {
		t.Errorf("pushed state = %v, want brightness 7 on solid", next)
	}
}

func TestSSE_LateStateEventDoesNotRegress(t *testing.T) {
	server, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	messages := readSSE(resp)
	first := nextMessage(t, messages, "state")
	if first["revision"] != float64(0) {
		t.Fatalf("initial revision = %v, want 0", first["revision"])
	}

	postJSON(t, ts.URL+"/api/brightness", map[string]any{"brightness": 7})

	// A delivery of an older commit that arrives after a newer one.
	stale := device.New(50, 18)
	stale.Brightness = 1
	server.eventBus.Publish(events.StateChangedEvent{State: stale, Operation: "set_brightness", Revision: 0})

	postJSON(t, ts.URL+"/api/speed", map[string]any{"speed": 9})

	var last float64
	for last < 2 {
		msg := nextMessage(t, messages, "state")
		rev, _ := msg["revision"].(float64)
		if rev <= last {
			t.Fatalf("revision went from %v to %v", last, rev)
		}
		if msg["brightness"] != float64(7) {
			t.Fatalf("pushed brightness %v at revision %v, want 7", msg["brightness"], rev)
		}
		last = rev
	}
}

func TestSSE_BurstEndsOnLatestState(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	messages := readSSE(resp)
	nextMessage(t, messages, "state")

	const burst = 40
	for i := 1; i <= burst; i++ {
		postJSON(t, ts.URL+"/api/brightness", map[string]any{"brightness": i})
	}

	for {
		msg := nextMessage(t, messages, "state")
		if msg["revision"] != float64(burst) {
			continue
		}
		if msg["brightness"] != float64(burst) {
			t.Errorf("final brightness = %v, want %d", msg["brightness"], burst)
		}
		return
	}
}

func TestLogStream_ResumesAfterLastEventID(t *testing.T) {
	logging.Initialize(logging.Config{Level: "info", Format: "text"})
	_, ts := newTestServer(t)

	logger := logging.GetLogger("resume")
	logger.Info("first")
	logger.Info("second")
	logger.Info("third")

	entries := logging.GetHistory().Query(logging.Filter{Module: "resume"})
	if len(entries) != 3 {
		t.Fatalf("history has %d resume entries, want 3", len(entries))
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/logs/stream?module=resume", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Last-Event-ID", strconv.FormatUint(entries[0].Seq, 10))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to connect to log stream: %v", err)
	}
	defer resp.Body.Close()

	messages := readSSE(resp)
	for _, want := range []string{"second", "third"} {
		got := nextMessage(t, messages, "log-entry")
		if got["message"] != want || got["module"] != "resume" {
			t.Errorf("log-entry = %v, want message %q", got, want)
		}
	}
}
