package logging

import (
	"sync"
	"time"
)

// LogEntry is one record kept in the in-memory history.
type LogEntry struct {
	Seq        uint64         `json:"seq"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Filter selects entries from a History. Zero fields match everything.
type Filter struct {
	Module   string
	MinLevel string // debug, info, warn or error
	After    uint64 // only entries with Seq > After
	Limit    int    // keep the newest Limit matches
}

func (f Filter) match(e LogEntry) bool {
	if f.Module != "" && e.Module != f.Module {
		return false
	}
	if e.Seq <= f.After {
		return false
	}
	if f.MinLevel != "" {
		if floor := parseLevel(f.MinLevel); floor != nil && levelRank(e.Level) < *floor {
			return false
		}
	}
	return true
}

// History keeps the most recent log entries in a fixed-size ring and
// numbers them so push subscribers can resume after a reconnect.
type History struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
	seq     uint64
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{entries: make([]LogEntry, size)}
}

// Append stores entry under the next sequence number and returns it.
func (h *History) Append(entry LogEntry) LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	entry.Seq = h.seq
	h.entries[h.next] = entry
	h.next++
	if h.next == len(h.entries) {
		h.next = 0
		h.full = true
	}
	return entry
}

// Query returns matching entries, oldest first.
func (h *History) Query(f Filter) []LogEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []LogEntry
	visit := func(part []LogEntry) {
		for _, e := range part {
			if f.match(e) {
				out = append(out, e)
			}
		}
	}
	if h.full {
		visit(h.entries[h.next:])
	}
	visit(h.entries[:h.next])

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return len(h.entries)
	}
	return h.next
}

// LastSeq returns the sequence number of the newest entry, 0 if none.
func (h *History) LastSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seq
}
