package logging

import (
	"sync"
	"time"
)

// LogEntry is one captured log line, kept for history replay over the
// log stream endpoint.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer holds the most recent log entries in a fixed-capacity
// circular store. Safe for concurrent use.
type RingBuffer struct {
	mu     sync.RWMutex
	buf    []LogEntry
	next   int
	filled bool
}

// NewRingBuffer creates a buffer retaining up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]LogEntry, size)}
}

// Write appends an entry, evicting the oldest once capacity is reached.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buf[rb.next] = entry
	rb.next++
	if rb.next == len(rb.buf) {
		rb.next = 0
		rb.filled = true
	}
}

// ReadAll returns the retained entries oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if !rb.filled {
		if rb.next == 0 {
			return nil
		}
		out := make([]LogEntry, rb.next)
		copy(out, rb.buf[:rb.next])
		return out
	}

	// Once wrapped, the oldest entry sits at the write position.
	out := make([]LogEntry, 0, len(rb.buf))
	out = append(out, rb.buf[rb.next:]...)
	out = append(out, rb.buf[:rb.next]...)
	return out
}

// Count returns how many entries are currently retained.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.filled {
		return len(rb.buf)
	}
	return rb.next
}
