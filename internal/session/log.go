package session

import (
	"sync"
	"time"
)

// Entry is an immutable timestamped observation of a session transition.
type Entry struct {
	Timestamp time.Time
	Message   string
}

// ActivityLog is an append-only record of session activity, newest first.
// It is presentation-only: nothing reads it back to make decisions.
type ActivityLog struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{now: time.Now}
}

func (l *ActivityLog) Append(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Timestamp: l.now(), Message: message})
}

// Entries returns a copy ordered newest first.
func (l *ActivityLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
