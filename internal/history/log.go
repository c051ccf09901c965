package history

import (
	"sync"
	"time"
)

// Status classifies the outcome of a command request.
type Status string

// Outcome statuses recorded against history entries.
const (
	// StatusNotFound marks input that matched no registered command.
	StatusNotFound Status = "NOT_FOUND"

	// StatusSuccess marks a command that executed and reported success.
	StatusSuccess Status = "SUCCESS"

	// StatusError marks a command that failed, timed out, or was
	// rejected because the execution queue was full.
	StatusError Status = "ERROR"
)

// DefaultCapacity is the number of entries retained when the
// configured capacity is zero or negative.
const DefaultCapacity = 1000

// Entry is a single recorded command request.
type Entry struct {
	Timestamp   time.Time
	CallerID    string
	CommandText string
	Status      Status
	Detail      string
}

// Log is a fixed-capacity, in-memory record of command requests.
// When full, appending evicts the oldest entry. All methods are safe
// for concurrent use.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	start    int
	size     int
}

// New creates a log retaining at most capacity entries. A capacity of
// zero or less falls back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Append records an entry, evicting the oldest if the log is full.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := (l.start + l.size) % l.capacity
	l.entries[idx] = e
	if l.size < l.capacity {
		l.size++
		return
	}
	l.start = (l.start + 1) % l.capacity
}

// Recent returns up to count entries in chronological order, the most
// recent entry last. A count larger than the log's size returns every
// retained entry. A count of zero or less returns nil.
func (l *Log) Recent(count int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count <= 0 || l.size == 0 {
		return nil
	}
	if count > l.size {
		count = l.size
	}

	out := make([]Entry, count)
	first := l.start + l.size - count
	for i := 0; i < count; i++ {
		out[i] = l.entries[(first+i)%l.capacity]
	}
	return out
}

// Len reports the number of entries currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
