package shared

import "fmt"

// EngineLogger is the logging contract used throughout the engine. A failure
// inside the engine must never halt the host simulation, so errors are
// reported here instead of being propagated past the pass boundary.
type EngineLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Log levels used across the engine.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// DefaultLogCap is the default maximum number of retained log entries.
const DefaultLogCap = 5000

// LogEntry is one recorded engine event.
type LogEntry struct {
	Time     GameTime
	Level    string
	Message  string
	Metadata map[string]interface{}
}

func (e LogEntry) String() string {
	if len(e.Metadata) == 0 {
		return fmt.Sprintf("[%s] %s %s", e.Level, e.Time, e.Message)
	}
	return fmt.Sprintf("[%s] %s %s %v", e.Level, e.Time, e.Message, e.Metadata)
}

// LogBuffer is an append-only, capacity-bounded log the user can inspect in
// game. When full, the oldest entry is evicted first. Single-writer, like the
// rest of the engine state.
type LogBuffer struct {
	clock   GameClock
	cap     int
	entries []LogEntry
	start   int
	count   int
	tee     EngineLogger
}

// NewLogBuffer creates a buffer retaining at most capacity entries.
// A non-positive capacity falls back to DefaultLogCap.
func NewLogBuffer(clock GameClock, capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCap
	}
	return &LogBuffer{
		clock:   clock,
		cap:     capacity,
		entries: make([]LogEntry, capacity),
	}
}

// Tee mirrors every entry to another logger (e.g. stderr in the CLI harness).
func (b *LogBuffer) Tee(l EngineLogger) { b.tee = l }

// Log records an entry, evicting the oldest if the buffer is full.
func (b *LogBuffer) Log(level, message string, metadata map[string]interface{}) {
	entry := LogEntry{Level: level, Message: message, Metadata: metadata}
	if b.clock != nil {
		entry.Time = b.clock.Now()
	}
	if b.count < b.cap {
		b.entries[(b.start+b.count)%b.cap] = entry
		b.count++
	} else {
		b.entries[b.start] = entry
		b.start = (b.start + 1) % b.cap
	}
	if b.tee != nil {
		b.tee.Log(level, message, metadata)
	}
}

// Len returns the number of retained entries.
func (b *LogBuffer) Len() int { return b.count }

// Snapshot returns a copy of the retained entries, oldest first. The copy is
// what the "inspect/copy" affordance hands to the user.
func (b *LogBuffer) Snapshot() []LogEntry {
	out := make([]LogEntry, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.start+i)%b.cap]
	}
	return out
}

// NopLogger discards everything. Used where no logger has been wired.
type NopLogger struct{}

// Log does nothing.
func (NopLogger) Log(level, message string, metadata map[string]interface{}) {}
