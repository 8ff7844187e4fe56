package events

// Event type constants for kelindar/event.
const (
	TypeProcessStdout uint32 = iota + 1
	TypeProcessStderr
	TypeProcessExit
	TypeProcessSpawned
	TypeProcessKilled
	TypeRuntimePathsChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ProcessStdoutEvent carries one line of a managed process's standard output.
type ProcessStdoutEvent struct {
	Name string `json:"name" example:"worker" doc:"Process name"`
	Data string `json:"data" doc:"One line of output, without the trailing newline"`
}

// Type returns the event type identifier for ProcessStdoutEvent.
func (e ProcessStdoutEvent) Type() uint32 { return TypeProcessStdout }

// ProcessStderrEvent carries one line of a managed process's standard error.
type ProcessStderrEvent struct {
	Name string `json:"name" example:"worker" doc:"Process name"`
	Data string `json:"data" doc:"One line of output, without the trailing newline"`
}

// Type returns the event type identifier for ProcessStderrEvent.
func (e ProcessStderrEvent) Type() uint32 { return TypeProcessStderr }

// ProcessExitEvent is published when a managed process terminates on its own.
// Code is nil when the platform could not report an exit code (for example
// when the process was terminated by a signal).
type ProcessExitEvent struct {
	Name string `json:"name" example:"worker" doc:"Process name"`
	Code *int   `json:"code,omitempty" example:"0" doc:"Exit code, absent when unknown"`
}

// Type returns the event type identifier for ProcessExitEvent.
func (e ProcessExitEvent) Type() uint32 { return TypeProcessExit }

// ProcessSpawnedEvent is published after a process has been registered
// and its background pumps started.
type ProcessSpawnedEvent struct {
	Name string `json:"name" example:"worker" doc:"Process name"`
	Pid  int    `json:"pid" example:"12345" doc:"OS process identifier"`
}

// Type returns the event type identifier for ProcessSpawnedEvent.
func (e ProcessSpawnedEvent) Type() uint32 { return TypeProcessSpawned }

// ProcessKilledEvent is published after an explicit kill removed a process.
type ProcessKilledEvent struct {
	Name string `json:"name" example:"worker" doc:"Process name"`
}

// Type returns the event type identifier for ProcessKilledEvent.
func (e ProcessKilledEvent) Type() uint32 { return TypeProcessKilled }

// RuntimePathsChangedEvent is published when the runtime path overrides
// change, either via the API or a reload of the runtimes file.
type RuntimePathsChangedEvent struct {
	Paths map[string]string `json:"paths" doc:"Current runtime path overrides"`
}

// Type returns the event type identifier for RuntimePathsChangedEvent.
func (e RuntimePathsChangedEvent) Type() uint32 { return TypeRuntimePathsChanged }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
