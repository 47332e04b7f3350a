package processor

// Events the processor itself emits, beside the domain outcome records
// produced by handlers.

import (
	"time"

	"github.com/tkaster/curio/internal/registry/command"
)

// OpLogEvent is emitted by the command-log middleware after each processed
// command, successful or not. The API's event stream exposes it for
// observability.
type OpLogEvent struct {
	// CommandID is the unique identifier of the processed command.
	CommandID string
	// OpType indicates the operation that was processed.
	OpType command.OpType
	// Source indicates where the command originated (api, cli, internal).
	Source command.Source
	// Success indicates whether the operation applied.
	Success bool
	// Error contains the typed failure if Success is false.
	Error error
	// Duration is how long the operation took to execute.
	Duration time.Duration
	// Timestamp is when processing finished.
	Timestamp time.Time
	// TraceID is the distributed trace ID (empty if tracing is disabled).
	TraceID string
}

// OpErrorEvent is emitted when a command is rejected before or during
// handling. Failures deposit no outcome record; this event is the only
// externally visible trace of them.
type OpErrorEvent struct {
	// CommandID is the unique identifier of the rejected command.
	CommandID string
	// OpType indicates the operation that was rejected.
	OpType command.OpType
	// Err is the typed rejection reason.
	Err error
}
