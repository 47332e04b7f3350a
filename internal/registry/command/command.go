// Package command provides the foundational types for registry operations.
// It defines the Command interface, the OpType constants, and the BaseCommand
// struct every concrete operation embeds.
package command

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Command represents an authenticated operation entering the registry.
// All operations implement this interface to be processed by the FIFO
// processor.
type Command interface {
	// ID returns the unique command identifier for tracing and correlation.
	ID() string
	// Type returns the operation type for routing to handlers.
	Type() OpType
	// Validate checks static preconditions before the command is queued.
	// State-dependent checks belong to the handlers.
	Validate() error
	// CreatedAt returns when the command was created.
	CreatedAt() time.Time
}

// OpType identifies the kind of operation for handler routing.
type OpType string

const (
	// OpMint creates a new collectible owned by the caller.
	OpMint OpType = "mint"
	// OpDestroy removes a collectible owned by the caller.
	OpDestroy OpType = "destroy"
	// OpTransfer moves a collectible to another account.
	OpTransfer OpType = "transfer"
	// OpSetPrice lists a collectible for sale.
	OpSetPrice OpType = "set_price"
	// OpDelist retires a collectible from the market.
	OpDelist OpType = "delist"
	// OpBuy purchases a listed collectible.
	OpBuy OpType = "buy"
)

// String returns the string representation of the OpType.
func (t OpType) String() string {
	return string(t)
}

// Source identifies where the command originated.
type Source string

const (
	// SourceAPI indicates the command came from the HTTP API.
	SourceAPI Source = "api"
	// SourceCLI indicates the command came from direct CLI input.
	SourceCLI Source = "cli"
	// SourceInternal indicates the command was system-generated.
	SourceInternal Source = "internal"
)

// String returns the string representation of the Source.
func (s Source) String() string {
	return string(s)
}

// BaseCommand provides the common fields for all operations.
// Concrete command types embed this struct.
type BaseCommand struct {
	id          string
	opType      OpType
	createdAt   time.Time
	source      Source
	spanContext trace.SpanContext
}

// NewBaseCommand creates a BaseCommand with a generated UUID and current
// timestamp.
func NewBaseCommand(opType OpType, source Source) BaseCommand {
	return BaseCommand{
		id:        uuid.New().String(),
		opType:    opType,
		createdAt: time.Now(),
		source:    source,
	}
}

// ID returns the unique command identifier.
func (b *BaseCommand) ID() string {
	return b.id
}

// Type returns the operation type for handler routing.
func (b *BaseCommand) Type() OpType {
	return b.opType
}

// CreatedAt returns when the command was created.
func (b *BaseCommand) CreatedAt() time.Time {
	return b.createdAt
}

// Source returns the origin of this command.
func (b *BaseCommand) Source() Source {
	return b.source
}

// SpanContext returns the OpenTelemetry span context for trace propagation.
func (b *BaseCommand) SpanContext() trace.SpanContext {
	return b.spanContext
}

// SetSpanContext sets the OpenTelemetry span context for trace propagation.
func (b *BaseCommand) SetSpanContext(sc trace.SpanContext) {
	b.spanContext = sc
}

// TraceID returns the trace ID derived from the span context, or empty when
// no trace is attached.
func (b *BaseCommand) TraceID() string {
	if b.spanContext.IsValid() {
		return b.spanContext.TraceID().String()
	}
	return ""
}

// Result contains the outcome of command execution.
type Result struct {
	// Success indicates whether the operation executed successfully.
	Success bool
	// Events contains the outcome records to deposit. A successful registry
	// operation deposits exactly one.
	Events []any
	// Error contains the typed domain error if Success is false.
	Error error
	// Data contains optional result data for the caller (e.g. the minted ID).
	Data any
}

// ErrQueueFull is returned when the command queue has reached capacity.
var ErrQueueFull = errors.New("command queue is full")
