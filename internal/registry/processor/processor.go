// Package processor provides the FIFO command processor that serializes all
// registry operations. The processor is the host-side op-dispatch discipline
// the core relies on: a single-threaded loop that applies exactly one
// operation at a time against the shared registry state, so no operation ever
// observes a partially-applied mutation of another.
package processor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tkaster/curio/internal/pubsub"
	"github.com/tkaster/curio/internal/registry/command"
)

// DefaultQueueCapacity is the default buffer size for the command queue.
const DefaultQueueCapacity = 1024

// ErrUnknownOpType is returned when no handler is registered for an
// operation type.
var ErrUnknownOpType = errors.New("unknown operation type")

// Handler executes a single operation against registry state.
//
// Handlers return either a successful Result or a typed domain error. They
// must stage every mutation first and commit only after all fallible checks
// have passed; the processor treats any returned error as "state unchanged".
type Handler interface {
	Handle(ctx context.Context, cmd command.Command) (*command.Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, cmd command.Command) (*command.Result, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, cmd command.Command) (*command.Result, error) {
	return f(ctx, cmd)
}

// Option configures the Processor.
type Option func(*Processor)

// WithQueueCapacity sets the command queue buffer capacity.
func WithQueueCapacity(capacity int) Option {
	return func(p *Processor) {
		p.queueCapacity = capacity
	}
}

// WithEventBus sets the event bus outcome records are published on.
func WithEventBus(bus *pubsub.Broker[any]) Option {
	return func(p *Processor) {
		p.eventBus = bus
	}
}

// WithMiddleware adds middleware applied to all handlers.
// Middleware is applied in order: the first middleware wraps outermost.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(p *Processor) {
		p.middlewares = append(p.middlewares, middlewares...)
	}
}

// Processor applies commands sequentially in FIFO order.
type Processor struct {
	queue         chan queueItem
	queueCapacity int

	handlers    map[command.OpType]Handler
	middlewares []Middleware

	eventBus *pubsub.Broker[any]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running atomic.Bool
	started atomic.Bool
	readyCh chan struct{}
	readyMu sync.Mutex
	ready   bool

	processedCount atomic.Int64
	errorCount     atomic.Int64
}

// queueItem wraps a command with an optional result channel for SubmitAndWait.
type queueItem struct {
	cmd      command.Command
	resultCh chan *response // nil for fire-and-forget Submit
}

// response wraps the result for SubmitAndWait.
type response struct {
	result *command.Result
}

// New creates a Processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		queueCapacity: DefaultQueueCapacity,
		handlers:      make(map[command.OpType]Handler),
		readyCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register registers a handler for an operation type, wrapped with all
// configured middleware. Must be called before Run.
func (p *Processor) Register(opType command.OpType, handler Handler) {
	p.handlers[opType] = ChainMiddleware(handler, p.middlewares...)
}

// Run starts the processing loop and blocks until the context is cancelled
// or Stop is called. Run can only be called once; subsequent calls return
// immediately.
func (p *Processor) Run(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.queue = make(chan queueItem, p.queueCapacity)

	p.wg.Add(1)
	p.running.Store(true)

	p.readyMu.Lock()
	if !p.ready {
		close(p.readyCh)
		p.ready = true
	}
	p.readyMu.Unlock()

	defer func() {
		p.running.Store(false)
		p.wg.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case item, ok := <-p.queue:
			if !ok {
				// Queue closed during Drain.
				return
			}
			p.processItem(item)
		}
	}
}

// WaitForReady blocks until the processor accepts commands, or the context is
// cancelled.
func (p *Processor) WaitForReady(ctx context.Context) error {
	select {
	case <-p.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit adds a command to the queue for asynchronous processing. It returns
// immediately, with ErrQueueFull if the queue is at capacity.
func (p *Processor) Submit(cmd command.Command) error {
	if !p.running.Load() {
		return command.ErrQueueFull
	}

	select {
	case p.queue <- queueItem{cmd: cmd}:
		return nil
	default:
		return command.ErrQueueFull
	}
}

// SubmitAndWait adds a command to the queue and waits for its result.
// Respects context cancellation.
func (p *Processor) SubmitAndWait(ctx context.Context, cmd command.Command) (*command.Result, error) {
	if !p.running.Load() {
		return nil, command.ErrQueueFull
	}

	resultCh := make(chan *response, 1)
	select {
	case p.queue <- queueItem{cmd: cmd, resultCh: resultCh}:
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, command.ErrQueueFull
	}

	select {
	case resp := <-resultCh:
		return resp.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, context.Canceled
	}
}

// Stop cancels the processing context and waits for shutdown. Pending
// commands are NOT processed.
func (p *Processor) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Drain processes all remaining queued commands before stopping.
func (p *Processor) Drain() {
	if !p.running.Load() {
		return
	}
	p.running.Store(false)
	close(p.queue)
	p.wg.Wait()
}

// IsRunning reports whether the processor is accepting commands.
func (p *Processor) IsRunning() bool {
	return p.running.Load()
}

// ProcessedCount returns the total number of commands processed.
func (p *Processor) ProcessedCount() int64 {
	return p.processedCount.Load()
}

// ErrorCount returns the total number of commands that failed.
func (p *Processor) ErrorCount() int64 {
	return p.errorCount.Load()
}

// QueueLength returns the current number of pending commands.
func (p *Processor) QueueLength() int {
	if p.queue == nil {
		return 0
	}
	return len(p.queue)
}

// processItem handles a single command from the queue.
func (p *Processor) processItem(item queueItem) {
	result := p.process(item.cmd)

	p.processedCount.Add(1)
	if !result.Success {
		p.errorCount.Add(1)
	}

	if item.resultCh != nil {
		item.resultCh <- &response{result: result}
		close(item.resultCh)
	}
}

// process executes the command pipeline. Failures are wrapped in the Result;
// the pipeline itself never errors.
func (p *Processor) process(cmd command.Command) *command.Result {
	if err := cmd.Validate(); err != nil {
		return p.fail(cmd, err)
	}

	handler, ok := p.handlers[cmd.Type()]
	if !ok {
		return p.fail(cmd, ErrUnknownOpType)
	}

	result, err := handler.Handle(p.ctx, cmd)
	if err != nil {
		return p.fail(cmd, err)
	}
	if result == nil {
		result = &command.Result{Success: true}
	}

	for _, event := range result.Events {
		p.publish(event)
	}
	return result
}

// fail builds a failure result and publishes an error event.
func (p *Processor) fail(cmd command.Command, err error) *command.Result {
	p.publish(OpErrorEvent{
		CommandID: cmd.ID(),
		OpType:    cmd.Type(),
		Err:       err,
	})
	return &command.Result{Success: false, Error: err}
}

// publish sends an event to the bus, if one is configured.
func (p *Processor) publish(event any) {
	if p.eventBus == nil {
		return
	}
	p.eventBus.Publish(pubsub.UpdatedEvent, event)
}
