package processor

// Middleware wraps operation handlers to add cross-cutting concerns like
// logging, deduplication, and command-log events.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tkaster/curio/internal/log"
	"github.com/tkaster/curio/internal/registry/command"
)

// Middleware wraps a Handler to add additional behavior.
// Middleware functions are composed using ChainMiddleware.
type Middleware func(Handler) Handler

// ChainMiddleware applies middlewares to a handler in reverse order, so the
// first middleware in the list is the outermost wrapper.
func ChainMiddleware(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// ===========================================================================
// Logging Middleware
// ===========================================================================

// NewLoggingMiddleware creates a middleware that logs operation execution.
func NewLoggingMiddleware() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
			start := time.Now()

			result, err := next.Handle(ctx, cmd)

			duration := time.Since(start)
			source := ""
			if hasSource, ok := cmd.(interface{ Source() command.Source }); ok {
				source = hasSource.Source().String()
			}

			switch {
			case err != nil:
				log.Warn(log.CatProc, "operation rejected",
					"command_id", cmd.ID(),
					"op", cmd.Type().String(),
					"source", source,
					"duration", duration,
					"error", err.Error(),
				)
			case result != nil && !result.Success:
				errMsg := ""
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				log.Warn(log.CatProc, "operation failed",
					"command_id", cmd.ID(),
					"op", cmd.Type().String(),
					"source", source,
					"duration", duration,
					"error", errMsg,
				)
			default:
				log.Debug(log.CatProc, "operation applied",
					"command_id", cmd.ID(),
					"op", cmd.Type().String(),
					"source", source,
					"duration", duration,
				)
			}

			return result, err
		})
	}
}

// ===========================================================================
// Deduplication Middleware
// ===========================================================================

// DefaultDeduplicationTTL is the default window for rejecting duplicate
// commands.
const DefaultDeduplicationTTL = 5 * time.Second

// ErrDuplicateCommand is returned when a semantically identical command is
// resubmitted within the TTL window.
var ErrDuplicateCommand = errors.New("duplicate command within dedup window")

// contentHasher is implemented by commands that expose a dedup content hash
// excluding transient fields like the command ID and timestamp.
type contentHasher interface {
	ContentHash() string
}

// DeduplicationMiddleware rejects duplicate commands within a TTL window.
// The cache is a patrickmn/go-cache TTL cache with background expiry.
type DeduplicationMiddleware struct {
	cache *gocache.Cache
}

// NewDeduplicationMiddleware creates a deduplication middleware. A ttl of 0
// uses DefaultDeduplicationTTL.
func NewDeduplicationMiddleware(ttl time.Duration) *DeduplicationMiddleware {
	if ttl == 0 {
		ttl = DefaultDeduplicationTTL
	}
	return &DeduplicationMiddleware{
		cache: gocache.New(ttl, ttl/2),
	}
}

// CacheSize returns the current number of entries, for tests.
func (m *DeduplicationMiddleware) CacheSize() int {
	return m.cache.ItemCount()
}

// Middleware returns the middleware function.
func (m *DeduplicationMiddleware) Middleware() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
			hash := contentHash(cmd)

			if _, found := m.cache.Get(hash); found {
				log.Warn(log.CatProc, "duplicate command rejected",
					"command_id", cmd.ID(),
					"op", cmd.Type().String(),
					"content_hash", hash[:16],
				)
				return &command.Result{Success: false, Error: ErrDuplicateCommand}, nil
			}
			m.cache.SetDefault(hash, struct{}{})

			return next.Handle(ctx, cmd)
		})
	}
}

// contentHash computes a hash of the command content. Commands implementing
// contentHasher control what counts as "the same" operation; others fall back
// to their unique ID and are effectively never deduplicated.
func contentHash(cmd command.Command) string {
	h := sha256.New()
	h.Write([]byte(cmd.Type().String()))
	if hasher, ok := cmd.(contentHasher); ok {
		h.Write([]byte(hasher.ContentHash()))
	} else {
		h.Write([]byte(cmd.ID()))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ===========================================================================
// Command Log Middleware
// ===========================================================================

// EventPublisher publishes events. It decouples the middleware from the
// concrete bus so tests can use a recording publisher.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

// NewCommandLogMiddleware creates a middleware that emits an OpLogEvent for
// each processed command. With a nil publisher the middleware is a no-op.
func NewCommandLogMiddleware(bus EventPublisher) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
			if bus == nil {
				return next.Handle(ctx, cmd)
			}

			start := time.Now()
			result, err := next.Handle(ctx, cmd)
			duration := time.Since(start)

			success := err == nil && (result == nil || result.Success)
			var cmdErr error
			if err != nil {
				cmdErr = err
			} else if result != nil {
				cmdErr = result.Error
			}

			var source command.Source
			if hasSource, ok := cmd.(interface{ Source() command.Source }); ok {
				source = hasSource.Source()
			}
			var traceID string
			if hasTraceID, ok := cmd.(interface{ TraceID() string }); ok {
				traceID = hasTraceID.TraceID()
			}

			bus.Publish("updated", OpLogEvent{
				CommandID: cmd.ID(),
				OpType:    cmd.Type(),
				Source:    source,
				Success:   success,
				Error:     cmdErr,
				Duration:  duration,
				Timestamp: time.Now(),
				TraceID:   traceID,
			})

			return result, err
		})
	}
}
