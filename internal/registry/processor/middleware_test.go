package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
)

var testCollectibleID = registry.ID{0xAB}

func okHandler() Handler {
	return HandlerFunc(func(_ context.Context, _ command.Command) (*command.Result, error) {
		return &command.Result{Success: true}, nil
	})
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
				order = append(order, name+" in")
				result, err := next.Handle(ctx, cmd)
				order = append(order, name+" out")
				return result, err
			})
		}
	}

	h := ChainMiddleware(okHandler(), tag("first"), tag("second"))
	_, err := h.Handle(context.Background(), command.NewMintCommand(command.SourceAPI, "alice"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first in", "second in", "second out", "first out"}, order)
}

func TestChainMiddleware_Empty(t *testing.T) {
	h := okHandler()
	assert.NotNil(t, ChainMiddleware(h))
}

func TestDeduplicationMiddleware_RejectsDuplicate(t *testing.T) {
	dedup := NewDeduplicationMiddleware(time.Minute)
	var calls int
	h := dedup.Middleware()(HandlerFunc(func(_ context.Context, _ command.Command) (*command.Result, error) {
		calls++
		return &command.Result{Success: true}, nil
	}))

	first := command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID)
	result, err := h.Handle(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// A fresh command with identical content is a duplicate within the window.
	second := command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID)
	result, err = h.Handle(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, ErrDuplicateCommand)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, dedup.CacheSize())
}

func TestDeduplicationMiddleware_DistinctContentPasses(t *testing.T) {
	dedup := NewDeduplicationMiddleware(time.Minute)
	h := dedup.Middleware()(okHandler())

	result, err := h.Handle(context.Background(), command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID))
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = h.Handle(context.Background(), command.NewDestroyCommand(command.SourceAPI, "bob", testCollectibleID))
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Same caller and collectible but a different operation type.
	result, err = h.Handle(context.Background(), command.NewDelistCommand(command.SourceAPI, "alice", testCollectibleID))
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, 3, dedup.CacheSize())
}

func TestDeduplicationMiddleware_MintsNeverCollide(t *testing.T) {
	dedup := NewDeduplicationMiddleware(time.Minute)
	h := dedup.Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		result, err := h.Handle(context.Background(), command.NewMintCommand(command.SourceAPI, "alice"))
		require.NoError(t, err)
		assert.True(t, result.Success)
	}
}

func TestDeduplicationMiddleware_ExpiresAfterTTL(t *testing.T) {
	dedup := NewDeduplicationMiddleware(20 * time.Millisecond)
	h := dedup.Middleware()(okHandler())

	result, err := h.Handle(context.Background(), command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID))
	require.NoError(t, err)
	assert.True(t, result.Success)

	time.Sleep(50 * time.Millisecond)

	result, err = h.Handle(context.Background(), command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID))
	require.NoError(t, err)
	assert.True(t, result.Success, "entry should expire after the TTL window")
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []OpLogEvent
}

func (p *recordingPublisher) Publish(_ string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := payload.(OpLogEvent); ok {
		p.events = append(p.events, ev)
	}
}

func (p *recordingPublisher) logged() []OpLogEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OpLogEvent(nil), p.events...)
}

func TestCommandLogMiddleware_Success(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewCommandLogMiddleware(pub)(okHandler())

	cmd := command.NewMintCommand(command.SourceCLI, "alice")
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	events := pub.logged()
	require.Len(t, events, 1)
	assert.Equal(t, cmd.ID(), events[0].CommandID)
	assert.Equal(t, command.OpMint, events[0].OpType)
	assert.Equal(t, command.SourceCLI, events[0].Source)
	assert.True(t, events[0].Success)
	assert.NoError(t, events[0].Error)
}

func TestCommandLogMiddleware_Failure(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewCommandLogMiddleware(pub)(HandlerFunc(func(_ context.Context, _ command.Command) (*command.Result, error) {
		return &command.Result{Success: false, Error: registry.ErrNoCollectible}, nil
	}))

	_, err := h.Handle(context.Background(), command.NewDestroyCommand(command.SourceAPI, "alice", testCollectibleID))
	require.NoError(t, err)

	events := pub.logged()
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.ErrorIs(t, events[0].Error, registry.ErrNoCollectible)
}

func TestCommandLogMiddleware_NilPublisher(t *testing.T) {
	h := NewCommandLogMiddleware(nil)(okHandler())

	result, err := h.Handle(context.Background(), command.NewMintCommand(command.SourceAPI, "alice"))
	require.NoError(t, err)
	assert.True(t, result.Success)
}
