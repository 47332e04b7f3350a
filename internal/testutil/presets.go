package testutil

import (
	"testing"

	"github.com/tkaster/curio/internal/registry"
)

// MarketScene is a small ready-made scenario: alice holds two collectibles,
// one listed at 100, and bob holds one unlisted. Tests that only need "some
// state with a listing" start here instead of rebuilding it.
func MarketScene(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(t).
		WithCollectible(MakeID(0x01), "alice", ListedAt(100)).
		WithCollectible(MakeID(0x02), "alice", Tagged(registry.AttributeYellow)).
		WithCollectible(MakeID(0x03), "bob")
}
