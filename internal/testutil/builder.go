// Package testutil provides fixture builders for registry tests. Fixtures
// accumulate collectibles declaratively and materialize them either as a
// plain slice or directly into a state repository via Restore.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/repository"
)

// Builder accumulates collectibles for a test scenario.
type Builder struct {
	t            *testing.T
	collectibles []registry.Collectible
}

// NewBuilder creates a builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithCollectible adds a collectible with optional configuration.
func (b *Builder) WithCollectible(id registry.ID, owner registry.AccountID, opts ...CollectibleOption) *Builder {
	c := registry.Collectible{ID: id, Owner: owner, Attribute: registry.AttributeRed}
	for _, opt := range opts {
		opt(&c)
	}
	b.collectibles = append(b.collectibles, c)
	return b
}

// Build returns the accumulated collectibles.
func (b *Builder) Build() []registry.Collectible {
	return append([]registry.Collectible(nil), b.collectibles...)
}

// Seed restores the accumulated collectibles into a fresh repository and
// fails the test on duplicate identifiers.
func (b *Builder) Seed() *repository.MemoryStateRepository {
	b.t.Helper()
	repo := repository.NewMemoryStateRepository()
	require.NoError(b.t, repo.Restore(b.Build()))
	return repo
}
