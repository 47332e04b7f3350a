package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkaster/curio/internal/registry"
)

func makeID(b byte) registry.ID {
	var id registry.ID
	id[0] = b
	return id
}

func mint(t *testing.T, repo *MemoryStateRepository, id registry.ID, owner registry.AccountID) {
	t.Helper()
	owned, err := registry.AppendOwned(repo.Owned(owner), id, 100)
	require.NoError(t, err)
	repo.CommitMint(registry.Collectible{ID: id, Owner: owner}, owned, repo.Count()+1)
}

func TestMemoryStateRepository_CommitMint(t *testing.T) {
	repo := NewMemoryStateRepository()

	mint(t, repo, makeID(1), "alice")

	c, ok := repo.Get(makeID(1))
	require.True(t, ok)
	assert.Equal(t, registry.AccountID("alice"), c.Owner)
	assert.Equal(t, uint64(1), repo.Count())
	assert.Equal(t, []registry.ID{makeID(1)}, repo.Owned("alice"))
}

func TestMemoryStateRepository_GetReturnsClone(t *testing.T) {
	repo := NewMemoryStateRepository()
	price := registry.Amount(10)
	repo.CommitMint(registry.Collectible{ID: makeID(1), Owner: "alice", Price: &price}, []registry.ID{makeID(1)}, 1)

	c, ok := repo.Get(makeID(1))
	require.True(t, ok)
	*c.Price = 999

	again, _ := repo.Get(makeID(1))
	assert.Equal(t, registry.Amount(10), *again.Price, "stored price must not alias returned copies")
}

func TestMemoryStateRepository_CommitTransfer(t *testing.T) {
	repo := NewMemoryStateRepository()
	mint(t, repo, makeID(1), "alice")

	c, _ := repo.Get(makeID(1))
	c.Owner = "bob"
	c.Price = nil
	repo.CommitTransfer(c, "alice", "bob",
		registry.RemoveOwned(repo.Owned("alice"), makeID(1)),
		[]registry.ID{makeID(1)},
	)

	got, _ := repo.Get(makeID(1))
	assert.Equal(t, registry.AccountID("bob"), got.Owner)
	assert.Empty(t, repo.Owned("alice"))
	assert.Equal(t, []registry.ID{makeID(1)}, repo.Owned("bob"))
	assert.Equal(t, uint64(1), repo.Count(), "transfer must not change the count")
}

func TestMemoryStateRepository_CommitPrice(t *testing.T) {
	repo := NewMemoryStateRepository()
	mint(t, repo, makeID(1), "alice")

	c, _ := repo.Get(makeID(1))
	price := registry.Amount(50)
	c.Price = &price
	repo.CommitPrice(c)

	got, _ := repo.Get(makeID(1))
	require.NotNil(t, got.Price)
	assert.Equal(t, registry.Amount(50), *got.Price)

	got.Price = nil
	repo.CommitPrice(got)
	delisted, _ := repo.Get(makeID(1))
	assert.Nil(t, delisted.Price)
}

func TestMemoryStateRepository_CommitDestroy(t *testing.T) {
	repo := NewMemoryStateRepository()
	mint(t, repo, makeID(1), "alice")
	mint(t, repo, makeID(2), "alice")

	repo.CommitDestroy(makeID(1), "alice", registry.RemoveOwned(repo.Owned("alice"), makeID(1)), repo.Count()-1)

	_, ok := repo.Get(makeID(1))
	assert.False(t, ok)
	assert.Equal(t, uint64(1), repo.Count())
	assert.Equal(t, []registry.ID{makeID(2)}, repo.Owned("alice"))
}

func TestMemoryStateRepository_EmptyOwnerDropsIndexEntry(t *testing.T) {
	repo := NewMemoryStateRepository()
	mint(t, repo, makeID(1), "alice")

	repo.CommitDestroy(makeID(1), "alice", registry.RemoveOwned(repo.Owned("alice"), makeID(1)), 0)

	assert.Empty(t, repo.Owned("alice"))
	require.NoError(t, repo.CheckInvariants(100))
}

func TestMemoryStateRepository_Restore(t *testing.T) {
	price := registry.Amount(7)
	collectibles := []registry.Collectible{
		{ID: makeID(1), Owner: "alice", Price: &price},
		{ID: makeID(2), Owner: "alice"},
		{ID: makeID(3), Owner: "bob"},
	}

	repo := NewMemoryStateRepository()
	require.NoError(t, repo.Restore(collectibles))

	assert.Equal(t, uint64(3), repo.Count())
	assert.Len(t, repo.Owned("alice"), 2)
	assert.Len(t, repo.Owned("bob"), 1)
	require.NoError(t, repo.CheckInvariants(100))

	c, ok := repo.Get(makeID(1))
	require.True(t, ok)
	require.NotNil(t, c.Price)
	assert.Equal(t, registry.Amount(7), *c.Price)
}

func TestMemoryStateRepository_RestoreRejectsDuplicates(t *testing.T) {
	repo := NewMemoryStateRepository()
	err := repo.Restore([]registry.Collectible{
		{ID: makeID(1), Owner: "alice"},
		{ID: makeID(1), Owner: "bob"},
	})
	assert.ErrorIs(t, err, registry.ErrDuplicateCollectible)
}

func TestMemoryStateRepository_All(t *testing.T) {
	repo := NewMemoryStateRepository()
	mint(t, repo, makeID(1), "alice")
	mint(t, repo, makeID(2), "bob")

	all := repo.All()
	assert.Len(t, all, 2)
}
