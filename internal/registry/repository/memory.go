package repository

import (
	"fmt"
	"sync"

	"github.com/tkaster/curio/internal/registry"
)

// MemoryStateRepository is the canonical in-memory implementation of
// StateRepository.
//
// The command processor is the only writer, so the mutex exists for the
// benefit of concurrent read-only API queries, not for write/write races.
type MemoryStateRepository struct {
	mu           sync.RWMutex
	collectibles map[registry.ID]registry.Collectible
	owned        map[registry.AccountID][]registry.ID
	count        uint64
}

// NewMemoryStateRepository creates an empty repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		collectibles: make(map[registry.ID]registry.Collectible),
		owned:        make(map[registry.AccountID][]registry.ID),
	}
}

// Ensure MemoryStateRepository implements StateRepository.
var _ StateRepository = (*MemoryStateRepository)(nil)

// Get returns a copy of the collectible for id, if present.
func (r *MemoryStateRepository) Get(id registry.ID) (registry.Collectible, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collectibles[id]
	if !ok {
		return registry.Collectible{}, false
	}
	return c.Clone(), true
}

// Count returns the number of collectibles in the store.
func (r *MemoryStateRepository) Count() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// Owned returns a copy of the account's owned-ID collection.
func (r *MemoryStateRepository) Owned(account registry.AccountID) []registry.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.owned[account]
	out := make([]registry.ID, len(owned))
	copy(out, owned)
	return out
}

// All returns copies of every collectible, in arbitrary order.
func (r *MemoryStateRepository) All() []registry.Collectible {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registry.Collectible, 0, len(r.collectibles))
	for _, c := range r.collectibles {
		out = append(out, c.Clone())
	}
	return out
}

// CommitMint inserts a new collectible under one lock acquisition.
func (r *MemoryStateRepository) CommitMint(c registry.Collectible, owned []registry.ID, count uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.collectibles[c.ID] = c.Clone()
	r.setOwned(c.Owner, owned)
	r.count = count
}

// CommitTransfer applies the three staged transfer writes as one step.
func (r *MemoryStateRepository) CommitTransfer(c registry.Collectible, from, to registry.AccountID, fromOwned, toOwned []registry.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.collectibles[c.ID] = c.Clone()
	r.setOwned(from, fromOwned)
	r.setOwned(to, toOwned)
}

// CommitPrice replaces the collectible record.
func (r *MemoryStateRepository) CommitPrice(c registry.Collectible) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.collectibles[c.ID] = c.Clone()
}

// CommitDestroy removes the collectible and updates the owner index and count.
func (r *MemoryStateRepository) CommitDestroy(id registry.ID, owner registry.AccountID, owned []registry.ID, count uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collectibles, id)
	r.setOwned(owner, owned)
	r.count = count
}

// Restore replaces all state with the given collectibles, rebuilding the
// owner index and count.
func (r *MemoryStateRepository) Restore(collectibles []registry.Collectible) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store := make(map[registry.ID]registry.Collectible, len(collectibles))
	owned := make(map[registry.AccountID][]registry.ID)
	for _, c := range collectibles {
		if _, ok := store[c.ID]; ok {
			return fmt.Errorf("restore: duplicate collectible %s: %w", c.ID, registry.ErrDuplicateCollectible)
		}
		store[c.ID] = c.Clone()
		owned[c.Owner] = append(owned[c.Owner], c.ID)
	}

	r.collectibles = store
	r.owned = owned
	r.count = uint64(len(store))
	return nil
}

// setOwned stores the collection, dropping empty entries so the index never
// accumulates empty slices for accounts that no longer own anything.
func (r *MemoryStateRepository) setOwned(account registry.AccountID, owned []registry.ID) {
	if len(owned) == 0 {
		delete(r.owned, account)
		return
	}
	next := make([]registry.ID, len(owned))
	copy(next, owned)
	r.owned[account] = next
}

// CheckInvariants verifies the registry data invariants. It is used by the
// property tests after every operation sequence.
func (r *MemoryStateRepository) CheckInvariants(maxOwned uint32) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count != uint64(len(r.collectibles)) {
		return fmt.Errorf("count %d != store size %d", r.count, len(r.collectibles))
	}

	indexed := make(map[registry.ID]registry.AccountID)
	for account, owned := range r.owned {
		if uint32(len(owned)) > maxOwned {
			return fmt.Errorf("account %s owns %d collectibles, bound is %d", account, len(owned), maxOwned)
		}
		for _, id := range owned {
			if prev, ok := indexed[id]; ok {
				return fmt.Errorf("collectible %s indexed under both %s and %s", id, prev, account)
			}
			indexed[id] = account
			c, ok := r.collectibles[id]
			if !ok {
				return fmt.Errorf("index entry %s has no store entry", id)
			}
			if c.Owner != account {
				return fmt.Errorf("collectible %s indexed under %s but owned by %s", id, account, c.Owner)
			}
		}
	}

	for id, c := range r.collectibles {
		if indexed[id] != c.Owner {
			return fmt.Errorf("collectible %s missing from owner index", id)
		}
	}
	return nil
}
