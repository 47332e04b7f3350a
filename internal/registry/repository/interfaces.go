// Package repository defines the storage contract for registry state and its
// canonical in-memory implementation. Handlers read state, stage fully
// validated updates, and commit them through the Commit methods; each Commit
// is a single infallible step so no operation can leave partial state behind.
package repository

import "github.com/tkaster/curio/internal/registry"

// StateReader provides read-only access to registry state. API queries use
// this view; they must never observe a half-applied operation.
type StateReader interface {
	// Get returns the collectible for id, if present. The returned value is a
	// copy; mutating it does not touch stored state.
	Get(id registry.ID) (registry.Collectible, bool)

	// Count returns the number of collectibles in the store. The count equals
	// the store size at all times.
	Count() uint64

	// Owned returns a copy of the account's owned-ID collection. Order is
	// arbitrary (removal does not preserve it).
	Owned(account registry.AccountID) []registry.ID

	// All returns copies of every collectible in the store, in arbitrary order.
	All() []registry.Collectible
}

// StateRepository is the full contract handlers commit through.
//
// Commit methods are infallible by design: every fallible check happens while
// staging, before any Commit is invoked. A Commit applies all of its writes
// under one lock acquisition, so no intermediate state is observable.
type StateRepository interface {
	StateReader

	// CommitMint inserts a new collectible, replaces the owner's collection,
	// and sets the new count.
	CommitMint(c registry.Collectible, owned []registry.ID, count uint64)

	// CommitTransfer updates the collectible record and both owner
	// collections as a single logical step.
	CommitTransfer(c registry.Collectible, from, to registry.AccountID, fromOwned, toOwned []registry.ID)

	// CommitPrice replaces the collectible record. Used by set-price and
	// delist, which touch no owner collection.
	CommitPrice(c registry.Collectible)

	// CommitDestroy removes the collectible, replaces the owner's collection,
	// and sets the new count.
	CommitDestroy(id registry.ID, owner registry.AccountID, owned []registry.ID, count uint64)

	// Restore replaces all state with the given collectibles, rebuilding the
	// owner index and count. Used when loading a snapshot at startup.
	Restore(collectibles []registry.Collectible) error
}
