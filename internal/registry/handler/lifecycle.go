package handler

import (
	"context"
	"math"

	"github.com/tkaster/curio/internal/entropy"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/repository"
)

// MintHandler handles OpMint commands. Each mint draws fresh entropy, derives
// a deterministic id and attribute from it, and records the collectible under
// the caller's account.
type MintHandler struct {
	state    repository.StateRepository
	entropy  entropy.Source
	sequence entropy.Context
	maxOwned uint32
}

// NewMintHandler creates a MintHandler.
func NewMintHandler(state repository.StateRepository, src entropy.Source, seq entropy.Context, maxOwned uint32) *MintHandler {
	return &MintHandler{state: state, entropy: src, sequence: seq, maxOwned: maxOwned}
}

// Handle mints a new collectible for the caller.
func (h *MintHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	mint := cmd.(*command.MintCommand)

	draw := h.entropy.Random([]byte(registry.EntropyDomainTag))
	opIndex, height := h.sequence.OpContext()
	id, attr := registry.GenerateID(draw, opIndex, height)

	if _, exists := h.state.Get(id); exists {
		return nil, registry.ErrDuplicateCollectible
	}

	count := h.state.Count()
	if count == math.MaxUint64 {
		return nil, registry.ErrBoundsOverflow
	}

	owned, err := registry.AppendOwned(h.state.Owned(mint.Caller), id, h.maxOwned)
	if err != nil {
		return nil, err
	}

	c := registry.Collectible{
		ID:        id,
		Owner:     mint.Caller,
		Attribute: attr,
	}
	h.state.CommitMint(c, owned, count+1)

	return &command.Result{
		Success: true,
		Events:  []any{registry.CollectibleCreated{ID: id, Owner: mint.Caller}},
		Data:    c,
	}, nil
}

// DestroyHandler handles OpDestroy commands.
type DestroyHandler struct {
	state repository.StateRepository
}

// NewDestroyHandler creates a DestroyHandler.
func NewDestroyHandler(state repository.StateRepository) *DestroyHandler {
	return &DestroyHandler{state: state}
}

// Handle permanently removes a collectible owned by the caller. Listed
// collectibles may be destroyed; the listing dies with them.
func (h *DestroyHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	destroy := cmd.(*command.DestroyCommand)

	c, ok := h.state.Get(destroy.CollectibleID)
	if !ok {
		return nil, registry.ErrNoCollectible
	}
	if c.Owner != destroy.Caller {
		return nil, registry.ErrNotOwner
	}

	owned := registry.RemoveOwned(h.state.Owned(destroy.Caller), destroy.CollectibleID)
	h.state.CommitDestroy(destroy.CollectibleID, destroy.Caller, owned, h.state.Count()-1)

	return &command.Result{
		Success: true,
		Events:  []any{registry.CollectibleDestroyed{ID: destroy.CollectibleID}},
	}, nil
}
