// Package handler provides the operation handlers for the registry. Every
// handler follows the same stage-then-commit discipline: read state, run all
// fallible checks on staged copies, then apply the staged writes through a
// single infallible repository commit. A handler that returns an error has
// not touched shared state.
package handler

import (
	"context"

	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/repository"
)

// stagedTransfer holds the fully validated, uncommitted result of
// preTransfer: the updated collectible and both owner collections.
type stagedTransfer struct {
	collectible registry.Collectible
	from        registry.AccountID
	fromOwned   []registry.ID
	toOwned     []registry.ID
}

// preTransfer runs every check shared by plain transfers and purchases and
// stages the new state without mutating the repository.
//
// It fails with ErrNoCollectible if the id is unknown (callers check this
// first, the guard here backstops them), ErrTransferToSelf if the recipient
// already owns the collectible, and ErrMaximumOwned if the recipient's
// collection is full. On success the staged collectible has its owner set to
// the recipient and its price cleared: a moved collectible is never listed,
// the new owner must relist it.
func preTransfer(state repository.StateRepository, id registry.ID, to registry.AccountID, maxOwned uint32) (stagedTransfer, error) {
	c, ok := state.Get(id)
	if !ok {
		return stagedTransfer{}, registry.ErrNoCollectible
	}
	from := c.Owner
	if from == to {
		return stagedTransfer{}, registry.ErrTransferToSelf
	}

	// The sender's collection must contain the id; RemoveOwned silently
	// returns an unchanged copy if it does not, which would indicate a prior
	// invariant violation rather than a failure of this operation.
	fromOwned := registry.RemoveOwned(state.Owned(from), id)

	toOwned, err := registry.AppendOwned(state.Owned(to), id, maxOwned)
	if err != nil {
		return stagedTransfer{}, err
	}

	c.Owner = to
	c.Price = nil

	return stagedTransfer{
		collectible: c,
		from:        from,
		fromOwned:   fromOwned,
		toOwned:     toOwned,
	}, nil
}

// commitTransfer applies the three staged writes as one step.
func commitTransfer(state repository.StateRepository, staged stagedTransfer) {
	state.CommitTransfer(staged.collectible, staged.from, staged.collectible.Owner, staged.fromOwned, staged.toOwned)
}

// TransferHandler handles OpTransfer commands.
type TransferHandler struct {
	state    repository.StateRepository
	maxOwned uint32
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(state repository.StateRepository, maxOwned uint32) *TransferHandler {
	return &TransferHandler{state: state, maxOwned: maxOwned}
}

// Handle moves a collectible owned by the caller to another account.
func (h *TransferHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	transfer := cmd.(*command.TransferCommand)

	c, ok := h.state.Get(transfer.CollectibleID)
	if !ok {
		return nil, registry.ErrNoCollectible
	}
	if c.Owner != transfer.Caller {
		return nil, registry.ErrNotOwner
	}

	staged, err := preTransfer(h.state, transfer.CollectibleID, transfer.To, h.maxOwned)
	if err != nil {
		return nil, err
	}
	commitTransfer(h.state, staged)

	return &command.Result{
		Success: true,
		Events: []any{registry.TransferSucceeded{
			From: staged.from,
			To:   transfer.To,
			ID:   transfer.CollectibleID,
		}},
	}, nil
}
