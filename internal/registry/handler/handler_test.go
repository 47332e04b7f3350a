package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkaster/curio/internal/bank"
	"github.com/tkaster/curio/internal/entropy"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/repository"
)

const testMaxOwned = 3

// env bundles the collaborators every handler test needs.
type env struct {
	state    *repository.MemoryStateRepository
	ledger   *bank.MemoryLedger
	sequence *entropy.Sequence

	mint     *MintHandler
	destroy  *DestroyHandler
	transfer *TransferHandler
	setPrice *SetPriceHandler
	delist   *DelistHandler
	buy      *BuyHandler
}

func newEnv() *env {
	state := repository.NewMemoryStateRepository()
	ledger := bank.NewMemoryLedger()
	sequence := entropy.NewSequence(1)

	return &env{
		state:    state,
		ledger:   ledger,
		sequence: sequence,
		mint:     NewMintHandler(state, entropy.CryptoSource{}, sequence, testMaxOwned),
		destroy:  NewDestroyHandler(state),
		transfer: NewTransferHandler(state, testMaxOwned),
		setPrice: NewSetPriceHandler(state),
		delist:   NewDelistHandler(state),
		buy:      NewBuyHandler(state, ledger, testMaxOwned),
	}
}

// mintFor mints a collectible for the account and returns it.
func (e *env) mintFor(t *testing.T, account registry.AccountID) registry.Collectible {
	t.Helper()
	result, err := e.mint.Handle(context.Background(), command.NewMintCommand(command.SourceInternal, account))
	require.NoError(t, err)
	e.sequence.Tick()

	c, ok := result.Data.(registry.Collectible)
	require.True(t, ok, "mint result must carry the collectible")
	return c
}

// listFor mints and lists a collectible at the given price.
func (e *env) listFor(t *testing.T, account registry.AccountID, price registry.Amount) registry.Collectible {
	t.Helper()
	c := e.mintFor(t, account)
	_, err := e.setPrice.Handle(context.Background(), command.NewSetPriceCommand(command.SourceInternal, account, c.ID, price))
	require.NoError(t, err)

	listed, ok := e.state.Get(c.ID)
	require.True(t, ok)
	return listed
}

// fund deposits an opening balance.
func (e *env) fund(t *testing.T, account registry.AccountID, amount registry.Amount) {
	t.Helper()
	require.NoError(t, e.ledger.Deposit(account, amount))
}

// requireUnchanged asserts the collectible still matches a previous read.
func (e *env) requireUnchanged(t *testing.T, want registry.Collectible) {
	t.Helper()
	got, ok := e.state.Get(want.ID)
	require.True(t, ok, "collectible must still exist")
	require.Equal(t, want, got, "state must be unchanged after a failed operation")
}
