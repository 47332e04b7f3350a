package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
)

func TestMintHandler_Success(t *testing.T) {
	e := newEnv()

	result, err := e.mint.Handle(context.Background(), command.NewMintCommand(command.SourceInternal, "alice"))
	require.NoError(t, err)
	require.True(t, result.Success)

	c := result.Data.(registry.Collectible)
	assert.False(t, c.ID.IsZero())
	assert.Equal(t, registry.AccountID("alice"), c.Owner)
	assert.Nil(t, c.Price, "a fresh mint is never listed")

	stored, ok := e.state.Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, c, stored)
	assert.Equal(t, uint64(1), e.state.Count())
	assert.Equal(t, []registry.ID{c.ID}, e.state.Owned("alice"))

	require.Len(t, result.Events, 1)
	created := result.Events[0].(registry.CollectibleCreated)
	assert.Equal(t, c.ID, created.ID)
	assert.Equal(t, registry.AccountID("alice"), created.Owner)
}

func TestMintHandler_MaximumOwned(t *testing.T) {
	e := newEnv()
	for i := 0; i < testMaxOwned; i++ {
		e.mintFor(t, "alice")
	}

	_, err := e.mint.Handle(context.Background(), command.NewMintCommand(command.SourceInternal, "alice"))
	assert.ErrorIs(t, err, registry.ErrMaximumOwned)
	assert.Equal(t, uint64(testMaxOwned), e.state.Count(), "failed mint must not change the count")
	assert.Len(t, e.state.Owned("alice"), testMaxOwned)
}

func TestMintHandler_AttributeAssigned(t *testing.T) {
	e := newEnv()

	c := e.mintFor(t, "alice")
	if c.ID[0]%2 == 0 {
		assert.Equal(t, registry.AttributeRed, c.Attribute)
	} else {
		assert.Equal(t, registry.AttributeYellow, c.Attribute)
	}
}

func TestDestroyHandler_Success(t *testing.T) {
	e := newEnv()
	c := e.mintFor(t, "alice")
	keep := e.mintFor(t, "alice")

	result, err := e.destroy.Handle(context.Background(),
		command.NewDestroyCommand(command.SourceInternal, "alice", c.ID))
	require.NoError(t, err)
	require.True(t, result.Success)

	_, ok := e.state.Get(c.ID)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), e.state.Count())
	assert.Equal(t, []registry.ID{keep.ID}, e.state.Owned("alice"))

	require.Len(t, result.Events, 1)
	assert.Equal(t, registry.CollectibleDestroyed{ID: c.ID}, result.Events[0])
}

func TestDestroyHandler_ListedCollectible(t *testing.T) {
	// A listing dies with its collectible; destroy never requires delisting
	// first.
	e := newEnv()
	c := e.listFor(t, "alice", 50)

	_, err := e.destroy.Handle(context.Background(),
		command.NewDestroyCommand(command.SourceInternal, "alice", c.ID))
	require.NoError(t, err)

	_, ok := e.state.Get(c.ID)
	assert.False(t, ok)
}

func TestDestroyHandler_Failures(t *testing.T) {
	e := newEnv()
	c := e.mintFor(t, "alice")

	tests := []struct {
		name    string
		caller  registry.AccountID
		id      registry.ID
		wantErr error
	}{
		{"unknown collectible", "alice", registry.ID{0xFF}, registry.ErrNoCollectible},
		{"not the owner", "bob", c.ID, registry.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.destroy.Handle(context.Background(),
				command.NewDestroyCommand(command.SourceInternal, tt.caller, tt.id))
			assert.ErrorIs(t, err, tt.wantErr)
			e.requireUnchanged(t, c)
			assert.Equal(t, uint64(1), e.state.Count())
		})
	}
}
