package handler

import (
	"context"

	"github.com/tkaster/curio/internal/bank"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/repository"
)

// SetPriceHandler handles OpSetPrice commands.
type SetPriceHandler struct {
	state repository.StateRepository
}

// NewSetPriceHandler creates a SetPriceHandler.
func NewSetPriceHandler(state repository.StateRepository) *SetPriceHandler {
	return &SetPriceHandler{state: state}
}

// Handle lists a collectible for sale at the given price. Re-listing an
// already listed collectible simply replaces the price.
func (h *SetPriceHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	set := cmd.(*command.SetPriceCommand)

	c, ok := h.state.Get(set.CollectibleID)
	if !ok {
		return nil, registry.ErrNoCollectible
	}
	if c.Owner != set.Caller {
		return nil, registry.ErrNotOwner
	}

	price := set.Price
	c.Price = &price
	h.state.CommitPrice(c)

	return &command.Result{
		Success: true,
		Events:  []any{registry.PriceSet{ID: set.CollectibleID, Price: set.Price}},
	}, nil
}

// DelistHandler handles OpDelist commands.
type DelistHandler struct {
	state repository.StateRepository
}

// NewDelistHandler creates a DelistHandler.
func NewDelistHandler(state repository.StateRepository) *DelistHandler {
	return &DelistHandler{state: state}
}

// Handle takes a listed collectible off the market. Delisting an unlisted
// collectible fails with ErrNotForSale.
func (h *DelistHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	delist := cmd.(*command.DelistCommand)

	c, ok := h.state.Get(delist.CollectibleID)
	if !ok {
		return nil, registry.ErrNoCollectible
	}
	if c.Owner != delist.Caller {
		return nil, registry.ErrNotOwner
	}
	if !c.Listed() {
		return nil, registry.ErrNotForSale
	}

	c.Price = nil
	h.state.CommitPrice(c)

	return &command.Result{
		Success: true,
		Events:  []any{registry.NotLongerOnSale{ID: delist.CollectibleID}},
	}, nil
}

// BuyHandler handles OpBuy commands. A purchase settles at the listed price,
// never the offered amount; the offer only establishes the buyer's ceiling.
type BuyHandler struct {
	state    repository.StateRepository
	bank     bank.Service
	maxOwned uint32
}

// NewBuyHandler creates a BuyHandler.
func NewBuyHandler(state repository.StateRepository, ledger bank.Service, maxOwned uint32) *BuyHandler {
	return &BuyHandler{state: state, bank: ledger, maxOwned: maxOwned}
}

// Handle purchases a listed collectible. The monetary transfer is the last
// fallible step: by the time the ledger is touched every registry check has
// passed, so a ledger failure leaves both registry and ledger unchanged.
func (h *BuyHandler) Handle(_ context.Context, cmd command.Command) (*command.Result, error) {
	buy := cmd.(*command.BuyCommand)

	c, ok := h.state.Get(buy.CollectibleID)
	if !ok {
		return nil, registry.ErrNoCollectible
	}
	if !c.Listed() {
		return nil, registry.ErrNotForSale
	}
	listed := *c.Price
	if buy.OfferedPrice < listed {
		return nil, registry.ErrOfferedPriceTooLow
	}
	seller := c.Owner

	staged, err := preTransfer(h.state, buy.CollectibleID, buy.Caller, h.maxOwned)
	if err != nil {
		return nil, err
	}

	if err := h.bank.Transfer(buy.Caller, seller, listed); err != nil {
		return nil, err
	}
	commitTransfer(h.state, staged)

	return &command.Result{
		Success: true,
		Events: []any{registry.Sold{
			Seller: seller,
			Buyer:  buy.Caller,
			ID:     buy.CollectibleID,
			Price:  listed,
		}},
	}, nil
}
