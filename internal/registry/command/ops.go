package command

// The six registry operations. Validate covers the static shape of a command
// only; every state-dependent check (existence, ownership, listing, bounds)
// lives in the handlers so that it is evaluated against the state current at
// execution time, not at submission time.

import (
	"errors"
	"fmt"

	"github.com/tkaster/curio/internal/registry"
)

// ErrMissingCaller indicates a command without an authenticated caller.
var ErrMissingCaller = errors.New("caller account is required")

// ErrMissingRecipient indicates a transfer without a recipient.
var ErrMissingRecipient = errors.New("recipient account is required")

// MintCommand creates a new collectible owned by the caller.
type MintCommand struct {
	BaseCommand
	Caller registry.AccountID
}

// NewMintCommand creates a mint command.
func NewMintCommand(source Source, caller registry.AccountID) *MintCommand {
	return &MintCommand{
		BaseCommand: NewBaseCommand(OpMint, source),
		Caller:      caller,
	}
}

// Validate implements Command.
func (c *MintCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *MintCommand) ContentHash() string {
	// Mints carry no distinguishing payload besides the caller; the command
	// ID keeps legitimate repeated mints from being treated as duplicates.
	return fmt.Sprintf("%s|%s", c.Caller, c.ID())
}

// DestroyCommand removes a collectible owned by the caller.
type DestroyCommand struct {
	BaseCommand
	Caller        registry.AccountID
	CollectibleID registry.ID
}

// NewDestroyCommand creates a destroy command.
func NewDestroyCommand(source Source, caller registry.AccountID, id registry.ID) *DestroyCommand {
	return &DestroyCommand{
		BaseCommand:   NewBaseCommand(OpDestroy, source),
		Caller:        caller,
		CollectibleID: id,
	}
}

// Validate implements Command.
func (c *DestroyCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	if c.CollectibleID.IsZero() {
		return registry.ErrInvalidID
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *DestroyCommand) ContentHash() string {
	return fmt.Sprintf("%s|%s", c.Caller, c.CollectibleID)
}

// TransferCommand moves a collectible from the caller to another account.
type TransferCommand struct {
	BaseCommand
	Caller        registry.AccountID
	To            registry.AccountID
	CollectibleID registry.ID
}

// NewTransferCommand creates a transfer command.
func NewTransferCommand(source Source, caller, to registry.AccountID, id registry.ID) *TransferCommand {
	return &TransferCommand{
		BaseCommand:   NewBaseCommand(OpTransfer, source),
		Caller:        caller,
		To:            to,
		CollectibleID: id,
	}
}

// Validate implements Command.
func (c *TransferCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	if c.To == "" {
		return ErrMissingRecipient
	}
	if c.CollectibleID.IsZero() {
		return registry.ErrInvalidID
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *TransferCommand) ContentHash() string {
	return fmt.Sprintf("%s|%s|%s", c.Caller, c.To, c.CollectibleID)
}

// SetPriceCommand lists a collectible for sale at the given price.
type SetPriceCommand struct {
	BaseCommand
	Caller        registry.AccountID
	CollectibleID registry.ID
	Price         registry.Amount
}

// NewSetPriceCommand creates a set-price command.
func NewSetPriceCommand(source Source, caller registry.AccountID, id registry.ID, price registry.Amount) *SetPriceCommand {
	return &SetPriceCommand{
		BaseCommand:   NewBaseCommand(OpSetPrice, source),
		Caller:        caller,
		CollectibleID: id,
		Price:         price,
	}
}

// Validate implements Command.
func (c *SetPriceCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	if c.CollectibleID.IsZero() {
		return registry.ErrInvalidID
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *SetPriceCommand) ContentHash() string {
	return fmt.Sprintf("%s|%s|%d", c.Caller, c.CollectibleID, c.Price)
}

// DelistCommand retires a collectible from the market.
type DelistCommand struct {
	BaseCommand
	Caller        registry.AccountID
	CollectibleID registry.ID
}

// NewDelistCommand creates a delist command.
func NewDelistCommand(source Source, caller registry.AccountID, id registry.ID) *DelistCommand {
	return &DelistCommand{
		BaseCommand:   NewBaseCommand(OpDelist, source),
		Caller:        caller,
		CollectibleID: id,
	}
}

// Validate implements Command.
func (c *DelistCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	if c.CollectibleID.IsZero() {
		return registry.ErrInvalidID
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *DelistCommand) ContentHash() string {
	return fmt.Sprintf("%s|%s", c.Caller, c.CollectibleID)
}

// BuyCommand purchases a listed collectible. The buyer is charged the listed
// price even when the offer is higher.
type BuyCommand struct {
	BaseCommand
	Caller        registry.AccountID
	CollectibleID registry.ID
	OfferedPrice  registry.Amount
}

// NewBuyCommand creates a buy command.
func NewBuyCommand(source Source, caller registry.AccountID, id registry.ID, offered registry.Amount) *BuyCommand {
	return &BuyCommand{
		BaseCommand:   NewBaseCommand(OpBuy, source),
		Caller:        caller,
		CollectibleID: id,
		OfferedPrice:  offered,
	}
}

// Validate implements Command.
func (c *BuyCommand) Validate() error {
	if c.Caller == "" {
		return ErrMissingCaller
	}
	if c.CollectibleID.IsZero() {
		return registry.ErrInvalidID
	}
	return nil
}

// ContentHash implements the dedup middleware's content hashing.
func (c *BuyCommand) ContentHash() string {
	return fmt.Sprintf("%s|%s|%d", c.Caller, c.CollectibleID, c.OfferedPrice)
}
