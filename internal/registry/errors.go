package registry

// Sentinel errors shared by every operation. All failures are terminal: they
// are returned synchronously to the caller, nothing is retried internally,
// and no failure leaves partial state behind.

import "errors"

// ===========================================================================
// Lifecycle Errors
// ===========================================================================

// ErrDuplicateCollectible is returned when a generated identifier collides
// with one already in the store.
var ErrDuplicateCollectible = errors.New("collectible id already exists")

// ErrBoundsOverflow is returned when the global collectible count would
// exceed its unsigned 64-bit range.
var ErrBoundsOverflow = errors.New("collectible count overflow")

// ErrNoCollectible is returned when the referenced collectible does not exist.
var ErrNoCollectible = errors.New("collectible does not exist")

// ===========================================================================
// Ownership Errors
// ===========================================================================

// ErrMaximumOwned is returned when an account's owned collection would exceed
// the configured MaximumOwned bound.
var ErrMaximumOwned = errors.New("maximum collectibles owned")

// ErrNotOwner is returned when the caller does not own the collectible.
var ErrNotOwner = errors.New("caller is not the owner")

// ErrTransferToSelf is returned when a transfer names the current owner as
// the recipient.
var ErrTransferToSelf = errors.New("cannot transfer a collectible to its owner")

// ===========================================================================
// Marketplace Errors
// ===========================================================================

// ErrNotForSale is returned when buying or delisting a collectible that has
// no listing price.
var ErrNotForSale = errors.New("collectible is not for sale")

// ErrOfferedPriceTooLow is returned when a buy offer is below the listed price.
var ErrOfferedPriceTooLow = errors.New("offered price is below the listed price")
