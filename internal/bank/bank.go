// Package bank provides the monetary settlement collaborator consumed by the
// purchase operation. The registry core depends only on the Service
// interface; the host decides what actually moves money.
package bank

import (
	"errors"

	"github.com/tkaster/curio/internal/registry"
)

// ErrInsufficientFunds is returned when the payer's balance cannot cover the
// amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrBalanceOverflow is returned when crediting the payee would overflow its
// balance.
var ErrBalanceOverflow = errors.New("balance overflow")

// Service is the monetary transfer primitive.
//
// Transfer moves amount from one account to the other, atomically: on error
// neither balance has changed. The buy handler invokes it after staging and
// before committing storage, making it the last fallible step of a purchase.
type Service interface {
	Transfer(from, to registry.AccountID, amount registry.Amount) error
}

// Compile-time check that MemoryLedger implements Service.
var _ Service = (*MemoryLedger)(nil)
