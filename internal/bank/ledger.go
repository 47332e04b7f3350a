package bank

import (
	"math"
	"sync"

	"github.com/tkaster/curio/internal/registry"
)

// MemoryLedger is the reference in-memory implementation of Service.
// Balances use checked arithmetic: transfers fail rather than wrap.
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[registry.AccountID]registry.Amount
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[registry.AccountID]registry.Amount),
	}
}

// Deposit credits an account. Used to seed balances from configuration and in
// tests.
func (l *MemoryLedger) Deposit(account registry.AccountID, amount registry.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.balances[account]
	if amount > math.MaxUint64-current {
		return ErrBalanceOverflow
	}
	l.balances[account] = current + amount
	return nil
}

// Balance returns the account's current balance.
func (l *MemoryLedger) Balance(account registry.AccountID) registry.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}

// Transfer moves amount from one account to the other. Both checks happen
// before either balance is touched, so a failed transfer changes nothing.
func (l *MemoryLedger) Transfer(from, to registry.AccountID, amount registry.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBalance := l.balances[from]
	if fromBalance < amount {
		return ErrInsufficientFunds
	}
	toBalance := l.balances[to]
	if amount > math.MaxUint64-toBalance {
		return ErrBalanceOverflow
	}

	l.balances[from] = fromBalance - amount
	l.balances[to] = toBalance + amount
	return nil
}
