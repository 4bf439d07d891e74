package platform

import (
	"sync"

	"tradingplatform/internal/accounts"
	"tradingplatform/internal/matching"
)

// LockedPlatform wraps a TradingPlatform behind a single exclusive lock so
// that multi-client front ends (package api) can share one
// instance safely. Every public operation acquires the lock, runs to
// completion, and releases it before returning — there are no internal
// suspension points during matching or settlement, and no finer-grained
// locking: splitting the lock would require separately reasoning about
// ordinal monotonicity and settlement atomicity across lock boundaries.
type LockedPlatform struct {
	mu       sync.Mutex
	platform *TradingPlatform
}

// NewLocked returns a LockedPlatform wrapping an empty TradingPlatform.
func NewLocked() *LockedPlatform {
	return &LockedPlatform{platform: New()}
}

func (l *LockedPlatform) Deposit(signer string, amount uint64) (accounts.Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.Deposit(signer, amount)
}

func (l *LockedPlatform) Withdraw(signer string, amount uint64) (accounts.Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.Withdraw(signer, amount)
}

func (l *LockedPlatform) Send(sender, recipient string, amount uint64) (accounts.Tx, accounts.Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.Send(sender, recipient, amount)
}

func (l *LockedPlatform) BalanceOf(signer string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.BalanceOf(signer)
}

func (l *LockedPlatform) Order(order matching.Order) (matching.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.Order(order)
}

func (l *LockedPlatform) Orderbook() []matching.PartialOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.Orderbook()
}

func (l *LockedPlatform) History() []matching.Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.History()
}

func (l *LockedPlatform) TxLog() []accounts.Tx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform.TxLog()
}
