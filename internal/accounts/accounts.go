// Package accounts implements the per-signer balance ledger: deposit,
// withdraw, transfer, and balance inquiry over non-negative integer
// balances, with overflow/underflow-checked arithmetic throughout.
package accounts

// Accounts is a mapping of account identifier to balance. It is not
// internally synchronized: callers that need concurrent access wrap an
// Accounts behind a single exclusive lock (see package platform).
type Accounts struct {
	balances map[string]uint64
}

// New returns an empty ledger.
func New() *Accounts {
	return &Accounts{balances: make(map[string]uint64)}
}

// Deposit adds amount to signer's balance, creating the account at amount
// if it doesn't yet exist.
func (a *Accounts) Deposit(signer string, amount uint64) (Tx, error) {
	balance, exists := a.balances[signer]
	if !exists {
		a.balances[signer] = amount
		return Tx{Type: TxDeposit, Account: signer, Amount: amount}, nil
	}

	sum, ok := checkedAdd(balance, amount)
	if !ok {
		return Tx{}, &OverFundedError{Signer: signer, Amount: amount}
	}
	a.balances[signer] = sum
	return Tx{Type: TxDeposit, Account: signer, Amount: amount}, nil
}

// Withdraw subtracts amount from signer's balance.
func (a *Accounts) Withdraw(signer string, amount uint64) (Tx, error) {
	balance, exists := a.balances[signer]
	if !exists {
		return Tx{}, &NotFoundError{Signer: signer}
	}

	diff, ok := checkedSub(balance, amount)
	if !ok {
		return Tx{}, &UnderFundedError{Signer: signer, Amount: amount}
	}
	a.balances[signer] = diff
	return Tx{Type: TxWithdraw, Account: signer, Amount: amount}, nil
}

// Send withdraws amount from sender and deposits it into recipient.
// The transfer is atomic: if the deposit leg fails (recipient balance would
// overflow), the withdrawal is refunded before the error is returned, so no
// partial state is left behind.
func (a *Accounts) Send(sender, recipient string, amount uint64) (Tx, Tx, error) {
	withdrawal, err := a.Withdraw(sender, amount)
	if err != nil {
		return Tx{}, Tx{}, err
	}

	deposit, err := a.Deposit(recipient, amount)
	if err != nil {
		// Refund: the withdrawal already mutated state, so put it back.
		if _, refundErr := a.Deposit(sender, amount); refundErr != nil {
			// The account we just withdrew from can't even take its own
			// money back; this can only happen if amount somehow overflows
			// a balance that, moments ago, had room to lose it.
			return Tx{}, Tx{}, refundErr
		}
		return Tx{}, Tx{}, err
	}

	return withdrawal, deposit, nil
}

// BalanceOf returns signer's current balance.
func (a *Accounts) BalanceOf(signer string) (uint64, error) {
	balance, exists := a.balances[signer]
	if !exists {
		return 0, &NotFoundError{Signer: signer}
	}
	return balance, nil
}

// checkedAdd returns a+b and true, or false if the sum overflows a uint64.
func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

// checkedSub returns a-b and true, or false if the result would go below
// zero.
func checkedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckedMul returns a*b and true, or false if the product overflows a
// uint64. Exported for use by
// package platform when computing a match's notional value.
func CheckedMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	return product, product/a == b
}
