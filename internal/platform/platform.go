// Package platform implements the TradingPlatform orchestrator: it owns an
// Accounts ledger and a MatchingEngine, validates solvency for sell
// orders, delegates matching, settles each resulting match against
// account balances, and keeps an append-only transaction log.
package platform

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tradingplatform/internal/accounts"
	"tradingplatform/internal/matching"
)

// ErrInvalidOrder is returned for an order with a non-positive price or
// amount. The engine itself does not enforce this; the platform rejects
// it before any state is mutated.
var ErrInvalidOrder = errors.New("invalid order: price and amount must be positive")

// ErrSettlementInvariant marks a settlement transfer that failed after the
// order was matched, e.g. an accepted Buy whose signer cannot pay a
// match's notional. Rather than panic, it is surfaced as an error; the
// engine's book state is left as-is.
var ErrSettlementInvariant = errors.New("settlement invariant violated")

// TradingPlatform owns its Accounts, MatchingEngine, and transaction log
// exclusively; no external aliasing of this state is permitted.
type TradingPlatform struct {
	accounts *accounts.Accounts
	engine   *matching.Engine
	txLog    []accounts.Tx
	logger   zerolog.Logger
}

// New returns an empty TradingPlatform.
func New() *TradingPlatform {
	return &TradingPlatform{
		accounts: accounts.New(),
		engine:   matching.NewEngine(),
		logger:   log.With().Str("component", "platform").Logger(),
	}
}

// Deposit forwards to Accounts and appends the resulting Tx to the log.
func (p *TradingPlatform) Deposit(signer string, amount uint64) (accounts.Tx, error) {
	tx, err := p.accounts.Deposit(signer, amount)
	if err != nil {
		return accounts.Tx{}, err
	}
	p.txLog = append(p.txLog, tx)
	return tx, nil
}

// Withdraw forwards to Accounts and appends the resulting Tx to the log.
func (p *TradingPlatform) Withdraw(signer string, amount uint64) (accounts.Tx, error) {
	tx, err := p.accounts.Withdraw(signer, amount)
	if err != nil {
		return accounts.Tx{}, err
	}
	p.txLog = append(p.txLog, tx)
	return tx, nil
}

// Send forwards to Accounts and appends both resulting Txes to the log.
func (p *TradingPlatform) Send(sender, recipient string, amount uint64) (accounts.Tx, accounts.Tx, error) {
	withdrawal, deposit, err := p.accounts.Send(sender, recipient, amount)
	if err != nil {
		return accounts.Tx{}, accounts.Tx{}, err
	}
	p.txLog = append(p.txLog, withdrawal, deposit)
	return withdrawal, deposit, nil
}

// BalanceOf forwards to Accounts.
func (p *TradingPlatform) BalanceOf(signer string) (uint64, error) {
	return p.accounts.BalanceOf(signer)
}

// Orderbook flattens both sides of the book into a single sequence. The
// order within the sequence is unspecified to callers but stable for a
// given state (asks, then bids).
func (p *TradingPlatform) Orderbook() []matching.PartialOrder {
	book := p.engine.Asks()
	return append(book, p.engine.Bids()...)
}

// History returns every receipt the matching engine has produced.
func (p *TradingPlatform) History() []matching.Receipt {
	return append([]matching.Receipt(nil), p.engine.History()...)
}

// TxLog returns the append-only account transaction log.
func (p *TradingPlatform) TxLog() []accounts.Tx {
	return append([]accounts.Tx(nil), p.txLog...)
}

// Order validates, matches, and settles a single incoming order.
//
//  1. balance_of(order.Signer) is looked up; AccountNotFound aborts before
//     anything is mutated.
//  2. For a Sell order, a solvency precheck rejects the order with
//     AccountUnderFunded if the account can't back amount*price in cash.
//     No precheck exists for Buy: a Buy can be accepted that the account
//     can't afford at settlement, by design.
//  3. The matching engine processes the order.
//  4. Each match is settled in receipt order by transferring its notional
//     value between the aggressor and the resting signer.
func (p *TradingPlatform) Order(order matching.Order) (matching.Receipt, error) {
	if order.Amount == 0 || order.Price == 0 {
		return matching.Receipt{}, ErrInvalidOrder
	}

	balance, err := p.accounts.BalanceOf(order.Signer)
	if err != nil {
		return matching.Receipt{}, err
	}

	if order.Side == matching.Sell {
		notional, ok := accounts.CheckedMul(order.Amount, order.Price)
		if !ok || balance < notional {
			return matching.Receipt{}, &accounts.UnderFundedError{Signer: order.Signer, Amount: notional}
		}
	}

	receipt := p.engine.Process(order)

	for _, match := range receipt.Matches {
		notional, ok := accounts.CheckedMul(match.Price, match.Amount)
		if !ok {
			return receipt, fmt.Errorf("%w: match notional overflow (price=%d amount=%d)", ErrSettlementInvariant, match.Price, match.Amount)
		}

		var withdrawal, deposit accounts.Tx
		var settleErr error
		switch order.Side {
		case matching.Buy:
			withdrawal, deposit, settleErr = p.accounts.Send(order.Signer, match.Signer, notional)
		case matching.Sell:
			withdrawal, deposit, settleErr = p.accounts.Send(match.Signer, order.Signer, notional)
		}
		if settleErr != nil {
			p.logger.Error().Err(settleErr).Uint64("ordinal", receipt.Ordinal).Msg("settlement failed after solvency precheck passed")
			return receipt, fmt.Errorf("%w: %v", ErrSettlementInvariant, settleErr)
		}
		p.txLog = append(p.txLog, withdrawal, deposit)
	}

	return receipt, nil
}
