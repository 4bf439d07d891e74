package matching

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// Engine holds both sides of the order book for the single supported
// instrument, assigns ordinals, matches incoming orders, and records an
// append-only history of receipts. It is not internally concurrent — see
// package platform for the exclusive-lock wrapper multi-client front ends
// use.
type Engine struct {
	ordinal uint64
	bids    *redblacktree.Tree // price -> queue, descending (best bid first)
	asks    *redblacktree.Tree // price -> queue, ascending (best ask first)
	history []Receipt
}

// NewEngine returns an Engine with ordinal 0 and empty books.
func NewEngine() *Engine {
	return &Engine{
		bids: newBidTree(),
		asks: newAskTree(),
	}
}

// Process is the engine's sole entry point: it matches order against the
// opposite side of the book under price-time priority, rests any residue
// on the aggressor's own side, and returns a receipt describing what
// happened. Ordinal assignment happens here, before anything else, so the
// first accepted order receives ordinal 1.
func (e *Engine) Process(order Order) Receipt {
	e.ordinal++
	ordinal := e.ordinal

	remaining := order.Amount
	var matches []PartialOrder

	var matchSide, restSide *redblacktree.Tree
	var compatible func(price uint64) bool

	switch order.Side {
	case Buy:
		// A Buy matches against asks at or below its limit price, best
		// (lowest) ask first.
		matchSide, restSide = e.asks, e.bids
		compatible = func(price uint64) bool { return price <= order.Price }
	case Sell:
		// A Sell matches against bids at or above its limit price, best
		// (highest) bid first.
		matchSide, restSide = e.bids, e.asks
		compatible = func(price uint64) bool { return price >= order.Price }
	}

	for _, price := range compatiblePrices(matchSide, compatible) {
		if remaining == 0 {
			break
		}
		q := bucketQueue(matchSide, price)
		q, remaining, matches = matchBucket(q, price, order.Signer, remaining, matches)
		putBucket(matchSide, price, q)
	}

	if remaining > 0 {
		resting := &PartialOrder{
			Price:     order.Price,
			Amount:    order.Amount,
			Remaining: remaining,
			Side:      order.Side,
			Signer:    order.Signer,
			Ordinal:   ordinal,
		}
		q := append(bucketQueue(restSide, order.Price), resting)
		putBucket(restSide, order.Price, q)
	}

	receipt := Receipt{Ordinal: ordinal, Matches: matches}
	e.history = append(e.history, receipt)
	return receipt
}

// matchBucket consumes resting orders from the front of q, skipping over
// (but leaving in place) any order signed by aggressorSigner — a
// self-match is never executed. It returns the bucket's remaining queue,
// the aggressor's remaining unmatched amount, and matches with this
// bucket's fills appended.
//
// Skipping a self-match in place, rather than setting it aside and
// reinserting it afterward, produces the same result: later non-self
// orders in the bucket are still matched in their original FIFO order,
// and the self-matched order keeps its queue position.
func matchBucket(q queue, price uint64, aggressorSigner string, remaining uint64, matches []PartialOrder) (queue, uint64, []PartialOrder) {
	i := 0
	for remaining > 0 && i < len(q) {
		resting := q[i]
		if resting.Signer == aggressorSigner {
			i++
			continue
		}

		if resting.Remaining > remaining {
			matches = append(matches, PartialOrder{
				Price:     price,
				Amount:    remaining,
				Remaining: 0,
				Side:      resting.Side,
				Signer:    resting.Signer,
				Ordinal:   resting.Ordinal,
			})
			resting.Remaining -= remaining
			remaining = 0
			break
		}

		matches = append(matches, PartialOrder{
			Price:     price,
			Amount:    resting.Remaining,
			Remaining: 0,
			Side:      resting.Side,
			Signer:    resting.Signer,
			Ordinal:   resting.Ordinal,
		})
		remaining -= resting.Remaining
		resting.Remaining = 0
		q = append(q[:i], q[i+1:]...)
	}
	return q, remaining, matches
}

// Bids returns every resting buy-side PartialOrder across all price
// buckets.
func (e *Engine) Bids() []PartialOrder {
	return flatten(e.bids)
}

// Asks returns every resting sell-side PartialOrder across all price
// buckets.
func (e *Engine) Asks() []PartialOrder {
	return flatten(e.asks)
}

// History returns every receipt produced by Process so far, in order.
func (e *Engine) History() []Receipt {
	return e.history
}
