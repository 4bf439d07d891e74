package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFirstOrdinalIsOne(t *testing.T) {
	e := NewEngine()
	receipt := e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "ALICE"})
	assert.Equal(t, uint64(1), receipt.Ordinal)
	assert.Empty(t, receipt.Matches)
}

func TestProcessPartialFillOneSideRemains(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "ALICE"})

	receipt := e.Process(Order{Price: 10, Amount: 2, Side: Buy, Signer: "BOB"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, PartialOrder{Price: 10, Amount: 1, Remaining: 0, Side: Sell, Signer: "ALICE", Ordinal: 1}, receipt.Matches[0])
	assert.Empty(t, e.Asks())
	require.Len(t, e.Bids(), 1)
	assert.Equal(t, uint64(1), e.Bids()[0].Remaining)
}

func TestProcessExactFullMatch(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 2, Side: Sell, Signer: "ALICE"})
	receipt := e.Process(Order{Price: 10, Amount: 2, Side: Buy, Signer: "BOB"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, uint64(2), receipt.Matches[0].Amount)
	assert.Empty(t, e.Asks())
	assert.Empty(t, e.Bids())
}

func TestProcessMultiMatchFillsInOrdinalOrder(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "ALICE"})   // ordinal 1
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "CHARLIE"}) // ordinal 2

	receipt := e.Process(Order{Price: 10, Amount: 2, Side: Buy, Signer: "BOB"})

	require.Len(t, receipt.Matches, 2)
	assert.Equal(t, "ALICE", receipt.Matches[0].Signer)
	assert.Equal(t, uint64(1), receipt.Matches[0].Ordinal)
	assert.Equal(t, "CHARLIE", receipt.Matches[1].Signer)
	assert.Equal(t, uint64(2), receipt.Matches[1].Ordinal)
	assert.Empty(t, e.Asks())
	assert.Empty(t, e.Bids())
}

func TestProcessSkipsSelfMatch(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "ALICE"})   // ordinal 1
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "CHARLIE"}) // ordinal 2

	receipt := e.Process(Order{Price: 10, Amount: 2, Side: Buy, Signer: "ALICE"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, "CHARLIE", receipt.Matches[0].Signer)
	assert.Equal(t, uint64(1), receipt.Matches[0].Amount)

	// ALICE's own resting ask (ordinal 1) was skipped, not consumed.
	require.Len(t, e.Asks(), 1)
	assert.Equal(t, "ALICE", e.Asks()[0].Signer)
	require.Len(t, e.Bids(), 1)
	assert.Equal(t, "ALICE", e.Bids()[0].Signer)
}

func TestProcessNoCompatiblePriceBothRestOnAskSide(t *testing.T) {
	e := NewEngine()
	r1 := e.Process(Order{Price: 10, Amount: 2, Side: Sell, Signer: "ALICE"})
	r2 := e.Process(Order{Price: 11, Amount: 2, Side: Sell, Signer: "BOB"})

	assert.Empty(t, r1.Matches)
	assert.Empty(t, r2.Matches)
	assert.Len(t, e.Asks(), 2)
}

func TestProcessAggressorPriceImprovementUsesRestingPrice(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 9, Amount: 1, Side: Sell, Signer: "ALICE"})
	receipt := e.Process(Order{Price: 10, Amount: 1, Side: Buy, Signer: "BOB"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, uint64(9), receipt.Matches[0].Price, "execution price is the resting order's price, not the aggressor's")
}

func TestProcessSellMatchesBidsHighestFirst(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 9, Amount: 5, Side: Buy, Signer: "LOWBID"})
	e.Process(Order{Price: 11, Amount: 5, Side: Buy, Signer: "HIGHBID"})

	receipt := e.Process(Order{Price: 9, Amount: 5, Side: Sell, Signer: "ALICE"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, "HIGHBID", receipt.Matches[0].Signer, "the canonical behavior matches the best (highest) bid first")
	assert.Equal(t, uint64(11), receipt.Matches[0].Price)
}

func TestProcessMatchRemainingIsAlwaysZeroInReceipt(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 5, Side: Sell, Signer: "ALICE"})
	receipt := e.Process(Order{Price: 10, Amount: 2, Side: Buy, Signer: "BOB"})

	require.Len(t, receipt.Matches, 1)
	assert.Equal(t, uint64(0), receipt.Matches[0].Remaining, "remaining in a match slice always reads 0")

	// ALICE's resting order itself is only partially filled.
	require.Len(t, e.Asks(), 1)
	assert.Equal(t, uint64(3), e.Asks()[0].Remaining)
}

func TestHistoryGrowsWithEveryProcessCall(t *testing.T) {
	e := NewEngine()
	e.Process(Order{Price: 10, Amount: 1, Side: Sell, Signer: "ALICE"})
	e.Process(Order{Price: 10, Amount: 1, Side: Buy, Signer: "BOB"})
	assert.Len(t, e.History(), 2)
}
