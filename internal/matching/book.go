package matching

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// queue is the FIFO bucket of resting orders at a single price. It is
// kept sorted by insertion order (equivalently, by ordinal, since
// ordinals are assigned in insertion order and never mutated on splits).
type queue []*PartialOrder

// newBidTree orders prices descending: the highest bid sorts first, so
// in-order iteration visits buckets best-price-first for a Sell aggressor.
func newBidTree() *redblacktree.Tree {
	return redblacktree.NewWith(func(a, b interface{}) int {
		return utils.UInt64Comparator(b, a)
	})
}

// newAskTree orders prices ascending: the lowest ask sorts first, so
// in-order iteration visits buckets best-price-first for a Buy aggressor.
func newAskTree() *redblacktree.Tree {
	return redblacktree.NewWith(utils.UInt64Comparator)
}

// compatiblePrices walks tree in its native order and returns the prefix
// of price keys for which compatible returns true. Because both trees are
// ordered by price compatibility (ascending asks, descending bids), the
// compatible keys always form a prefix: the first incompatible key ends
// the scan.
func compatiblePrices(tree *redblacktree.Tree, compatible func(price uint64) bool) []uint64 {
	it := tree.Iterator()
	it.Begin()

	var prices []uint64
	for it.Next() {
		price := it.Key().(uint64)
		if !compatible(price) {
			break
		}
		prices = append(prices, price)
	}
	return prices
}

// bucketQueue returns the resting queue at price, or nil if the bucket
// doesn't exist.
func bucketQueue(tree *redblacktree.Tree, price uint64) queue {
	value, found := tree.Get(price)
	if !found {
		return nil
	}
	return value.(queue)
}

// putBucket stores q at price, pruning the bucket entirely if q is empty
// so that iterating the tree never yields an empty bucket.
func putBucket(tree *redblacktree.Tree, price uint64, q queue) {
	if len(q) == 0 {
		tree.Remove(price)
		return
	}
	tree.Put(price, q)
}

// flatten collects every resting PartialOrder across every bucket of tree,
// in the tree's native price order (ascending for asks, descending for
// bids), FIFO within each price.
func flatten(tree *redblacktree.Tree) []PartialOrder {
	it := tree.Iterator()
	it.Begin()

	var out []PartialOrder
	for it.Next() {
		q := it.Value().(queue)
		for _, o := range q {
			out = append(out, *o)
		}
	}
	return out
}
