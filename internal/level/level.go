// Package level defines the two price-level record types that make up a
// merged order book, and their total order.
package level

import (
	"math"

	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

// BidLevel is one bid-side price level, tagged with its originating venue.
type BidLevel struct {
	Price  float64
	Amount float64
	Venue  venue.Venue
}

// AskLevel is one ask-side price level, tagged with its originating venue.
type AskLevel struct {
	Price  float64
	Amount float64
	Venue  venue.Venue
}

// Key identifies a level for dedupe/update purposes. Per the merge
// engine's rules, two snapshots from the same venue at the same
// price are the same level even if the amount differs: an amount
// change is an update, not a new row.
type Key struct {
	Venue venue.Venue
	Price float64
}

func (b BidLevel) Key() Key { return Key{Venue: b.Venue, Price: b.Price} }
func (a AskLevel) Key() Key { return Key{Venue: a.Venue, Price: a.Price} }

// totalOrderBits maps a float64 onto a uint64 that sorts in the same
// order as the IEEE 754 total order: NaN payloads and the sign of zero
// are both given a deterministic, stable place, so the comparison never
// panics or loops on NaN the way a naive `<` would when used as a heap
// invariant.
func totalOrderBits(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

// comparePrice returns -1, 0, or 1 as a total-ordered compare of a and b,
// with NaN and signed zero handled deterministically.
func comparePrice(a, b float64) int {
	ka, kb := totalOrderBits(a), totalOrderBits(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// BidBetter reports whether a is a strictly more competitive bid than b:
// higher price wins; ties are broken by venue for a stable, arbitrary
// order.
func BidBetter(a, b BidLevel) bool {
	if c := comparePrice(a.Price, b.Price); c != 0 {
		return c > 0
	}
	return a.Venue < b.Venue
}

// AskBetter reports whether a is a strictly more competitive ask than b:
// lower price wins; ties are broken by venue.
func AskBetter(a, b AskLevel) bool {
	if c := comparePrice(a.Price, b.Price); c != 0 {
		return c < 0
	}
	return a.Venue < b.Venue
}

// BidWorse is the complement of BidBetter, used as the heap's eviction
// comparator (the heap root is always the currently-worst retained bid).
func BidWorse(a, b BidLevel) bool { return BidBetter(b, a) }

// AskWorse is the complement of AskBetter.
func AskWorse(a, b AskLevel) bool { return AskBetter(b, a) }
