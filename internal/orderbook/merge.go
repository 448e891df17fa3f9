// Package orderbook holds the merge engine that maintains the top-N
// bids and asks across every venue, and the builder that assembles one
// running aggregator from a (symbol, depth, venues) configuration.
package orderbook

import (
	"errors"

	"github.com/BullionBear/orderbook-aggregator/internal/fanin"
	"github.com/BullionBear/orderbook-aggregator/internal/level"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

// ErrStreamCancelled is the terminal error emitted once every source
// feed has disconnected and the fan-in channel has closed.
var ErrStreamCancelled = errors.New("orderbook: stream cancelled")

// MergedView is the top-N bids and top-N asks across all venues at a
// single logical moment, each side sorted best-first.
type MergedView struct {
	Bids []level.BidLevel
	Asks []level.AskLevel
}

// Result is one item from the merge engine: either a fresh MergedView,
// or a terminal/non-terminal error forwarded from upstream. Venue is
// set alongside Err when the error originated from a single adapter,
// for metrics/log attribution; it is the zero value for a MergedView
// result or for the terminal ErrStreamCancelled.
type Result struct {
	View  MergedView
	Err   error
	Venue venue.Venue
}

// Engine maintains the bounded top-N structures for one running
// subscription. It is driven by exactly one goroutine; no locking is
// needed because nothing else touches its state.
type Engine struct {
	depth int
	bids  *boundedHeap[level.BidLevel, level.Key]
	asks  *boundedHeap[level.AskLevel, level.Key]
}

// NewEngine constructs a merge engine retaining at most depth entries
// per side.
func NewEngine(depth int) *Engine {
	return &Engine{
		depth: depth,
		bids:  newBoundedHeap(depth, level.BidWorse, level.BidLevel.Key),
		asks:  newBoundedHeap(depth, level.AskWorse, level.AskLevel.Key),
	}
}

// Run consumes the fan-in's tagged stream and emits one Result per
// accepted input, in order. It returns once tagged closes, after
// emitting a final ErrStreamCancelled result.
func (e *Engine) Run(tagged <-chan fanin.Tagged) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for t := range tagged {
			out <- e.apply(t)
		}
		out <- Result{Err: ErrStreamCancelled}
	}()
	return out
}

// apply processes one tagged snapshot (or forwards its error) and
// returns the resulting emission.
func (e *Engine) apply(t fanin.Tagged) Result {
	if t.Event.Err != nil {
		return Result{Err: t.Event.Err, Venue: t.Venue}
	}

	snap := t.Event.Snapshot
	v := t.Venue

	// A venue's fresh snapshot is a full replacement of that venue's
	// prior contribution: discard what it previously held before
	// ingesting the new levels, so a stale but still-competitive price
	// can never outlive the snapshot that withdrew it.
	e.bids.RemoveVenue(func(l level.BidLevel) bool { return l.Venue == v })
	e.asks.RemoveVenue(func(l level.AskLevel) bool { return l.Venue == v })

	for _, pa := range snap.Bids {
		e.bids.Upsert(level.BidLevel{Price: pa.Price, Amount: pa.Amount, Venue: v})
	}
	for _, pa := range snap.Asks {
		e.asks.Upsert(level.AskLevel{Price: pa.Price, Amount: pa.Amount, Venue: v})
	}

	return Result{View: MergedView{
		Bids: e.bids.Sorted(level.BidBetter),
		Asks: e.asks.Sorted(level.AskBetter),
	}}
}
