package orderbook

import (
	"github.com/BullionBear/orderbook-aggregator/internal/fanin"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

// Aggregator is one fully built, running subscription: every configured
// venue is connected, its snapshots feed the merge engine, and Results
// can be pulled from Stream. Each subscription gets its own Aggregator
// and its own Engine instance; nothing is shared between concurrent
// callers of the same symbol.
type Aggregator struct {
	Symbol string
	Depth  int
	Venues []venue.Venue

	engine *Engine
	tagged <-chan fanin.Tagged
}

// Stream drives the merge engine over the aggregator's fan-in and
// returns its Result channel. Stream may only be called once per
// Aggregator.
func (a *Aggregator) Stream() <-chan Result {
	return a.engine.Run(a.tagged)
}
