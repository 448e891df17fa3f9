// Package snapshot decodes per-venue websocket frames into the uniform
// top-of-book payload the rest of the aggregator consumes.
package snapshot

import "fmt"

// PriceAmount is one (price, amount) pair, already parsed to float64.
type PriceAmount struct {
	Price  float64
	Amount float64
}

// Snapshot is a complete top-of-book refresh for one venue and symbol.
type Snapshot struct {
	Bids []PriceAmount
	Asks []PriceAmount
}

// ErrBadNumber is raised when an upstream price/amount string fails to parse.
var ErrBadNumber = fmt.Errorf("snapshot: bad number")

// ErrBadFrame is raised when a frame's top-level shape is not recognized.
var ErrBadFrame = fmt.Errorf("snapshot: bad frame")
