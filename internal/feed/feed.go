// Package feed defines the contract every per-venue adapter implements:
// connect once, then stream decoded snapshots (or per-frame errors) until
// the connection drops.
package feed

import (
	"context"
	"errors"

	"github.com/BullionBear/orderbook-aggregator/internal/snapshot"
)

// ErrHandshake is raised when a venue's subscription handshake is
// rejected or malformed (currently only Bitstamp performs one).
var ErrHandshake = errors.New("feed: subscription handshake failed")

// ErrDisconnected is raised when the underlying transport closes,
// whether by error or by a clean end-of-stream; the adapter never
// reconnects on its own.
var ErrDisconnected = errors.New("feed: disconnected")

// Event is one item emitted by an adapter: either a decoded snapshot, or
// an error. A decode error on a single frame is not fatal, the adapter
// keeps reading; ErrDisconnected and ErrHandshake are terminal.
type Event struct {
	Snapshot snapshot.Snapshot
	Err      error
}

// Adapter connects to one venue's market data feed for one symbol and
// depth, and streams decoded snapshots on the returned channel until the
// channel is closed (terminal condition: the last Event sent carries a
// non-nil Err).
type Adapter interface {
	Connect(ctx context.Context, symbol string, depth int) (<-chan Event, error)
}
