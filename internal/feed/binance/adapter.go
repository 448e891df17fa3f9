// Package binance streams top-of-book snapshots from Binance's public
// depth websocket.
package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/BullionBear/orderbook-aggregator/internal/feed"
	"github.com/BullionBear/orderbook-aggregator/internal/snapshot"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
	"github.com/BullionBear/orderbook-aggregator/pkg/wsapi"
	"github.com/rs/zerolog"
)

const endpointBase = "wss://stream.binance.com:9443/ws/"

// DialTimeout bounds how long Connect waits for the initial handshake,
// per the aggregator's default connect deadline.
const DialTimeout = 10 * time.Second

// Adapter streams Binance depth snapshots. It has no configuration: the
// venue, URL shape and protocol are fixed by Binance's API.
type Adapter struct {
	Log zerolog.Logger
}

var _ feed.Adapter = (*Adapter)(nil)

// New constructs a Binance feed adapter.
func New(log zerolog.Logger) *Adapter {
	return &Adapter{Log: log.With().Str("venue", venue.Binance.String()).Logger()}
}

// Connect dials wss://stream.binance.com:9443/ws/{symbol}@depth{depth}@100ms
// and streams decoded snapshots. Binance requires no subscribe handshake:
// every inbound frame is a complete top-of-book refresh.
func (a *Adapter) Connect(ctx context.Context, symbol string, depth int) (<-chan feed.Event, error) {
	url := fmt.Sprintf("%s%s@depth%d@100ms", endpointBase, symbol, depth)

	conn, err := wsapi.Dial(ctx, url, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("binance: %w", err)
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	out := make(chan feed.Event, 1)
	go a.pump(conn, out)
	return out, nil
}

func (a *Adapter) pump(conn *wsapi.Conn, out chan<- feed.Event) {
	defer close(out)
	defer conn.Close()

	for {
		select {
		case raw, ok := <-conn.Messages():
			if !ok {
				out <- feed.Event{Err: feed.ErrDisconnected}
				return
			}
			snap, err := snapshot.DecodeBinance(raw)
			if err != nil {
				a.Log.Warn().Err(err).Msg("dropping malformed binance frame")
				out <- feed.Event{Err: err}
				continue
			}
			out <- feed.Event{Snapshot: snap}
		case <-conn.Err():
			out <- feed.Event{Err: feed.ErrDisconnected}
			return
		}
	}
}
