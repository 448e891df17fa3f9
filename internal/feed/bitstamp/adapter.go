// Package bitstamp streams top-of-book snapshots from Bitstamp's public
// order book websocket channel.
package bitstamp

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

const endpoint = "wss://ws.bitstamp.net"

// DialTimeout bounds how long Connect waits for the connection and the
// subscription acknowledgement.
const DialTimeout = 10 * time.Second

// Adapter streams Bitstamp order-book snapshots for one symbol.
type Adapter struct {
	Log zerolog.Logger
}

var _ feed.Adapter = (*Adapter)(nil)

// New constructs a Bitstamp feed adapter.
func New(log zerolog.Logger) *Adapter {
	return &Adapter{Log: log.With().Str("venue", venue.Bitstamp.String()).Logger()}
}

// Connect dials wss://ws.bitstamp.net, subscribes to
// order_book_{symbol}, and streams decoded snapshots once the
// subscription is confirmed. depth is unused: Bitstamp's order_book
// channel always returns its own top-of-book depth; the merge engine
// applies the N cap downstream.
func (a *Adapter) Connect(ctx context.Context, symbol string, depth int) (<-chan feed.Event, error) {
	conn, err := wsapi.Dial(ctx, endpoint, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("bitstamp: %w", err)
	}

	if err := a.handshake(conn, symbol); err != nil {
		conn.Close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	out := make(chan feed.Event, 1)
	go a.pump(conn, out)
	return out, nil
}

// handshake subscribes to symbol's order book channel and waits for the
// confirmation event before the caller starts pumping snapshots.
func (a *Adapter) handshake(conn *wsapi.Conn, symbol string) error {
	subscribeMsg := []byte(fmt.Sprintf(
		`{"event":"bts:subscribe","data":{"channel":"order_book_%s"}}`, symbol))
	if err := conn.Send(subscribeMsg); err != nil {
		return fmt.Errorf("bitstamp: subscribe: %w", err)
	}

	var ack []byte
	var ok bool
	select {
	case ack, ok = <-conn.Messages():
	case <-time.After(DialTimeout):
		return fmt.Errorf("bitstamp: %w: timed out waiting for subscription ack", feed.ErrHandshake)
	}
	if !ok {
		return fmt.Errorf("bitstamp: %w: connection closed before subscription ack", feed.ErrHandshake)
	}
	if !snapshot.BitstampSubscriptionSucceeded(ack) {
		return fmt.Errorf("bitstamp: %w: unexpected ack %s", feed.ErrHandshake, string(ack))
	}
	return nil
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
			snap, err := snapshot.DecodeBitstamp(raw)
			if err != nil {
				a.Log.Warn().Err(err).Msg("dropping malformed bitstamp frame")
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
