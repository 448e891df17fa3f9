// Package fanout republishes merged order-book summaries onto NATS for
// downstream consumers that cannot hold a gRPC stream open. It is an
// optional secondary sink alongside the primary BookSummary RPC stream;
// a subscription runs with or without it.
package fanout

import (
	"encoding/json"
	"fmt"

	"github.com/BullionBear/orderbook-aggregator/internal/level"
	"github.com/BullionBear/orderbook-aggregator/internal/orderbook"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes every merged view for one symbol onto a
// per-symbol subject: one connection, one JetStream context, one
// Publish call per message.
type NATSPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// NewNATSPublisher connects to url and binds a publisher that
// republishes every Summary for symbol on subject
// "orderbook.<symbol>.summary".
func NewNATSPublisher(url, symbol string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("fanout: connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("fanout: jetstream context: %w", err)
	}
	return &NATSPublisher{
		nc:      nc,
		js:      js,
		subject: fmt.Sprintf("orderbook.%s.summary", symbol),
	}, nil
}

// wireSummary is the JSON shape published to NATS, independent of the
// gRPC wire message so this sink has no proto dependency.
type wireSummary struct {
	Spread float64     `json:"spread"`
	Bids   []wireLevel `json:"bids"`
	Asks   []wireLevel `json:"asks"`
}

type wireLevel struct {
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
	Exchange string  `json:"exchange"`
}

// Publish encodes view as JSON and publishes it on the publisher's
// subject. Errors are returned, never retried: the subscription's
// primary gRPC stream is unaffected by a fanout failure.
func (p *NATSPublisher) Publish(view orderbook.MergedView) error {
	payload, err := json.Marshal(toWireSummary(view))
	if err != nil {
		return fmt.Errorf("fanout: marshal summary: %w", err)
	}
	if _, err := p.js.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("fanout: publish: %w", err)
	}
	return nil
}

// Close closes the underlying NATS connection without draining it.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}

func toWireSummary(view orderbook.MergedView) wireSummary {
	var spread float64
	if len(view.Asks) > 0 && len(view.Bids) > 0 {
		spread = view.Asks[0].Price - view.Bids[0].Price
	}
	return wireSummary{
		Spread: spread,
		Bids:   toWireLevels(view.Bids, func(b level.BidLevel) (float64, float64, string) { return b.Price, b.Amount, b.Venue.String() }),
		Asks:   toWireLevels(view.Asks, func(a level.AskLevel) (float64, float64, string) { return a.Price, a.Amount, a.Venue.String() }),
	}
}

func toWireLevels[T any](items []T, fields func(T) (price, amount float64, exchange string)) []wireLevel {
	out := make([]wireLevel, len(items))
	for i, item := range items {
		price, amount, exchange := fields(item)
		out[i] = wireLevel{Price: price, Amount: amount, Exchange: exchange}
	}
	return out
}
