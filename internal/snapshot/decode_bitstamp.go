package snapshot

import (
	"encoding/json"
	"fmt"
)

// bitstampWire mirrors Bitstamp's order-book frame, which nests the
// snapshot under a "data" key.
type bitstampWire struct {
	Data binanceWire `json:"data"`
}

// DecodeBitstamp parses a raw Bitstamp order_book_<symbol> frame,
// unwrapping its "data" envelope.
func DecodeBitstamp(raw []byte) (Snapshot, error) {
	var wire bitstampWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if wire.Data.Bids == nil && wire.Data.Asks == nil {
		return Snapshot{}, fmt.Errorf("%w: no data.bids or data.asks present", ErrBadFrame)
	}
	bids, err := parsePairs(wire.Data.Bids)
	if err != nil {
		return Snapshot{}, err
	}
	asks, err := parsePairs(wire.Data.Asks)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Bids: bids, Asks: asks}, nil
}

// bitstampSubscriptionEvent is the minimal shape needed to confirm the
// subscribe handshake's acknowledgement frame.
type bitstampSubscriptionEvent struct {
	Event string `json:"event"`
}

// BitstampSubscriptionSucceeded reports whether raw is the confirmation
// frame Bitstamp sends in reply to a bts:subscribe request.
func BitstampSubscriptionSucceeded(raw []byte) bool {
	var ev bitstampSubscriptionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return false
	}
	return ev.Event == "bts:subscription_succeeded"
}
