package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// binanceWire mirrors Binance's raw depth-stream frame: price/amount
// arrive as JSON strings and must be parsed to float64 explicitly.
type binanceWire struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// DecodeBinance parses a raw Binance depth-stream frame.
func DecodeBinance(raw []byte) (Snapshot, error) {
	var wire binanceWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if wire.Bids == nil && wire.Asks == nil {
		return Snapshot{}, fmt.Errorf("%w: no bids or asks present", ErrBadFrame)
	}
	bids, err := parsePairs(wire.Bids)
	if err != nil {
		return Snapshot{}, err
	}
	asks, err := parsePairs(wire.Asks)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Bids: bids, Asks: asks}, nil
}

func parsePairs(pairs [][2]string) ([]PriceAmount, error) {
	out := make([]PriceAmount, len(pairs))
	for i, pair := range pairs {
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q: %v", ErrBadNumber, pair[0], err)
		}
		amount, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q: %v", ErrBadNumber, pair[1], err)
		}
		out[i] = PriceAmount{Price: price, Amount: amount}
	}
	return out, nil
}
