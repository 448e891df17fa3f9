package snapshot

import (
	"errors"
	"testing"
)

func TestDecodeBinance(t *testing.T) {
	raw := []byte(`{"bids":[["10.0","1.5"],["9.5","2"]],"asks":[["11.0","1"],["11.5","0.5"]]}`)
	snap, err := DecodeBinance(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Snapshot{
		Bids: []PriceAmount{{Price: 10.0, Amount: 1.5}, {Price: 9.5, Amount: 2}},
		Asks: []PriceAmount{{Price: 11.0, Amount: 1}, {Price: 11.5, Amount: 0.5}},
	}
	if !equalSnapshot(snap, want) {
		t.Fatalf("DecodeBinance() = %+v, want %+v", snap, want)
	}
}

func TestDecodeBinanceBadNumber(t *testing.T) {
	raw := []byte(`{"bids":[["not-a-number","1"]],"asks":[]}`)
	_, err := DecodeBinance(raw)
	if !errors.Is(err, ErrBadNumber) {
		t.Fatalf("DecodeBinance() error = %v, want ErrBadNumber", err)
	}
}

func TestDecodeBinanceBadFrame(t *testing.T) {
	raw := []byte(`not json at all`)
	_, err := DecodeBinance(raw)
	if !errors.Is(err, ErrBadFrame) {
		t.Fatalf("DecodeBinance() error = %v, want ErrBadFrame", err)
	}
}

func TestDecodeBinanceUnknownShapeIsBadFrame(t *testing.T) {
	raw := []byte(`{"result":null,"id":1}`)
	_, err := DecodeBinance(raw)
	if !errors.Is(err, ErrBadFrame) {
		t.Fatalf("DecodeBinance() error = %v, want ErrBadFrame for shape without bids/asks", err)
	}
}

func TestDecodeBitstampUnknownShapeIsBadFrame(t *testing.T) {
	raw := []byte(`{"event":"bts:heartbeat"}`)
	_, err := DecodeBitstamp(raw)
	if !errors.Is(err, ErrBadFrame) {
		t.Fatalf("DecodeBitstamp() error = %v, want ErrBadFrame for frame without data envelope", err)
	}
}

func TestDecodeBitstampUnwrapsData(t *testing.T) {
	raw := []byte(`{"data":{"bids":[["100.0","3"]],"asks":[["101.0","4"]]}}`)
	snap, err := DecodeBitstamp(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Snapshot{
		Bids: []PriceAmount{{Price: 100.0, Amount: 3}},
		Asks: []PriceAmount{{Price: 101.0, Amount: 4}},
	}
	if !equalSnapshot(snap, want) {
		t.Fatalf("DecodeBitstamp() = %+v, want %+v", snap, want)
	}
}

func TestDecodeBitstampBadNumber(t *testing.T) {
	raw := []byte(`{"data":{"bids":[["abc","1"]],"asks":[]}}`)
	_, err := DecodeBitstamp(raw)
	if !errors.Is(err, ErrBadNumber) {
		t.Fatalf("DecodeBitstamp() error = %v, want ErrBadNumber", err)
	}
}

func TestBitstampSubscriptionSucceeded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "succeeded", raw: `{"event":"bts:subscription_succeeded","channel":"order_book_ethbtc"}`, want: true},
		{name: "other event", raw: `{"event":"data"}`, want: false},
		{name: "malformed json", raw: `not json`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BitstampSubscriptionSucceeded([]byte(tt.raw)); got != tt.want {
				t.Errorf("BitstampSubscriptionSucceeded(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func equalSnapshot(a, b Snapshot) bool {
	if len(a.Bids) != len(b.Bids) || len(a.Asks) != len(b.Asks) {
		return false
	}
	for i := range a.Bids {
		if a.Bids[i] != b.Bids[i] {
			return false
		}
	}
	for i := range a.Asks {
		if a.Asks[i] != b.Asks[i] {
			return false
		}
	}
	return true
}
