package level

import (
	"math"
	"testing"

	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

func TestBidBetter(t *testing.T) {
	tests := []struct {
		name string
		a, b BidLevel
		want bool
	}{
		{
			name: "higher price wins",
			a:    BidLevel{Price: 10.5, Venue: venue.Binance},
			b:    BidLevel{Price: 10.0, Venue: venue.Binance},
			want: true,
		},
		{
			name: "lower price loses",
			a:    BidLevel{Price: 9.0, Venue: venue.Binance},
			b:    BidLevel{Price: 10.0, Venue: venue.Binance},
			want: false,
		},
		{
			name: "tie broken by venue",
			a:    BidLevel{Price: 10.0, Venue: venue.Bitstamp},
			b:    BidLevel{Price: 10.0, Venue: venue.Binance},
			want: venue.Bitstamp < venue.Binance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BidBetter(tt.a, tt.b); got != tt.want {
				t.Errorf("BidBetter(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAskBetter(t *testing.T) {
	tests := []struct {
		name string
		a, b AskLevel
		want bool
	}{
		{
			name: "lower price wins",
			a:    AskLevel{Price: 10.0, Venue: venue.Binance},
			b:    AskLevel{Price: 10.5, Venue: venue.Binance},
			want: true,
		},
		{
			name: "higher price loses",
			a:    AskLevel{Price: 11.0, Venue: venue.Binance},
			b:    AskLevel{Price: 10.0, Venue: venue.Binance},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AskBetter(tt.a, tt.b); got != tt.want {
				t.Errorf("AskBetter(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComparePriceHandlesNaNDeterministically(t *testing.T) {
	nan := math.NaN()
	a := BidLevel{Price: nan, Venue: venue.Binance}
	b := BidLevel{Price: 10.0, Venue: venue.Binance}

	// Whichever way it resolves, it must be consistent and must not
	// panic or report both a<b and b<a simultaneously.
	aBetter := BidBetter(a, b)
	bBetter := BidBetter(b, a)
	if aBetter == bBetter {
		t.Fatalf("BidBetter must be a strict order: BidBetter(a,b)=%v, BidBetter(b,a)=%v", aBetter, bBetter)
	}
}

func TestComparePriceHandlesSignedZero(t *testing.T) {
	posZero := BidLevel{Price: 0.0, Venue: venue.Binance}
	negZero := BidLevel{Price: math.Copysign(0, -1), Venue: venue.Binance}

	if BidBetter(posZero, negZero) == BidBetter(negZero, posZero) {
		t.Fatalf("signed zero must resolve deterministically to a strict order")
	}
}

func TestKeyIgnoresAmount(t *testing.T) {
	a := BidLevel{Price: 10.0, Amount: 1, Venue: venue.Binance}
	b := BidLevel{Price: 10.0, Amount: 2, Venue: venue.Binance}
	if a.Key() != b.Key() {
		t.Fatalf("levels differing only in amount must share a key: %v vs %v", a.Key(), b.Key())
	}
}

func TestBidWorseIsComplementOfBidBetter(t *testing.T) {
	a := BidLevel{Price: 10.0, Venue: venue.Binance}
	b := BidLevel{Price: 9.0, Venue: venue.Binance}
	if BidWorse(a, b) == BidBetter(a, b) {
		t.Fatalf("BidWorse(a,b) must equal BidBetter(b,a)")
	}
}
