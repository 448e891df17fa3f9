package orderbook

import (
	"context"
	"errors"
	"testing"

	"github.com/BullionBear/orderbook-aggregator/internal/venue"
	"github.com/rs/zerolog"
)

func TestBuilderWithDepthRejectsNonPositive(t *testing.T) {
	_, err := New(zerolog.Nop()).WithDepth(0).WithSymbol("ethbtc").WithVenues([]venue.Venue{venue.Binance}).Build(context.Background())
	if !errors.Is(err, ErrDepthNotPositive) {
		t.Fatalf("Build() error = %v, want ErrDepthNotPositive", err)
	}
}

func TestBuilderWithDepthNegativeRejected(t *testing.T) {
	_, err := New(zerolog.Nop()).WithDepth(-5).WithSymbol("ethbtc").WithVenues([]venue.Venue{venue.Binance}).Build(context.Background())
	if !errors.Is(err, ErrDepthNotPositive) {
		t.Fatalf("Build() error = %v, want ErrDepthNotPositive", err)
	}
}

func TestBuilderRejectsEmptyVenues(t *testing.T) {
	_, err := New(zerolog.Nop()).WithDepth(5).WithSymbol("ethbtc").WithVenues(nil).Build(context.Background())
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("Build() error = %v, want ErrBuildFailed", err)
	}
}

func TestBuilderRejectsUnknownVenue(t *testing.T) {
	_, err := New(zerolog.Nop()).WithDepth(5).WithSymbol("ethbtc").WithVenues([]venue.Venue{venue.Unknown}).Build(context.Background())
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("Build() error = %v, want ErrBuildFailed", err)
	}
}

func TestBuilderErrShortCircuitsSubsequentCalls(t *testing.T) {
	b := New(zerolog.Nop()).WithDepth(0)
	b = b.WithSymbol("ethbtc").WithVenues([]venue.Venue{venue.Binance})
	_, err := b.Build(context.Background())
	if !errors.Is(err, ErrDepthNotPositive) {
		t.Fatalf("Build() error = %v, want ErrDepthNotPositive preserved across chained calls", err)
	}
}
