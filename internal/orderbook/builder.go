package orderbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BullionBear/orderbook-aggregator/internal/fanin"
	"github.com/BullionBear/orderbook-aggregator/internal/feed"
	"github.com/BullionBear/orderbook-aggregator/internal/feed/binance"
	"github.com/BullionBear/orderbook-aggregator/internal/feed/bitstamp"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrDepthNotPositive is returned by WithDepth for N <= 0.
var ErrDepthNotPositive = errors.New("orderbook: max depth must be greater than zero")

// ErrBuildFailed wraps the first adapter connect failure surfaced by Build.
var ErrBuildFailed = errors.New("orderbook: build failed")

// Builder is a plain, validate-at-Build configurator for an Aggregator.
// Each With* call records the first validation error it hits; Build is
// the sole point that surfaces one, so a half-configured aggregator can
// never start.
type Builder struct {
	depth  int
	symbol string
	venues []venue.Venue
	log    zerolog.Logger
	err    error
}

// New starts a fresh Builder.
func New(log zerolog.Logger) *Builder {
	return &Builder{log: log}
}

// WithDepth sets the per-side cap N. N must be positive.
func (b *Builder) WithDepth(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n <= 0 {
		b.err = ErrDepthNotPositive
		return b
	}
	b.depth = n
	return b
}

// WithSymbol sets the venue-accepted trading pair symbol.
func (b *Builder) WithSymbol(symbol string) *Builder {
	if b.err != nil {
		return b
	}
	b.symbol = symbol
	return b
}

// WithVenues sets the set of venues to aggregate across.
func (b *Builder) WithVenues(venues []venue.Venue) *Builder {
	if b.err != nil {
		return b
	}
	b.venues = venues
	return b
}

func adapterFor(v venue.Venue, log zerolog.Logger) (feed.Adapter, error) {
	switch v {
	case venue.Binance:
		return binance.New(log), nil
	case venue.Bitstamp:
		return bitstamp.New(log), nil
	default:
		return nil, fmt.Errorf("%w: %s", venue.ErrUnknownVenue, v)
	}
}

// Build connects every configured venue's adapter concurrently, so
// total time is bounded by the slowest adapter, and assembles
// the fan-in multiplexer and merge engine. It fails with ErrBuildFailed
// if no venue is configured or any adapter fails to connect; a
// validation error recorded by an earlier With* call (such as
// ErrDepthNotPositive) is returned as is. The adapters' sockets stay
// open until ctx is done.
func (b *Builder) Build(ctx context.Context) (*Aggregator, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.venues) == 0 {
		return nil, fmt.Errorf("%w: no venues configured", ErrBuildFailed)
	}

	var group errgroup.Group
	streams := make(map[venue.Venue]<-chan feed.Event, len(b.venues))
	var mu sync.Mutex

	for _, v := range b.venues {
		v := v
		group.Go(func() error {
			adapter, err := adapterFor(v, b.log)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBuildFailed, err)
			}
			ch, err := adapter.Connect(ctx, b.symbol, b.depth)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrBuildFailed, v, err)
			}
			mu.Lock()
			streams[v] = ch
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	tagged := fanin.Merge(streams)
	engine := NewEngine(b.depth)

	return &Aggregator{
		Symbol: b.symbol,
		Depth:  b.depth,
		Venues: b.venues,
		engine: engine,
		tagged: tagged,
	}, nil
}
