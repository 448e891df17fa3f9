package orderbook

import (
	"errors"
	"testing"
	"time"

	"github.com/BullionBear/orderbook-aggregator/internal/fanin"
	"github.com/BullionBear/orderbook-aggregator/internal/feed"
	"github.com/BullionBear/orderbook-aggregator/internal/level"
	"github.com/BullionBear/orderbook-aggregator/internal/snapshot"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

func pa(price, amount float64) snapshot.PriceAmount {
	return snapshot.PriceAmount{Price: price, Amount: amount}
}

func recv(t *testing.T, out <-chan Result) Result {
	t.Helper()
	select {
	case r := <-out:
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for merge result")
		return Result{}
	}
}

// Single venue, single snapshot.
func TestMergeEngineSingleVenueSingleSnapshot(t *testing.T) {
	tagged := make(chan fanin.Tagged, 1)
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Bids: []snapshot.PriceAmount{pa(10.0, 1), pa(9.5, 1), pa(9.0, 1)},
		Asks: []snapshot.PriceAmount{pa(11.0, 1), pa(11.5, 1), pa(12.0, 1)},
	}}}
	close(tagged)

	engine := NewEngine(2)
	out := engine.Run(tagged)

	r := recv(t, out)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	wantBids := []level.BidLevel{
		{Price: 10.0, Amount: 1, Venue: venue.Binance},
		{Price: 9.5, Amount: 1, Venue: venue.Binance},
	}
	wantAsks := []level.AskLevel{
		{Price: 11.0, Amount: 1, Venue: venue.Binance},
		{Price: 11.5, Amount: 1, Venue: venue.Binance},
	}
	if !equalBids(r.View.Bids, wantBids) {
		t.Fatalf("bids = %+v, want %+v", r.View.Bids, wantBids)
	}
	if !equalAsks(r.View.Asks, wantAsks) {
		t.Fatalf("asks = %+v, want %+v", r.View.Asks, wantAsks)
	}

	// drain the terminal event
	recv(t, out)
}

// Two venues interleaved.
func TestMergeEngineTwoVenuesInterleave(t *testing.T) {
	tagged := make(chan fanin.Tagged, 2)
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Bids: []snapshot.PriceAmount{pa(10, 1), pa(9, 1)},
	}}}
	tagged <- fanin.Tagged{Venue: venue.Bitstamp, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Bids: []snapshot.PriceAmount{pa(10.5, 2), pa(8.5, 1)},
	}}}
	close(tagged)

	engine := NewEngine(3)
	out := engine.Run(tagged)

	recv(t, out) // first snapshot's emission, not under test
	second := recv(t, out)

	want := []level.BidLevel{
		{Price: 10.5, Amount: 2, Venue: venue.Bitstamp},
		{Price: 10, Amount: 1, Venue: venue.Binance},
		{Price: 9, Amount: 1, Venue: venue.Binance},
	}
	if !equalBids(second.View.Bids, want) {
		t.Fatalf("bids = %+v, want %+v", second.View.Bids, want)
	}
}

// A venue's fresh snapshot fully displaces its stale levels.
func TestMergeEngineVenueRefreshDisplacesStale(t *testing.T) {
	tagged := make(chan fanin.Tagged, 2)
	tagged <- fanin.Tagged{Venue: venue.Bitstamp, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Asks: []snapshot.PriceAmount{pa(11, 1), pa(11.5, 1)},
	}}}
	tagged <- fanin.Tagged{Venue: venue.Bitstamp, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Asks: []snapshot.PriceAmount{pa(12, 1), pa(12.5, 1)},
	}}}
	close(tagged)

	engine := NewEngine(2)
	out := engine.Run(tagged)

	recv(t, out)
	second := recv(t, out)

	want := []level.AskLevel{
		{Price: 12, Amount: 1, Venue: venue.Bitstamp},
		{Price: 12.5, Amount: 1, Venue: venue.Bitstamp},
	}
	if !equalAsks(second.View.Asks, want) {
		t.Fatalf("asks = %+v, want %+v (no stale 11/11.5)", second.View.Asks, want)
	}
}

// Disconnect tolerance: one source's terminal error is forwarded,
// merging continues on the survivor.
func TestMergeEngineDisconnectTolerance(t *testing.T) {
	tagged := make(chan fanin.Tagged, 2)
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Bids: []snapshot.PriceAmount{pa(10, 1)},
	}}}
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Err: feed.ErrDisconnected}}
	close(tagged)

	engine := NewEngine(2)
	out := engine.Run(tagged)

	first := recv(t, out)
	if first.Err != nil {
		t.Fatalf("unexpected error on first event: %v", first.Err)
	}

	second := recv(t, out)
	if !errors.Is(second.Err, feed.ErrDisconnected) {
		t.Fatalf("second.Err = %v, want ErrDisconnected", second.Err)
	}
	if second.Venue != venue.Binance {
		t.Fatalf("second.Venue = %v, want Binance", second.Venue)
	}

	terminal := recv(t, out)
	if !errors.Is(terminal.Err, ErrStreamCancelled) {
		t.Fatalf("terminal.Err = %v, want ErrStreamCancelled", terminal.Err)
	}
}

// A bad frame on one source surfaces as an Err item without
// terminating the merged stream.
func TestMergeEngineBadFrameTolerance(t *testing.T) {
	tagged := make(chan fanin.Tagged, 3)
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{Bids: []snapshot.PriceAmount{pa(10, 1)}}}}
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Err: snapshot.ErrBadFrame}}
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{Bids: []snapshot.PriceAmount{pa(11, 1)}}}}
	close(tagged)

	engine := NewEngine(2)
	out := engine.Run(tagged)

	if r := recv(t, out); r.Err != nil {
		t.Fatalf("first event: unexpected error %v", r.Err)
	}
	if r := recv(t, out); !errors.Is(r.Err, snapshot.ErrBadFrame) {
		t.Fatalf("second event = %v, want ErrBadFrame", r.Err)
	}
	if r := recv(t, out); r.Err != nil {
		t.Fatalf("third event: unexpected error %v", r.Err)
	}
}

func TestMergeEngineNeverExceedsDepth(t *testing.T) {
	tagged := make(chan fanin.Tagged, 1)
	var bids []snapshot.PriceAmount
	for i := 0; i < 50; i++ {
		bids = append(bids, pa(float64(i), 1))
	}
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{Bids: bids}}}
	close(tagged)

	engine := NewEngine(5)
	out := engine.Run(tagged)
	r := recv(t, out)
	if len(r.View.Bids) != 5 {
		t.Fatalf("len(bids) = %d, want 5", len(r.View.Bids))
	}
}

func TestMergeEngineNoDuplicateVenuePriceTriples(t *testing.T) {
	tagged := make(chan fanin.Tagged, 1)
	tagged <- fanin.Tagged{Venue: venue.Binance, Event: feed.Event{Snapshot: snapshot.Snapshot{
		Bids: []snapshot.PriceAmount{pa(10, 1), pa(10, 1)},
	}}}
	close(tagged)

	engine := NewEngine(5)
	r := recv(t, engine.Run(tagged))
	if len(r.View.Bids) != 1 {
		t.Fatalf("len(bids) = %d, want 1 (exact duplicate price/venue collapses to one entry)", len(r.View.Bids))
	}
}

func equalBids(got, want []level.BidLevel) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func equalAsks(got, want []level.AskLevel) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
