// Package fanin merges the independent per-venue feed streams into one
// tagged stream, preserving each source's own delivery order without
// imposing any ordering between sources.
package fanin

import (
	"sync"

	"github.com/BullionBear/orderbook-aggregator/internal/feed"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
)

// Tagged is one event from the fan-in, annotated with its source venue.
type Tagged struct {
	Venue venue.Venue
	Event feed.Event
}

// Merge fans K independent adapter streams into a single channel. Each
// source's FIFO order is preserved because one goroutine per source does
// nothing but forward from that source to the shared output; a slow
// source never blocks delivery from a fast one. The output closes once
// every source has terminated.
func Merge(sources map[venue.Venue]<-chan feed.Event) <-chan Tagged {
	out := make(chan Tagged)
	var wg sync.WaitGroup
	wg.Add(len(sources))

	for v, ch := range sources {
		go func(v venue.Venue, ch <-chan feed.Event) {
			defer wg.Done()
			for ev := range ch {
				out <- Tagged{Venue: v, Event: ev}
			}
		}(v, ch)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
