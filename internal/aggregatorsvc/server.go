// Package aggregatorsvc wires the merge engine to the streaming gRPC
// surface: it owns no state of its own beyond configuration, building a
// fresh orderbook.Aggregator per subscription.
package aggregatorsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/BullionBear/orderbook-aggregator/api/orderbookpb"
	"github.com/BullionBear/orderbook-aggregator/internal/feed"
	"github.com/BullionBear/orderbook-aggregator/internal/ledger"
	"github.com/BullionBear/orderbook-aggregator/internal/level"
	"github.com/BullionBear/orderbook-aggregator/internal/metrics"
	"github.com/BullionBear/orderbook-aggregator/internal/orderbook"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Publisher is the optional secondary fan-out sink a Server pushes
// every merged view to alongside the primary gRPC stream (see
// internal/fanout.NATSPublisher). Nil disables it.
type Publisher interface {
	Publish(view orderbook.MergedView) error
}

// summarySource is what BookSummary pumps: a built aggregator, or a
// test double standing in for one.
type summarySource interface {
	Stream() <-chan orderbook.Result
}

// Server implements orderbookpb.OrderbookAggregatorServer. One Server
// serves the whole process; every BookSummary call builds and tears
// down its own Aggregator.
type Server struct {
	orderbookpb.UnimplementedOrderbookAggregatorServer

	Symbol  string
	Depth   int
	Venues  []venue.Venue
	Log     zerolog.Logger
	Metrics *metrics.Metrics
	Ledger  *ledger.Ledger
	Fanout  Publisher

	// buildAggregator overrides aggregator construction in tests. Nil
	// selects the real builder.
	buildAggregator func(ctx context.Context, log zerolog.Logger) (summarySource, error)
}

// New constructs a Server bound to one fixed (symbol, depth, venues)
// configuration, matching the CLI surface the process was started with.
// m may be nil, in which case metrics are not recorded.
func New(symbol string, depth int, venues []venue.Venue, log zerolog.Logger, m *metrics.Metrics) *Server {
	return &Server{Symbol: symbol, Depth: depth, Venues: venues, Log: log, Metrics: m}
}

// BookSummary builds a fresh aggregator for this subscription, then
// pumps its merge engine's output onto the outbound stream until the
// client cancels or every upstream venue has disconnected.
func (s *Server) BookSummary(_ *orderbookpb.Empty, stream orderbookpb.OrderbookAggregator_BookSummaryServer) error {
	ctx := stream.Context()
	subID := uuid.NewString()
	log := s.Log.With().Str("subscription_id", subID).Str("symbol", s.Symbol).Logger()

	build := s.buildAggregator
	if build == nil {
		build = func(ctx context.Context, log zerolog.Logger) (summarySource, error) {
			return orderbook.New(log).
				WithDepth(s.Depth).
				WithSymbol(s.Symbol).
				WithVenues(s.Venues).
				Build(ctx)
		}
	}
	agg, err := build(ctx, log)
	if err != nil {
		log.Error().Err(err).Msg("could not create orderbook")
		return status.Error(codes.Aborted, "could not create orderbook")
	}

	if s.Metrics != nil {
		s.Metrics.SubscriptionsActive.Inc()
		defer s.Metrics.SubscriptionsActive.Dec()
	}
	if s.Ledger != nil {
		venues := make([]string, len(s.Venues))
		for i, v := range s.Venues {
			venues[i] = v.String()
		}
		if err := s.Ledger.Start(subID, s.Symbol, s.Depth, strings.Join(venues, ",")); err != nil {
			log.Warn().Err(err).Msg("could not record subscription start")
		}
	}

	reason := "client cancelled"
	defer func() {
		if s.Ledger != nil {
			if err := s.Ledger.End(subID, reason); err != nil {
				log.Warn().Err(err).Msg("could not record subscription end")
			}
		}
	}()

	for result := range agg.Stream() {
		if result.Err != nil {
			s.recordError(result)
			if errors.Is(result.Err, orderbook.ErrStreamCancelled) {
				reason = "upstream exhausted"
				return status.Error(codes.DataLoss, "could not retrieve update from orderbook")
			}
			log.Warn().Err(result.Err).Str("venue", result.Venue.String()).Msg("dropping merge event")
			continue
		}

		if s.Metrics != nil {
			s.Metrics.MergeEmissionsTotal.Inc()
		}
		if s.Fanout != nil {
			if err := s.Fanout.Publish(result.View); err != nil {
				log.Warn().Err(err).Msg("fanout publish failed")
			}
		}
		if err := stream.Send(toSummary(result.View)); err != nil {
			reason = "send failed: " + err.Error()
			return err
		}
	}

	return nil
}

// recordError attributes a non-nil merge-engine error to the adapter
// disconnect or decode-error counter it belongs to; errors.Is-checked
// against feed's sentinel kinds so the metric stays accurate even
// though the error may have been wrapped with additional context.
func (s *Server) recordError(result orderbook.Result) {
	if s.Metrics == nil {
		return
	}
	venueLabel := result.Venue.String()
	switch {
	case errors.Is(result.Err, feed.ErrDisconnected), errors.Is(result.Err, feed.ErrHandshake):
		s.Metrics.AdapterDisconnects.WithLabelValues(venueLabel).Inc()
	case errors.Is(result.Err, orderbook.ErrStreamCancelled):
		// terminal for the whole subscription, not a single adapter.
	default:
		s.Metrics.AdapterDecodeErrors.WithLabelValues(venueLabel).Inc()
	}
}

func toSummary(view orderbook.MergedView) *orderbookpb.Summary {
	var spread float64
	if len(view.Asks) > 0 && len(view.Bids) > 0 {
		spread = view.Asks[0].Price - view.Bids[0].Price
	}
	return &orderbookpb.Summary{
		Spread: spread,
		Bids:   toLevels(view.Bids, func(b level.BidLevel) (float64, float64, venue.Venue) { return b.Price, b.Amount, b.Venue }),
		Asks:   toLevels(view.Asks, func(a level.AskLevel) (float64, float64, venue.Venue) { return a.Price, a.Amount, a.Venue }),
	}
}

func toLevels[T any](items []T, fields func(T) (price, amount float64, v venue.Venue)) []*orderbookpb.Level {
	out := make([]*orderbookpb.Level, len(items))
	for i, item := range items {
		price, amount, v := fields(item)
		out[i] = &orderbookpb.Level{Price: price, Amount: amount, Exchange: v.String()}
	}
	return out
}
