// Command orderbook-aggregator runs the BookSummary gRPC server for one
// symbol against a configured set of venues.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/BullionBear/orderbook-aggregator/api/orderbookpb"
	_ "github.com/BullionBear/orderbook-aggregator/docs"
	"github.com/BullionBear/orderbook-aggregator/internal/aggregatorsvc"
	"github.com/BullionBear/orderbook-aggregator/internal/fanout"
	"github.com/BullionBear/orderbook-aggregator/internal/httpapi"
	"github.com/BullionBear/orderbook-aggregator/internal/ledger"
	"github.com/BullionBear/orderbook-aggregator/internal/metrics"
	"github.com/BullionBear/orderbook-aggregator/internal/venue"
	"github.com/BullionBear/orderbook-aggregator/pkg/logger"
	"github.com/BullionBear/orderbook-aggregator/pkg/shutdown"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
)

var v = viper.New()

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		// cobra already printed the error; flag/arg validation
		// failures exit 2.
		os.Exit(2)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orderbook-aggregator",
		Short:         "Aggregate top-of-book depth across exchanges and serve it over gRPC",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("symbol", "", "trading pair in venue-accepted lowercase form, e.g. ethbtc (required)")
	flags.Int("max-depth", 0, "per-side depth of the merged book; must be > 0 (required)")
	flags.String("exchanges", "", "comma-separated venue names, case-insensitive (required)")
	flags.Int("port", 0, "TCP port the gRPC server binds on [::]: (required)")
	flags.Int("http-port", 0, "TCP port for /healthz, /readyz, /metrics, and Swagger UI (0 disables)")
	flags.String("nats-url", "", "NATS URL for the optional summary fan-out publisher (empty disables)")
	flags.String("postgres-dsn", "", "Postgres DSN for the optional subscription ledger (empty disables)")
	flags.Bool("dev", false, "use human-readable console logging instead of JSON")

	for _, name := range []string{"symbol", "max-depth", "exchanges", "port"} {
		_ = cmd.MarkFlagRequired(name)
	}
	_ = v.BindPFlags(flags)
	v.AutomaticEnv()

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	symbol := v.GetString("symbol")
	maxDepth := v.GetInt("max-depth")
	exchangesCSV := v.GetString("exchanges")
	port := v.GetInt("port")
	httpPort := v.GetInt("http-port")
	natsURL := v.GetString("nats-url")
	postgresDSN := v.GetString("postgres-dsn")
	dev := v.GetBool("dev")

	logger.InitLogger(dev)
	log := logger.Get()

	if maxDepth <= 0 {
		fmt.Fprintln(os.Stderr, "max depth must be greater than zero")
		return errExit
	}
	venues, err := venue.ParseAll(exchangesCSV)
	if err != nil || len(venues) == 0 {
		fmt.Fprintf(os.Stderr, "unknown venue in --exchanges %q\n", exchangesCSV)
		return errExit
	}

	m := metrics.New()

	server := aggregatorsvc.New(symbol, maxDepth, venues, *log, m)

	if postgresDSN != "" {
		led, err := ledger.New(postgresDSN)
		if err != nil {
			log.Error().Err(err).Msg("could not open subscription ledger")
			return errExit
		}
		server.Ledger = led
	}

	if natsURL != "" {
		pub, err := fanout.NewNATSPublisher(natsURL, symbol)
		if err != nil {
			log.Error().Err(err).Msg("could not start nats fanout publisher")
			return errExit
		}
		defer pub.Close()
		server.Fanout = pub
	}

	sd := shutdown.New(*log)

	lis, err := net.Listen("tcp", fmt.Sprintf("[::]:%d", port))
	if err != nil {
		log.Error().Err(err).Msg("failed to listen")
		return errExit
	}
	grpcServer := grpc.NewServer()
	orderbookpb.RegisterOrderbookAggregatorServer(grpcServer, server)
	sd.HookShutdownCallback("grpc-server", grpcServer.GracefulStop, 10*time.Second)

	go func() {
		log.Info().Str("addr", lis.Addr().String()).Str("symbol", symbol).Int("depth", maxDepth).Msg("serving BookSummary")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	if httpPort > 0 {
		router := httpapi.NewRouter(m)
		httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", httpPort), Handler: router}
		sd.HookShutdownCallback("http-server", func() { _ = httpSrv.Close() }, 5*time.Second)
		go func() {
			log.Info().Int("port", httpPort).Msg("serving ops http endpoints")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server stopped")
			}
		}()
	}

	sd.WaitForShutdown()
	return nil
}

// errExit is a sentinel returned by run to signal an exit(2)-worthy
// validation failure without cobra re-printing usage (SilenceUsage is
// already set); the message itself was already written to stderr.
var errExit = fmt.Errorf("invalid configuration")
