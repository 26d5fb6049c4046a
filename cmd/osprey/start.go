package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"code.ospreymarkets.io/osprey/broker"
	"code.ospreymarkets.io/osprey/config"
	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/execution"
	"code.ospreymarkets.io/osprey/logging"
	"code.ospreymarkets.io/osprey/metrics"
	"code.ospreymarkets.io/osprey/types"

	"github.com/spf13/cobra"
)

var startOpts struct {
	env      string
	products []string
	preOpen  bool
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the exchange",
	Long:  "Create the configured products, walk the market through pre-open into open and serve until interrupted",
	RunE:  runStart,
}

func init() {
	fs := startCmd.Flags()
	fs.StringVar(&startOpts.env, "env", "prod", "Environment to use for logging (dev, prod)")
	fs.StringSliceVar(&startOpts.products, "products", []string{"TGT", "WMT"}, "Product symbols to create at startup")
	fs.BoolVar(&startOpts.preOpen, "pre-open", false, "Stop in pre-open instead of opening the market")
}

func runStart(_ *cobra.Command, _ []string) error {
	log := logging.NewLoggerFromEnv(startOpts.env)
	defer log.AtExit()

	ctx := context.Background()
	cfg := config.NewDefaultConfig()

	bkr := broker.New(log, cfg.Broker)
	bkr.Subscribe(newEventLogger(log))

	engine := execution.NewEngine(log, cfg.Execution, cfg.Matching, bkr, types.NewPriceTable())
	for _, symbol := range startOpts.products {
		if err := engine.CreateProduct(strings.TrimSpace(symbol)); err != nil {
			return err
		}
	}

	metrics.Start(cfg.Metrics)

	if err := engine.SetMarketState(ctx, types.MarketPreOpen); err != nil {
		return err
	}
	if !startOpts.preOpen {
		if err := engine.SetMarketState(ctx, types.MarketOpen); err != nil {
			return err
		}
	}

	log.Info("exchange running",
		logging.String("state", engine.MarketState().String()),
		logging.Int("products", len(engine.Products())),
	)
	waitSig(log)

	if engine.MarketState() == types.MarketOpen {
		if err := engine.SetMarketState(ctx, types.MarketClosed); err != nil {
			return err
		}
	}
	log.Info("exchange stopped")
	return nil
}

func waitSig(log *logging.Logger) {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)

	sig := <-gracefulStop
	log.Info("caught signal", logging.String("name", sig.String()))
}

// eventLogger subscribes to the whole event stream and writes every event to
// the log, which doubles as the reference market data feed in development.
type eventLogger struct {
	log *logging.Logger
	id  int
}

func newEventLogger(log *logging.Logger) *eventLogger {
	return &eventLogger{log: log.Named("events")}
}

func (e *eventLogger) Push(evts ...events.Event) {
	for _, evt := range evts {
		e.log.Info(evt.Type().String(), logging.String("event", eventString(evt)))
	}
}

func (e *eventLogger) Types() []events.Type {
	return []events.Type{events.All}
}

func (e *eventLogger) SetID(id int) { e.id = id }
func (e *eventLogger) ID() int      { return e.id }

func eventString(evt events.Event) string {
	if s, ok := evt.(interface{ String() string }); ok {
		return s.String()
	}
	return evt.Type().String()
}
