// Command backtest-runner is a demo harness wiring the engine's packages
// together against synthetic OHLCV data and the RSI-crossover reference
// strategy. The engine itself is a library with no CLI; this binary is
// one runnable entrypoint showing how the pieces fit together.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"

	"github.com/atlas-desktop/backtest-engine/internal/config"
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/internal/fleet"
	"github.com/atlas-desktop/backtest-engine/internal/indicator"
	"github.com/atlas-desktop/backtest-engine/internal/input"
	"github.com/atlas-desktop/backtest-engine/internal/metrics"
	"github.com/atlas-desktop/backtest-engine/internal/strategy"
	"github.com/atlas-desktop/backtest-engine/internal/trade"
	"github.com/atlas-desktop/backtest-engine/internal/viability"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
	"github.com/atlas-desktop/backtest-engine/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "", "path to engine build config (YAML/TOML/JSON); empty uses defaults")
	nBars := flag.Int("bars", 500, "number of synthetic bars to simulate")
	rsiPeriod := flag.Int("rsi-period", 11, "RSI period for the reference strategy")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	fleetSize := flag.Int("fleet-size", 1, "number of independent backtests to run concurrently over the worker-pool fleet")
	flag.Parse()

	logger := setupLogger(*logLevel)
	defer logger.Sync()

	build, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load engine config", zap.Error(err))
	}

	runID := utils.NewRunID("demo")
	logger.Info("starting backtest",
		zap.String("run_id", runID),
		zap.Int("bars", *nBars),
		zap.Int("rsi_period", *rsiPeriod),
		zap.Int("fleet_size", *fleetSize),
	)

	report, err := runFleet(logger, runID, build, *nBars, *rsiPeriod, *fleetSize)
	if err != nil {
		logger.Fatal("backtest failed", zap.Error(err))
	}

	printReport(report)
}

// metricReport is the terminal, human-readable view of one account's run.
type metricReport struct {
	names  []string
	values map[string]float32
}

// backtestRun bundles one World with the artifacts needed to extract its
// metricReport once fleet.Run has advanced it to completion. fleet.Job
// only carries a World and a RunID, so everything this package needs
// afterward (the graph, the per-account stores, the declaration list)
// travels alongside it in this slice, indexed the same way as the job
// slice handed to fleet.Run.
type backtestRun struct {
	runID string
	res   *types.Resources
	graph *metrics.Graph
	store *metrics.Store
	decls []metrics.Declaration
}

// runFleet builds n independent backtests (each seeded with its own
// phase-shifted synthetic series so the runs are not identical) and
// drives them concurrently through internal/fleet rather than calling
// World.Run directly, exercising the same bounded worker pool a batch
// parameter sweep would use. It returns the first run's metricReport and
// logs a viability assessment for every run in the batch.
func runFleet(logger *zap.Logger, runID string, build *config.EngineBuild, nBars, rsiPeriod, n int) (metricReport, error) {
	if n < 1 {
		n = 1
	}

	jobs := make([]fleet.Job, n)
	runs := make([]*backtestRun, n)
	for i := 0; i < n; i++ {
		id := runID
		if n > 1 {
			id = fmt.Sprintf("%s-%d", runID, i)
		}
		world, run := buildRun(logger, id, build, nBars, rsiPeriod, i)
		jobs[i] = fleet.Job{RunID: id, World: world}
		runs[i] = run
	}

	f := fleet.New(logger, n)
	defer f.Close()

	results := f.Run(context.Background(), jobs)
	for _, r := range results {
		if r.Err != nil {
			return metricReport{}, fmt.Errorf("fleet run %s: %w", r.RunID, r.Err)
		}
	}

	checker := viability.NewChecker(viability.DefaultThresholds())
	var first metricReport
	for i, run := range runs {
		report := run.extractReport()
		if i == 0 {
			first = report
		}
		vr := checker.Check(snapshotFrom(report))
		logger.Info("viability assessment",
			zap.String("run_id", run.runID),
			zap.Bool("viable", vr.IsViable),
			zap.Int("score", vr.Score),
			zap.String("grade", vr.Grade),
			zap.String("summary", vr.Summary),
		)
	}

	return first, nil
}

// buildRun wires one full scheduler (input, indicator, trade, metrics,
// strategy) around its own Resources/Account pair and returns the World
// ready for fleet.Run, plus the backtestRun handle used to read its
// metrics back out afterward. seed phase-shifts the synthetic series so
// concurrent fleet members don't all replay the identical bars.
func buildRun(logger *zap.Logger, runID string, build *config.EngineBuild, nBars, rsiPeriod, seed int) (*engine.World, *backtestRun) {
	bars := syntheticBars(nBars, seed)

	res := &types.Resources{
		Mode:               types.ModeHLCV,
		Slippage:           types.Slippage{Kind: slippageKindFromString(build.SlippageKind), Value: build.SlippageValueF32()},
		Fee:                types.Fee{Rate: build.FeeRateF32()},
		StartingBalance:    build.StartingBalanceF32(),
		RiskFreeRate:       build.RiskFreeRateF32(),
		TradingDaysPerYear: build.TradingDaysPerYearF32(),
		AccountsPerThread:  build.AccountsPerThread,
		ThreadsPerDevice:   build.ThreadsPerDevice,
		ThreadID:           build.ThreadID,
		NSamples:           build.NSamples,
		TimeframeSeconds:   3600,
	}

	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	schema := input.HLCVSchema{Bars: bars, TimeframeSeconds: res.TimeframeSeconds}
	input.RegisterSystems(sched, res, schema, types.ModeHLCV)

	acc := &types.Account{Balance: res.StartingBalance}
	accounts := []*types.Account{acc}

	closeReader := input.NewCloseReader(bars)
	binding := &indicator.Binding{
		Name:      "rsi",
		Indicator: indicator.NewRSI(rsiPeriod),
		Reader:    closeReader,
	}
	perAccountIndicators := [][]*indicator.Binding{{binding}}
	indicator.RegisterSystems(sched, perAccountIndicators)

	orders := trade.NewOrders(8, 8)
	events := types.NewEventBuffer(32)
	ordersOf := []*trade.Orders{orders}
	eventsOf := []*types.EventBuffer{events}
	trade.RegisterSystems(sched, ordersOf, eventsOf)

	trackerNames := map[string]bool{"Balance": true, "Drawdown": true}
	decls := metrics.CanonicalDeclarations(trackerNames)
	graph := metrics.NewGraph(decls)
	store := metrics.NewStore()
	stores := []*metrics.Store{store}

	nSamples := build.NSamples
	trackBuf := metrics.NewTrackBuffer(
		make([]byte, graph.TrackerCount()*nSamples*len(accounts)*res.ThreadsPerDevice*4),
		graph.TrackerCount(), nSamples,
		metrics.Topology{AccountsPerThread: res.AccountsPerThread, ThreadsPerDevice: res.ThreadsPerDevice},
	)
	graph.RegisterSystems(sched, stores, eventsOf, trackBuf, res.ThreadID)

	strat := strategy.RSICrossover{IndicatorName: "rsi", Oversold: 30, Overbought: 70}.Strategy()
	indicatorsByAccount := []map[string]*indicator.Binding{{"rsi": binding}}
	hyperparamsByAccount := []map[string]strategy.Hyperparameter{{}}
	strategy.RegisterSystems(sched, strat, indicatorsByAccount, hyperparamsByAccount, stores, ordersOf)

	world := engine.NewWorld(logger, sched, res, accounts, runID)
	return world, &backtestRun{runID: runID, res: res, graph: graph, store: store, decls: decls}
}

// extractReport flushes this run's Store into a fresh MetricBuffer and
// reads it back as a metricReport, the same round trip a warm-started
// run's caller would use to persist and later resume from terminal
// values.
func (run *backtestRun) extractReport() metricReport {
	res := run.res
	metricBuf := metrics.NewMetricBuffer(
		make([]byte, len(run.decls)*res.AccountsPerThread*res.ThreadsPerDevice*4),
		metrics.Topology{AccountsPerThread: res.AccountsPerThread, ThreadsPerDevice: res.ThreadsPerDevice},
	)
	run.graph.FlushToBuffer([]*metrics.Store{run.store}, metricBuf, res.ThreadID)

	report := metricReport{values: make(map[string]float32)}
	for i, d := range run.decls {
		name := d.Metric.Name()
		report.names = append(report.names, name)
		report.values[name] = metricBuf.Read(metrics.FieldOffset(i), 0, res.ThreadID)
	}
	return report
}

func snapshotFrom(report metricReport) viability.Snapshot {
	return viability.Snapshot{
		SharpeRatio:    report.values["SharpeRatio"],
		SortinoRatio:   report.values["SortinoRatio"],
		MaxDrawdown:    report.values["MaxDrawdown"],
		ProfitFactor:   report.values["ProfitFactor"],
		WinRate:        report.values["WinRate"],
		NTrades:        report.values["NTrades"],
		ExpectedPayoff: report.values["ExpectedPayoff"],
	}
}

func printReport(report metricReport) {
	for _, name := range report.names {
		v := decimal.NewFromFloat32(report.values[name])
		fmt.Printf("%-24s %s\n", name, v.StringFixed(6))
	}
}

// syntheticBars generates a deterministic oscillating close-price series
// so the RSI-crossover reference strategy has something to trade against
// without depending on the (explicitly out-of-scope) data-ingestion
// layer. seed phase-shifts the oscillation so concurrent fleet members
// don't all replay the identical bars.
func syntheticBars(n, seed int) []types.Bar {
	bars := make([]types.Bar, n)
	phase := float64(seed) * 0.7
	for i := 0; i < n; i++ {
		price := float32(100) + 3*float32(math.Sin(float64(i)*0.15+phase))
		bars[i] = types.Bar{High: price + 0.5, Low: price - 0.5, Close: price, Volume: 1000}
	}
	return bars
}

func slippageKindFromString(s string) types.SlippageKind {
	if s == "absolute" {
		return types.SlippageAbsolute
	}
	return types.SlippageRelative
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
