package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"regexsolver/config"
	"regexsolver/engine"
	"regexsolver/grpc"
	"regexsolver/hyperscan"
	"regexsolver/logging"
	"regexsolver/offset"
	"regexsolver/solve"
	"regexsolver/webapi"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dependency injection composition root
func main() {
	configPath := flag.String("config", "", "path to a YAML config file. If not set, the defaults are used.")
	logLevel := flag.String("loglevel", "", "sets log level. Can be one of: debug, info, warn, error, fatal, panic. Overrides the config file.")
	httpAddress := flag.String("http", "", "address of the HTTP endpoint, such as :8080. Overrides the config file.")
	grpcAddress := flag.String("grpc", "", "address of the gRPC endpoint, such as :37291. Overrides the config file.")
	profiling := flag.Bool("profiling", false, "whether to enable the :6060/debug/pprof/ endpoint")
	flag.Parse()

	c := config.Default()
	if *configPath != "" {
		var err error
		c, err = config.Load(*configPath)
		if err != nil {
			bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
			bootLogger.Fatal().Err(err).Str("config", *configPath).Msg("Error while loading config")
		}
	}

	if *logLevel != "" {
		c.LogLevel = *logLevel
	}
	if *httpAddress != "" {
		c.HTTP.Address = *httpAddress
	}
	if *grpcAddress != "" {
		c.GRPC.Address = *grpcAddress
	}

	loglevel, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		loglevel = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(loglevel).With().Timestamp().Caller().Logger()

	if *profiling {
		go func() {
			http.ListenAndServe(":6060", nil)
		}()
	}

	var rl solve.ResultsLogger
	if c.ResultsLog != "" {
		frl, err := logging.NewFileResultsLogger(&logging.LogFileSystemImpl{}, logger, c.ResultsLog)
		if err != nil {
			logger.Fatal().Err(err).Msg("Error while creating file results logger")
		}
		defer frl.Close()
		rl = frl
	} else {
		rl = logging.NewZerologResultsLogger(logger)
	}

	solver, defaults := newSolver(logger, c, rl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if c.HTTP.Address != "" {
		lis, err := net.Listen("tcp", c.HTTP.Address)
		if err != nil {
			logger.Fatal().Err(err).Str("address", c.HTTP.Address).Msg("Error while listening for HTTP")
		}
		h := webapi.NewHandler(logger, solver, defaults, c.HTTP.MaxBodyBytes)
		s := webapi.NewServer(logger, h, c.HTTP.MaxConnections)
		g.Go(func() error { return s.Serve(ctx, lis) })
	}

	if c.GRPC.Address != "" {
		lis, err := net.Listen("tcp", c.GRPC.Address)
		if err != nil {
			logger.Fatal().Err(err).Str("address", c.GRPC.Address).Msg("Error while listening for gRPC")
		}
		s := grpc.NewServer(logger, solver, defaults)
		g.Go(func() error { return s.Serve(ctx, lis) })
	}

	logger.Info().Str("flavor", string(defaults.Flavor)).Str("unit", string(defaults.Unit)).Bool("prefilter", c.Engine.Prefilter).Msg("Starting regex solver")
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Error while running regex solver")
		return
	}
	logger.Info().Msg("Regex solver stopped")
}

// newSolver wires the engine stack described by c.
func newSolver(logger zerolog.Logger, c config.Main, rl solve.ResultsLogger) (solve.Solver, solve.Defaults) {
	// Flavor and unit were already validated when the config was loaded.
	flavor, _ := engine.ParseFlavor(c.Engine.Flavor)
	unit, _ := offset.ParseUnit(c.Engine.Unit)

	compiler := engine.NewProgramCache(logger, engine.NewCompiler(c.Engine.MatchTimeout), c.Engine.CacheSize)
	invokers := engine.NewInvokerFactory(logger, compiler)

	var prefilters engine.PrefilterFactory
	if c.Engine.Prefilter {
		prefilters = hyperscan.NewPrefilterFactory(logger, c.Engine.PrefilterCacheDir)
	}

	return solve.NewSolver(logger, invokers, prefilters, rl), solve.Defaults{Flavor: flavor, Unit: unit}
}
