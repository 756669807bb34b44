package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/config"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/grpc/predictorsvc"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/predictor"
)

// serverOptions is the merged result of flags and config. Flag sentinels
// (-1, empty, false) defer to the config value.
type serverOptions struct {
	Host             string
	Port             int
	LogLevel         string
	Strategy         string
	Seed             int64
	EnableReflection bool
	ShutdownDelay    time.Duration
}

func resolveOptions(flags serverOptions, cfg *config.Config) serverOptions {
	opts := flags
	if opts.Port == -1 {
		opts.Port = cfg.Server.PredictorServer.Port
	}
	if opts.Host == "" {
		opts.Host = cfg.Server.PredictorServer.Host
	}
	if opts.LogLevel == "" {
		opts.LogLevel = cfg.Server.PredictorServer.LogLevel
	}
	if opts.Strategy == "" {
		opts.Strategy = cfg.Predictor.Strategy
	}
	if opts.Seed == -1 {
		opts.Seed = cfg.Game.Seed
	}
	if !opts.EnableReflection {
		opts.EnableReflection = cfg.Server.PredictorServer.EnableReflection
	}
	opts.ShutdownDelay = time.Duration(cfg.Server.PredictorServer.GracefulShutdownDelay) * time.Second
	return opts
}

// newStrategy builds the predictor served for name. A zero seed seeds from the clock.
func newStrategy(name string, seed int64) (predictor.Predictor, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	switch name {
	case config.StrategyHunt:
		return predictor.NewHuntPredictor(rng), nil
	case config.StrategyRandom:
		return predictor.NewRandomPredictor(rng), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// newGRPCServer registers the predictor and health services on a fresh server.
func newGRPCServer(p predictor.Predictor, enableReflection bool, logger zerolog.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			predictorsvc.LoggingInterceptor(logger),
			predictorsvc.RecoveryInterceptor(logger),
		),
	)

	predictorsvc.RegisterMovePredictorServer(grpcServer, predictorsvc.NewServer(p, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(predictorsvc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(grpcServer)
		logger.Info().Msg("gRPC reflection enabled")
	}
	return grpcServer, healthServer
}

func main() {
	configPath := flag.String("config", "", "Path to config file")
	var flags serverOptions
	flag.IntVar(&flags.Port, "port", -1, "The server port (-1 to use config default)")
	flag.StringVar(&flags.Host, "host", "", "The server host (empty to use config default)")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	flag.StringVar(&flags.Strategy, "strategy", "", "Move strategy to serve: hunt or random (empty to use config default)")
	flag.Int64Var(&flags.Seed, "seed", -1, "Random seed for the strategy (-1 to use config default, 0 for clock)")
	flag.BoolVar(&flags.EnableReflection, "enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	opts := resolveOptions(flags, config.Get())
	setupLogging(opts.LogLevel)

	strategy, err := newStrategy(opts.Strategy, opts.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build strategy")
	}

	log.Info().
		Int("port", opts.Port).
		Str("host", opts.Host).
		Str("strategy", opts.Strategy).
		Int64("seed", opts.Seed).
		Msg("Starting gRPC predictor server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", opts.Host, opts.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer, healthServer := newGRPCServer(strategy, opts.EnableReflection, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(predictorsvc.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		time.Sleep(opts.ShutdownDelay)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
