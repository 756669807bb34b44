package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/config"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/experience"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/mapgen"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/grpc/predictorsvc"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/monitoring"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/predictor"
)

var errQuit = errors.New("quit")

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", -1, "Board seed (-1 to use config default, 0 for clock)")
	mode := flag.String("predictor", "", "Predictor mode: local or remote (empty to use config default)")
	strategy := flag.String("strategy", "", "Local strategy: hunt or random (empty to use config default)")
	address := flag.String("address", "", "Remote predictor address (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	reveal := flag.Bool("reveal", false, "Show the agent's plane")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *seed == -1 {
		*seed = cfg.Game.Seed
	}
	if *mode == "" {
		*mode = cfg.Predictor.Mode
	}
	if *strategy == "" {
		*strategy = cfg.Predictor.Strategy
	}
	if *address == "" {
		*address = cfg.Predictor.Address
	}
	if *logLevel == "" {
		*logLevel = cfg.Server.CLI.LogLevel
	}
	if !*reveal {
		*reveal = cfg.Development.RevealAgentBoard
	}

	setupLogging(*logLevel, cfg.Server.CLI.LogFormat)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			level, err := zerolog.ParseLevel(c.Server.CLI.LogLevel)
			if err != nil {
				return
			}
			zerolog.SetGlobalLevel(level)
			log.Info().Str("log_level", level.String()).Msg("Config reloaded")
		})
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	movePredictor, conn, err := buildPredictor(*mode, *strategy, *address, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up predictor")
	}
	if conn != nil {
		defer conn.Close()
	}

	monitor := monitoring.NewPredictorMonitor(
		monitoring.WithCheckInterval(cfg.Predictor.MonitorInterval()),
		monitoring.WithMonitorLogger(log.Logger),
	)
	monitor.Start()
	defer monitor.Stop()

	adapter := predictor.NewAdapter(movePredictor,
		predictor.WithTimeout(cfg.Predictor.Timeout()),
		predictor.WithLogger(log.Logger),
		predictor.WithRecorder(monitor),
	)

	bus := events.NewEventBusWithLogger(log.Logger)
	eventLogger := subscribers.NewLoggerSubscriber("cli-event-logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	bus.Subscribe(eventLogger)

	engine, err := game.NewEngine(ctx, game.GameConfig{
		Generator:    mapgen.NewGenerator(mapgen.DefaultMapConfig(), rand.New(rand.NewSource(*seed))),
		Chooser:      adapter,
		Logger:       log.Logger,
		EventBus:     bus,
		StreamBuffer: cfg.Game.StreamBuffer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine")
	}
	defer engine.Close()

	log.Info().
		Int64("seed", *seed).
		Str("predictor", *mode).
		Msg("Game started")

	var collector *experience.Collector
	var experiences *experience.Buffer
	if cfg.Experience.Enabled {
		experiences = experience.NewBuffer(cfg.Experience.BufferCapacity, log.Logger)
		collector = experience.NewCollector(experiences, log.Logger)
		expSub := engine.Subscribe()
		defer engine.Unsubscribe(expSub.ID)
		go func() {
			if err := collector.Run(ctx, expSub.Updates); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("Experience collection stopped")
			}
		}()
	}

	opts := game.RenderOptions{
		RevealAgentBoard: *reveal,
		ShowCoordinates:  cfg.Development.ShowCoordinates,
		NoColor:          *noColor || !isatty.IsTerminal(os.Stdout.Fd()),
	}

	if err := run(ctx, engine, os.Stdin, os.Stdout, opts); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Game loop failed")
	}

	m := monitor.GetMetrics()
	log.Info().
		Int("predictor_calls", m.Calls).
		Int("predictor_failures", m.Failures).
		Dur("avg_latency", m.AverageLatency).
		Msg("Session summary")

	if collector != nil {
		collected, gaps := collector.Stats()
		stats := experiences.Stats()
		log.Info().
			Int64("collected", collected).
			Int64("gaps", gaps).
			Int("buffered", stats.CurrentSize).
			Int64("dropped", stats.TotalDropped).
			Msg("Experience summary")
	}
}

// buildPredictor returns the configured predictor and, in remote mode, the connection backing it.
func buildPredictor(mode, strategy, address string, seed int64) (predictor.Predictor, *grpc.ClientConn, error) {
	switch mode {
	case config.PredictorModeRemote:
		conn, err := predictorsvc.Dial(address)
		if err != nil {
			return nil, nil, err
		}
		return predictorsvc.NewClient(conn), conn, nil
	case config.PredictorModeLocal:
		// Offset so the agent's rng does not mirror board placement
		rng := rand.New(rand.NewSource(seed + 1))
		switch strategy {
		case config.StrategyHunt:
			return predictor.NewHuntPredictor(rng), nil, nil
		case config.StrategyRandom:
			return predictor.NewRandomPredictor(rng), nil, nil
		}
		return nil, nil, fmt.Errorf("unknown strategy %q", strategy)
	}
	return nil, nil, fmt.Errorf("unknown predictor mode %q", mode)
}

// run renders every snapshot and executes commands read from in until quit, EOF or ctx ends.
func run(ctx context.Context, engine *game.Engine, in io.Reader, w io.Writer, opts game.RenderOptions) error {
	out := &syncWriter{w: w}
	sub := engine.Subscribe()
	defer engine.Unsubscribe(sub.ID)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case s, ok := <-sub.Updates:
				if !ok {
					return nil
				}
				fmt.Fprint(out, game.Render(s, opts))
			}
		}
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-gctx.Done():
				return
			}
		}
	}()

	g.Go(func() error {
		fmt.Fprintln(out, helpText)
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case line, ok := <-lines:
				if !ok {
					return errQuit
				}
				cmd, err := parseCommand(line)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				if err := execute(gctx, engine, cmd, out); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

func execute(ctx context.Context, engine *game.Engine, cmd command, out io.Writer) error {
	var err error
	switch cmd.kind {
	case cmdNone:
		return nil
	case cmdQuit:
		return errQuit
	case cmdHelp:
		fmt.Fprintln(out, helpText)
		return nil
	case cmdReset:
		_, err = engine.Reset(ctx)
	case cmdRetry:
		_, err = engine.ResumeAgentTurn(ctx)
	case cmdStrike:
		_, err = engine.PlayerStrike(ctx, cmd.target)
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, core.ErrPredictorUnavailable):
		fmt.Fprintf(out, "The agent could not move (%v). Type 'retry' to try again.\n", err)
	case errors.Is(err, core.ErrGameAlreadyFinished):
		fmt.Fprintln(out, "The game is over. Type 'reset' for a new one.")
	case errors.Is(err, game.ErrAgentTurnPending):
		fmt.Fprintln(out, "The agent still owes a move. Type 'retry'.")
	case errors.Is(err, game.ErrNoAgentTurnPending):
		fmt.Fprintln(out, "Nothing to retry.")
	default:
		fmt.Fprintln(out, err)
	}
	return nil
}

// syncWriter serializes writes from the render and command loops
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr so they do not interleave with the board on stdout
	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
