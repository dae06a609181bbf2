package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
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

	"github.com/mitchelldurbincs/zugzwang/internal/archive"
	"github.com/mitchelldurbincs/zugzwang/internal/config"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/zugzwang/internal/grpc/matchserver"
	"github.com/mitchelldurbincs/zugzwang/internal/monitoring"
	"github.com/mitchelldurbincs/zugzwang/internal/spectator"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay to merge (config.<env>.yaml)")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxMatches := flag.Int("max-matches", -1, "Maximum concurrent matches (-1 to use config default)")
	watch := flag.Bool("watch-config", false, "Reload default match rules when the config file changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
	}
	cfg := config.Get()
	ms := cfg.Server.MatchServer

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = ms.Port
	}
	if *host == "" {
		*host = ms.Host
	}
	if *logLevel == "" {
		*logLevel = ms.LogLevel
	}
	if *maxMatches == -1 {
		*maxMatches = ms.MaxMatches
	}

	setupLogging(*logLevel, ms.LogFormat)
	logger := log.Logger

	manager := matchserver.NewMatchManager(matchserver.ManagerOptions{
		MaxMatches:    *maxMatches,
		IdleTimeout:   time.Duration(ms.IdleTimeout) * time.Second,
		DefaultRules:  cfg.MatchConfig(),
		DefaultLayout: cfg.Game.Layout,
		Logger:        logger,
	})
	defer manager.Close()
	bus := manager.EventBus()

	eventLog := subscribers.NewLoggerSubscriber("event_logger", logger, zerolog.DebugLevel)
	eventLog.SetDevMode(*logLevel == "debug")
	bus.Subscribe(eventLog)

	monitor := monitoring.NewMonitor(logger)
	bus.Subscribe(monitor)
	monitor.AddProbe("active_matches", manager.ActiveMatches)
	monitor.Start()
	defer monitor.Stop()

	var recorder *archive.Recorder
	if cfg.Archive.Enabled {
		recorder = archive.NewRecorder(cfg.Archive.Dir, bus, logger)
		log.Info().Str("dir", cfg.Archive.Dir).Msg("Recording replays")
	}

	var (
		hub     *spectator.Hub
		httpSrv *http.Server
	)
	if cfg.Server.Spectator.Enabled {
		hub = spectator.NewHub(bus, manager, logger)
		monitor.AddProbe("watchers", hub.TotalWatchers)

		mux := http.NewServeMux()
		mux.Handle("/", hub.Handler())
		mux.Handle("GET /metrics", monitor.Handler())
		httpSrv = &http.Server{
			Addr:              cfg.Server.Spectator.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("address", httpSrv.Addr).Msg("Spectator feed listening")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Spectator feed failed")
			}
		}()
	}

	manager.OnMatchRemoved(func(matchID string) {
		if recorder != nil {
			recorder.Flush(matchID)
		}
		if hub != nil {
			hub.CloseMatch(matchID)
		}
	})

	if *watch {
		config.WatchConfig(func(c *config.Config) {
			manager.SetDefaults(c.MatchConfig(), c.Game.Layout)
		})
		log.Info().Str("file", config.ConfigFilePath()).Msg("Watching config for changes")
	}

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_matches", *maxMatches).
		Int("board_width", cfg.Game.Board.Width).
		Int("board_height", cfg.Game.Board.Height).
		Str("priority_mode", cfg.Game.Priority.Mode).
		Msg("Starting match server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			matchserver.LoggingInterceptor(logger),
			matchserver.RecoveryInterceptor(logger),
		),
	)
	matchserver.RegisterMatchServiceServer(grpcServer, matchserver.NewServer(manager, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(matchserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if ms.EnableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(matchserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(ms.GracefulShutdownDelay) * time.Second)

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

	if httpSrv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Spectator feed shutdown")
		}
		stop()
		hub.Close()
	}
	if recorder != nil {
		recorder.Close()
	}
	log.Info().Interface("metrics", monitor.Metrics()).Msg("Server shutdown complete")
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}
