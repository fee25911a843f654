package app

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lost-and-hound/server/internal/config"
	"lost-and-hound/server/internal/leaderboard"
	srvnet "lost-and-hound/server/internal/net"
	"lost-and-hound/server/internal/sim"
	"lost-and-hound/server/internal/world"
)

// Run assembles the server from configuration and blocks until ctx is
// cancelled, then shuts everything down in reverse order.
func Run(ctx context.Context) error {
	configPath := flag.String("config", "", "path to the server config file")
	flag.Parse()

	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gameCfg, err := world.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		return err
	}

	w := world.New(gameCfg, world.Options{
		RandomizeSpawnPoints: cfg.RandomizeSpawnPoints,
		RetirementTime:       cfg.RetirementTime(),
		Logger:               logger,
	})

	var (
		records *leaderboard.Store
		writer  *leaderboard.Writer
	)
	if cfg.DatabaseDSN != "" {
		records, err = leaderboard.Open(cfg.DatabaseDSN, cfg.PoolSize)
		if err != nil {
			return err
		}
		if err := records.Initialize(); err != nil {
			return err
		}
		writer = leaderboard.NewWriter(records, 64, logger)
		defer writer.Close()

		w.SetRetirementCallback(func(name string, score int, playTime time.Duration) {
			writer.Enqueue(name, score, playTime)
		})
	} else {
		logger.Warn("no database configured, retirements will not be persisted")
	}

	hub := srvnet.NewHub(logger)
	defer hub.Close()

	loop := sim.NewLoop(w, sim.LoopConfig{
		TickPeriod: cfg.TickPeriod(),
	}, sim.LoopHooks{
		AfterTick: hub.Broadcast,
	}, logger)

	stop := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(stop)
	}()

	var api srvnet.Leaderboard
	if records != nil {
		api = records
	}
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srvnet.NewServer(loop, api, hub, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Addr),
			zap.Duration("tickPeriod", cfg.TickPeriod()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		close(stop)
		<-loopDone
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	close(stop)
	<-loopDone
	return nil
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	return zapCfg.Build()
}
