// Package main provides the game server binary: it loads the savefile,
// builds the engine, and serves the JSON API until terminated.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelgames/summoner/internal/config"
	"github.com/kestrelgames/summoner/internal/game/engine"
	"github.com/kestrelgames/summoner/internal/game/gacha"
	"github.com/kestrelgames/summoner/internal/game/monster"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rng"
	"github.com/kestrelgames/summoner/internal/observability"
	"github.com/kestrelgames/summoner/internal/server"
	"github.com/kestrelgames/summoner/internal/storage/savefile"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	store := savefile.NewStore(cfg.Save.Path)
	state, err := store.Load()
	if err != nil {
		logger.Fatal("loading savefile", zap.Error(err))
	}
	logger.Info("savefile loaded",
		zap.String("path", store.Path()),
		zap.String("player", state.Name),
		zap.Int("chapter", state.Chapter),
	)

	opts := engine.Options{
		Logger: logger,
		OnChange: func(next *player.Player) {
			if err := store.Save(next); err != nil {
				logger.Error("saving game state", zap.Error(err))
			}
		},
	}
	if cfg.Game.Seed != 0 {
		opts.Source = rng.NewSeeded(cfg.Game.Seed)
		logger.Warn("using seeded rng", zap.Uint64("seed", cfg.Game.Seed))
	}
	if cfg.Data.Pools != "" {
		pools, err := gacha.LoadPools(cfg.Data.Pools)
		if err != nil {
			logger.Fatal("loading summon pools", zap.Error(err))
		}
		opts.Pools = &pools
		logger.Info("summon pools loaded", zap.String("path", cfg.Data.Pools))
	}
	if cfg.Data.MonsterNames != "" {
		names, err := monster.LoadNames(cfg.Data.MonsterNames)
		if err != nil {
			logger.Fatal("loading monster names", zap.Error(err))
		}
		opts.MonsterNames = names
		logger.Info("monster names loaded",
			zap.String("path", cfg.Data.MonsterNames),
			zap.Int("count", len(names)),
		)
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.Progression.LevelCap = cfg.Game.LevelCap

	eng := engine.New(state, engineCfg, opts)

	lc := server.NewLifecycle(logger)
	lc.Add("api", server.NewHTTPServer(eng, logger, cfg.HTTP))

	tickCtx, stopTicker := context.WithCancel(context.Background())
	lc.Add("ticker", &server.FuncService{
		StartFn: func() error {
			engine.NewTicker(eng, cfg.Game.TickInterval).Start(tickCtx)
			<-tickCtx.Done()
			return nil
		},
		StopFn: stopTicker,
	})

	logger.Info("server ready",
		zap.String("addr", cfg.HTTP.Addr()),
		zap.Duration("startup", time.Since(start)),
	)
	runErr := lc.Run(context.Background())

	if err := store.Save(eng.Snapshot()); err != nil {
		logger.Error("final save", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("server exited", zap.Error(runErr))
	}
}
