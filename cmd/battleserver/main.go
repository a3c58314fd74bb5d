// Package main provides the battle server binary: players connect over
// Telnet and fight random encounters, one battle machine per session.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/config"
	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/frontend/handlers"
	"github.com/cory-johannsen/limitbreak/internal/frontend/telnet"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/observability"
	"github.com/cory-johannsen/limitbreak/internal/scripting"
	"github.com/cory-johannsen/limitbreak/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/battle.yaml", "path to configuration file")
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

	logger.Info("starting battle server", zap.String("telnet_addr", cfg.Telnet.Addr()))

	contentStart := time.Now()
	bundle, err := content.Load(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("enemies", len(bundle.Enemies.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Sessions share the roller, so the source must be safe for concurrent use.
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	var narrator battle.Narrator
	var scripts *scripting.Manager
	if cfg.Scripting.Enabled() {
		scripts = scripting.NewManager(roller, logger)
		scoped, err := scripts.LoadTree(cfg.Scripting.Root, cfg.Scripting.InstructionLimit)
		if err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		logger.Info("scripts loaded",
			zap.String("root", cfg.Scripting.Root),
			zap.Strings("templates", scoped),
		)
		narrator = scripting.NewNarrator(scripts)
	}

	handler := handlers.NewBattleHandler(bundle, roller, narrator, cfg.Battle, cfg.Telnet, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	lifecycle := server.NewLifecycle(logger)
	if scripts != nil {
		// Added first so it stops last, once no session can call a hook.
		lifecycle.Add("scripting", &server.FuncService{
			StartFn: func() error { return nil },
			StopFn:  scripts.Close,
		})
	}
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn: func() {
			logger.Info("closing telnet sessions", zap.Int64("active", acceptor.Active()))
			acceptor.Stop()
		},
	})

	logger.Info("battle server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Duration("action_delay", cfg.Battle.ActionDelay),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
