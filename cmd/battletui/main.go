// Package main provides a local terminal client that plays battles against
// the shipped content without a server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/config"
	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/frontend/tui"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/observability"
	"github.com/cory-johannsen/limitbreak/internal/scripting"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses built-in defaults")
	logFile := flag.String("log", "battletui.log", "log file; the terminal belongs to the UI")
	seed := flag.Uint64("seed", 0, "dice seed; 0 uses crypto randomness")
	flag.Parse()

	var cfg config.Config
	var err error
	if *configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = *logFile
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	bundle, err := content.Load(cfg.Content.Dir)
	if err != nil {
		log.Fatalf("loading content: %v", err)
	}

	src := dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	var narrator battle.Narrator
	if cfg.Scripting.Enabled() {
		scripts := scripting.NewManager(roller, logger)
		defer scripts.Close()
		if _, err := scripts.LoadTree(cfg.Scripting.Root, cfg.Scripting.InstructionLimit); err != nil {
			log.Fatalf("loading scripts: %v", err)
		}
		narrator = scripting.NewNarrator(scripts)
	}

	model, err := tui.New(tui.Options{
		Bundle:       bundle,
		Roller:       roller,
		Narrator:     narrator,
		Battle:       cfg.Battle.Machine(),
		TickInterval: cfg.Battle.TickInterval,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("building player: %v", err)
	}

	logger.Info("starting battle tui", zap.String("content", cfg.Content.Dir))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		fmt.Fprintf(os.Stderr, "battle error: %v\n", m.Err())
		os.Exit(1)
	}
}
