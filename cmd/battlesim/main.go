// Package main runs battles headlessly with a fixed strategy and prints a
// summary. It is used to balance content tables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/config"
	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/game/enemy"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
	"github.com/cory-johannsen/limitbreak/internal/observability"
)

// maxSteps bounds a single battle so a stalled machine cannot hang the run.
const maxSteps = 100000

// healBelow is the HP percentage under which the strategy drinks a potion.
const healBelow = 30

type summary struct {
	wins, losses int
	turns        int
	gold         int
}

func main() {
	contentDir := flag.String("content", "content", "path to the content directory")
	enemyID := flag.String("enemy", "", "enemy template id; empty picks one at random per battle")
	battles := flag.Int("battles", 100, "number of battles to run")
	seed := flag.Uint64("seed", 1, "dice seed")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *level, Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	bundle, err := content.Load(*contentDir)
	if err != nil {
		log.Fatalf("loading content: %v", err)
	}
	if *enemyID != "" {
		if _, err := bundle.Enemies.Get(*enemyID); err != nil {
			log.Fatalf("unknown enemy %q", *enemyID)
		}
	}

	roller := dice.NewLoggedRoller(dice.NewSeededSource(*seed), logger)
	cfg := battle.Config{ActionDelay: battle.DefaultActionDelay}

	var sum summary
	var p *player.Player
	for i := 0; i < *battles; i++ {
		if p == nil {
			if p, err = bundle.NewPlayer(); err != nil {
				log.Fatalf("building player: %v", err)
			}
		}
		id := *enemyID
		if id == "" {
			all := bundle.Enemies.All()
			id = all[roller.Roll("encounter", len(all)).Value].ID
		}
		e, err := bundle.NewEnemy(id)
		if err != nil {
			log.Fatalf("building enemy: %v", err)
		}

		m := battle.NewMachine(p, cfg, roller, bundle.Items, bundle.Attacks, nil, logger)
		if err := run(m, e, bundle.Items); err != nil {
			logger.Error("battle failed", zap.Int("battle", i), zap.String("enemy", id), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("battle finished",
			zap.Int("battle", i),
			zap.String("battle_id", m.BattleID()),
			zap.String("enemy", id),
			zap.Stringer("outcome", m.Outcome()),
			zap.Int("turns", m.Turn()),
			zap.Int("level", p.Stats.Level),
			zap.Int("hp", p.Stats.HP),
		)
		sum.turns += m.Turn()
		switch m.Outcome() {
		case battle.OutcomeVictory:
			sum.wins++
		case battle.OutcomeDefeat:
			sum.losses++
			sum.gold += p.Stats.Gold
			p = nil
		}
	}
	if p != nil {
		sum.gold += p.Stats.Gold
	}

	fmt.Printf("battles: %d  wins: %d  losses: %d\n", *battles, sum.wins, sum.losses)
	if *battles > 0 {
		fmt.Printf("win rate: %.1f%%  mean turns: %.1f\n",
			100*float64(sum.wins)/float64(*battles), float64(sum.turns)/float64(*battles))
	}
	if p != nil {
		fmt.Printf("survivor: Lv %d  EXP %d  HP %d/%d\n", p.Stats.Level, p.Stats.Experience, p.Stats.HP, p.Stats.HPMax)
	}
	fmt.Printf("gold earned: %d\n", sum.gold)
}

// run drives m through one battle against e.
func run(m *battle.Machine, e *enemy.Enemy, items *item.Registry) error {
	if err := m.Start(e); err != nil {
		return err
	}
	for step := 0; step < maxSteps; step++ {
		switch m.Phase() {
		case battle.PhaseDeinitialize:
			return nil
		case battle.PhaseIdle:
			if err := m.Choose(pick(m, items)); err != nil {
				return err
			}
		default:
			if err := m.Tick(m.Config().ActionDelay); err != nil {
				return err
			}
		}
	}
	return errors.New("battle did not finish")
}

// pick drinks the first healing item when HP is low, otherwise attacks.
func pick(m *battle.Machine, items *item.Registry) battle.Intent {
	p := m.Player()
	if p.Stats.HP*100 < p.Stats.HPMax*healBelow {
		for _, entry := range m.Menu() {
			if entry.Intent.Kind != battle.IntentItem || !entry.Enabled {
				continue
			}
			if def, err := items.Get(entry.Intent.ItemID); err == nil && def.Effect.HP > 0 {
				return entry.Intent
			}
		}
	}
	return battle.Attack()
}
