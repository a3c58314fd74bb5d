package handlers

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/frontend/telnet"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/command"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
	"github.com/cory-johannsen/limitbreak/internal/observability"
)

// sessionHandlerFunc handles one parsed command. quit ends the session
// cleanly; a non-nil error ends it with that error.
type sessionHandlerFunc func(s *session, parsed command.ParseResult) (quit bool, err error)

// SessionHandlers returns the map from Handler constant to session function.
// Exported so TestAllCommandHandlersAreWired can verify completeness.
func SessionHandlers() map[string]sessionHandlerFunc {
	return sessionHandlerMap
}

// sessionHandlerMap is the single source of truth for Telnet command dispatch.
// To add a new command: add a Handler constant to commands.go AND add an entry here.
var sessionHandlerMap = map[string]sessionHandlerFunc{
	command.HandlerFight:     handleFight,
	command.HandlerEnemies:   handleEnemies,
	command.HandlerAttack:    handleAttack,
	command.HandlerMagic:     handleMagic,
	command.HandlerBlock:     handleBlock,
	command.HandlerItem:      handleItem,
	command.HandlerStatus:    handleStatus,
	command.HandlerInventory: handleInventory,
	command.HandlerAttacks:   handleAttacks,
	command.HandlerEquip:     handleEquip,
	command.HandlerUnequip:   handleUnequip,
	command.HandlerEquipment: handleEquipment,
	command.HandlerQuit:      handleQuit,
	command.HandlerHelp:      handleHelp,
}

func handleFight(s *session, parsed command.ParseResult) (bool, error) {
	if s.inBattle() {
		s.reply(telnet.Colorize(telnet.Red, "You are already in a battle."))
		return false, nil
	}
	id := ""
	if len(parsed.Args) > 0 {
		id = parsed.Args[0]
	} else {
		all := s.h.bundle.Enemies.All()
		if len(all) == 0 {
			s.reply(telnet.Colorize(telnet.Dim, "There is nothing to fight."))
			return false, nil
		}
		id = all[s.h.roller.Roll("encounter", len(all)).Value].ID
	}
	e, err := s.h.bundle.NewEnemy(id)
	if err != nil {
		s.reply(telnet.Colorf(telnet.Red, "No enemy called '%s'. Type 'enemies' to list them.", id))
		return false, nil
	}
	if err := s.machine.Start(e); err != nil {
		return false, err
	}
	s.lastPhase = s.machine.Phase()
	observability.ForBattle(s.h.logger, s.conn.ID, s.machine.BattleID()).Info("battle requested",
		zap.String("enemy", e.TemplateID),
		zap.Int("player_level", s.player.Stats.Level),
	)
	return false, nil
}

func handleEnemies(s *session, _ command.ParseResult) (bool, error) {
	s.reply(RenderEnemies(s.h.bundle.Enemies.All()))
	return false, nil
}

func handleAttack(s *session, _ command.ParseResult) (bool, error) {
	return choose(s, battle.Attack())
}

func handleMagic(s *session, parsed command.ParseResult) (bool, error) {
	if len(parsed.Args) != 1 {
		s.reply(telnet.Colorize(telnet.Red, "Usage: magic <slot 1-4>"))
		return false, nil
	}
	slot, err := command.ParseSlot(parsed.Args[0], player.MagicSlots)
	if err != nil {
		s.reply(telnet.Colorize(telnet.Red, err.Error()))
		return false, nil
	}
	return choose(s, battle.Magic(slot))
}

func handleBlock(s *session, _ command.ParseResult) (bool, error) {
	return choose(s, battle.Block())
}

func handleItem(s *session, parsed command.ParseResult) (bool, error) {
	if len(parsed.Args) != 1 {
		s.reply(telnet.Colorize(telnet.Red, "Usage: item <item-id>"))
		return false, nil
	}
	return choose(s, battle.UseItem(parsed.Args[0]))
}

// choose submits in to the machine. Rejected intents are reported to the
// player; any other error is fatal for the session.
func choose(s *session, in battle.Intent) (bool, error) {
	if s.machine.Phase() != battle.PhaseIdle {
		_ = s.conn.WriteLine(telnet.Colorize(telnet.Dim, "Wait for your turn."))
		return false, nil
	}
	err := s.machine.Choose(in)
	switch {
	case err == nil:
		s.lastPhase = s.machine.Phase()
		return false, nil
	case errors.Is(err, battle.ErrInvalidIntent), errors.Is(err, battle.ErrNotIdle):
		s.reply(telnet.Colorf(telnet.Red, "You can't do that: %v", err))
		return false, nil
	default:
		return false, fmt.Errorf("choosing %s: %w", in, err)
	}
}

func handleStatus(s *session, _ command.ParseResult) (bool, error) {
	s.reply(RenderStatus(s.player, s.machine.Enemy()))
	return false, nil
}

func handleInventory(s *session, _ command.ParseResult) (bool, error) {
	s.reply(RenderInventory(s.player, s.h.bundle.Items))
	return false, nil
}

func handleAttacks(s *session, _ command.ParseResult) (bool, error) {
	s.reply(RenderAttacks(s.player))
	return false, nil
}

func handleEquip(s *session, parsed command.ParseResult) (bool, error) {
	if s.inBattle() {
		s.reply(telnet.Colorize(telnet.Red, "Finish the battle first."))
		return false, nil
	}
	s.reply(command.HandleEquip(s.player, s.h.bundle.Items, parsed.Args))
	return false, nil
}

func handleUnequip(s *session, parsed command.ParseResult) (bool, error) {
	if s.inBattle() {
		s.reply(telnet.Colorize(telnet.Red, "Finish the battle first."))
		return false, nil
	}
	s.reply(command.HandleUnequip(s.player, parsed.Args))
	return false, nil
}

func handleEquipment(s *session, _ command.ParseResult) (bool, error) {
	s.reply(command.HandleEquipment(s.player))
	return false, nil
}

func handleQuit(s *session, _ command.ParseResult) (bool, error) {
	_ = s.conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
	return true, nil
}

func handleHelp(s *session, _ command.ParseResult) (bool, error) {
	s.reply(RenderHelp(s.h.registry))
	return false, nil
}
