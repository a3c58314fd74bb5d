// Package handlers runs the Telnet battle session: command dispatch, the
// tick-driven battle loop and text rendering.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/config"
	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/frontend/telnet"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/command"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
	"github.com/cory-johannsen/limitbreak/internal/observability"
)

// ErrIdleDisconnect ends a session that stayed idle through the grace period.
var ErrIdleDisconnect = errors.New("idle timeout")

const welcomeBanner = "\r\n" + telnet.Bold + telnet.BrightMagenta + "  L I M I T   B R E A K" + telnet.Reset + "\r\n\r\n" +
	"  Type " + telnet.Green + "fight" + telnet.Reset + " to battle a random enemy, " +
	telnet.Green + "enemies" + telnet.Reset + " to browse the bestiary, or " +
	telnet.Green + "help" + telnet.Reset + " for every command.\r\n"

// BattleHandler implements telnet.SessionHandler. Each session gets its own
// player built from the starting profile and its own battle.Machine.
type BattleHandler struct {
	bundle   *content.Bundle
	roller   *dice.Roller
	narrator battle.Narrator
	battle   config.BattleConfig
	telnet   config.TelnetConfig
	registry *command.Registry
	logger   *zap.Logger
}

// NewBattleHandler creates a BattleHandler.
//
// Precondition: bundle, roller and logger must be non-nil; roller's source
// must be safe for concurrent use since every session shares it. narrator
// may be nil.
// Postcondition: Returns a handler ready to serve sessions.
func NewBattleHandler(
	bundle *content.Bundle,
	roller *dice.Roller,
	narrator battle.Narrator,
	battleCfg config.BattleConfig,
	telnetCfg config.TelnetConfig,
	logger *zap.Logger,
) *BattleHandler {
	return &BattleHandler{
		bundle:   bundle,
		roller:   roller,
		narrator: narrator,
		battle:   battleCfg,
		telnet:   telnetCfg,
		registry: command.DefaultRegistry(),
		logger:   logger,
	}
}

// session is the per-connection state. It is owned by the HandleSession
// goroutine.
type session struct {
	h       *BattleHandler
	conn    *telnet.Conn
	logger  *zap.Logger
	player  *player.Player
	machine *battle.Machine

	lastPhase battle.Phase
	finished  battle.Outcome
}

// HandleSession implements telnet.SessionHandler. It drives the session's
// battle machine from a ticker and dispatches input lines as they arrive.
//
// Postcondition: Returns nil on quit, ctx.Err() on shutdown,
// ErrIdleDisconnect after an ignored idle warning, or the read or battle
// error that ended the session.
func (h *BattleHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	s := &session{
		h:      h,
		conn:   conn,
		logger: h.logger.With(zap.String("session", conn.ID)),
	}
	if err := s.newPlayer(); err != nil {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The battle server is misconfigured. Goodbye."))
		return err
	}
	s.logger.Info("session started")

	if err := conn.Write([]byte(welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}
	s.prompt()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := conn.Lines(sessionCtx)

	var lastInput atomic.Int64
	lastInput.Store(time.Now().UnixNano())
	idle := make(chan struct{})
	if h.telnet.IdleTimeout > 0 {
		stop := StartIdleMonitor(IdleMonitorConfig{
			LastInput:    &lastInput,
			IdleTimeout:  h.telnet.IdleTimeout,
			GracePeriod:  h.telnet.IdleGracePeriod,
			TickInterval: min(time.Second, h.telnet.IdleTimeout/4),
			OnWarning: func() {
				_ = conn.WriteLine("\r\n" + telnet.Colorf(telnet.Yellow,
					"You have been idle. You will be disconnected in %s.", h.telnet.IdleGracePeriod))
			},
			OnDisconnect: func() { close(idle) },
		})
		defer stop()
	}

	ticker := time.NewTicker(h.battle.TickInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine("\r\n" + telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()

		case <-idle:
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Disconnected for inactivity."))
			s.logger.Info("idle disconnect", zap.Duration("session_duration", time.Since(start)))
			return ErrIdleDisconnect

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := s.tick(dt); err != nil {
				s.logger.Error("battle failed", zap.String("battle_id", s.machine.BattleID()), zap.Error(err))
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The battle collapsed into chaos. Goodbye."))
				return err
			}

		case l, ok := <-lines:
			if !ok {
				return nil
			}
			if l.Err != nil {
				return fmt.Errorf("reading input: %w", l.Err)
			}
			lastInput.Store(time.Now().UnixNano())
			quit, err := s.handleLine(l.Text)
			if err != nil {
				s.logger.Error("command failed", zap.String("line", l.Text), zap.Error(err))
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The battle collapsed into chaos. Goodbye."))
				return err
			}
			if quit {
				s.logger.Info("client quit", zap.Duration("session_duration", time.Since(start)))
				return nil
			}
		}
	}
}

// newPlayer replaces the session's player and machine with fresh ones built
// from the starting profile.
func (s *session) newPlayer() error {
	p, err := s.h.bundle.NewPlayer()
	if err != nil {
		return fmt.Errorf("building player: %w", err)
	}
	m := battle.NewMachine(p, s.h.battle.Machine(), s.h.roller, s.h.bundle.Items,
		s.h.bundle.Attacks, s.h.narrator, s.logger)
	m.OnReveal = func(line string) {
		_ = s.conn.WriteLine(telnet.Colorize(telnet.White, line))
	}
	m.OnOutcome = func(o battle.Outcome) { s.finished = o }
	s.player = p
	s.machine = m
	s.lastPhase = m.Phase()
	return nil
}

// tick advances the battle and reacts to phase changes: the menu is shown on
// reaching Idle and the outcome banner on reaching Deinitialize.
func (s *session) tick(dt time.Duration) error {
	if err := s.machine.Tick(dt); err != nil {
		return err
	}
	phase := s.machine.Phase()
	if phase == s.lastPhase {
		return nil
	}
	s.lastPhase = phase

	switch phase {
	case battle.PhaseIdle:
		_ = s.conn.WriteLine(RenderMenu(s.machine.Menu()))
		s.prompt()
	case battle.PhaseDeinitialize:
		o := s.finished
		s.finished = battle.OutcomeNone
		observability.ForBattle(s.h.logger, s.conn.ID, s.machine.BattleID()).Info("battle finished",
			zap.Stringer("outcome", o),
			zap.Int("turns", s.machine.Turn()),
		)
		_ = s.conn.WriteLine(RenderOutcome(o))
		if o == battle.OutcomeDefeat {
			if err := s.newPlayer(); err != nil {
				return err
			}
		}
		s.prompt()
	}
	return nil
}

// handleLine dispatches one input line.
//
// Postcondition: quit is true when the session should end cleanly; a
// non-nil error is fatal for the session.
func (s *session) handleLine(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		s.prompt()
		return false, nil
	}
	parsed := command.Parse(line)
	cmd, ok := s.h.registry.Resolve(parsed.Command)
	if !ok {
		s.reply(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", parsed.Command))
		return false, nil
	}
	if command.IsBattleCommand(cmd.Name) && !s.inBattle() {
		s.reply(telnet.Colorize(telnet.Red, "You are not in a battle. Type 'fight' to start one."))
		return false, nil
	}
	fn, ok := sessionHandlerMap[cmd.Handler]
	if !ok {
		s.reply(telnet.Colorf(telnet.Dim, "You don't know how to '%s'.", parsed.Command))
		return false, nil
	}
	return fn(s, parsed)
}

func (s *session) inBattle() bool {
	return s.machine.Phase() != battle.PhaseDeinitialize
}

// reply writes text and re-issues the prompt when input is expected.
func (s *session) reply(text string) {
	_ = s.conn.WriteLine(text)
	s.prompt()
}

// prompt is only shown when the player can act: at camp or in Idle.
func (s *session) prompt() {
	phase := s.machine.Phase()
	if phase != battle.PhaseIdle && phase != battle.PhaseDeinitialize {
		return
	}
	_ = s.conn.WritePrompt(Prompt(s.player, phase))
}
