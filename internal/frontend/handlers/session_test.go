package handlers_test

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/limitbreak/internal/config"
	"github.com/cory-johannsen/limitbreak/internal/content"
	"github.com/cory-johannsen/limitbreak/internal/frontend/handlers"
	"github.com/cory-johannsen/limitbreak/internal/frontend/telnet"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/dice"
)

const shippedContent = "../../../content"

// client is the far end of a piped session. It drains everything the
// session writes so writes never block.
type client struct {
	t    *testing.T
	conn net.Conn
	mu   sync.Mutex
	out  bytes.Buffer
}

func (c *client) drain() {
	buf := make([]byte, 1024)
	for {
		n, err := c.conn.Read(buf)
		c.mu.Lock()
		c.out.Write(buf[:n])
		c.mu.Unlock()
		if err != nil {
			return
		}
	}
}

func (c *client) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

func (c *client) text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return telnet.StripANSI(c.out.String())
}

// waitFor blocks until the session output contains want.
func (c *client) waitFor(want string) {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(c.text(), want) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	c.t.Fatalf("timed out waiting for %q; output so far:\n%s", want, c.text())
}

type harness struct {
	client *client
	cancel context.CancelFunc
	done   chan error
}

func startSession(t *testing.T, telnetCfg config.TelnetConfig) *harness {
	t.Helper()
	bundle, err := content.Load(shippedContent)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	h := handlers.NewBattleHandler(
		bundle,
		dice.NewLoggedRoller(dice.NewSequenceSource(20), logger),
		nil,
		config.BattleConfig{ActionDelay: 4 * time.Millisecond, TickInterval: time.Millisecond, MaxEnemyRerolls: 8},
		telnetCfg,
		logger,
	)

	clientSide, serverSide := net.Pipe()
	conn := telnet.NewConn(serverSide, 0, time.Second)
	conn.ID = "test-session"
	c := &client{t: t, conn: clientSide}
	go c.drain()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.HandleSession(ctx, conn)
		_ = conn.Close()
	}()
	t.Cleanup(func() {
		cancel()
		_ = clientSide.Close()
	})
	return &harness{client: c, cancel: cancel, done: done}
}

func (h *harness) result(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end")
		return nil
	}
}

func TestSession_HelpUnknownAndQuit(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	c := h.client
	c.waitFor("L I M I T   B R E A K")
	c.waitFor("[Lv 1 camp]> ")

	c.send("help")
	c.waitFor("Available commands:")
	c.waitFor("Battle:")
	c.waitFor("fight")

	c.send("dance")
	c.waitFor("Unknown command: dance")

	c.send("quit")
	c.waitFor("Goodbye!")
	assert.NoError(t, h.result(t))
}

func TestSession_CampCommands(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	c := h.client

	c.send("enemies")
	c.waitFor("=== Bestiary ===")
	c.waitFor("emperor_penguin")

	c.send("attack")
	c.waitFor("You are not in a battle.")
	c.send("m 1")
	c.waitFor("You are not in a battle.")

	c.send("equip magic 1 holy_light")
	c.waitFor("Holy Light equipped in magic slot 1.")

	c.send("gear")
	c.waitFor("1. Holy Light")

	c.send("inventory")
	c.waitFor("Red Potion I (x5)")

	c.send("skills")
	c.waitFor("=== Attacks ===")
	c.waitFor("(limit)")

	c.send("status")
	c.waitFor("Limit")

	c.send("fight tyrannosaurus")
	c.waitFor("No enemy called 'tyrannosaurus'")

	c.send("q")
	assert.NoError(t, h.result(t))
}

func TestSession_BattleRoundTrip(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	c := h.client

	c.send("fight slime")
	c.waitFor("A wild Slime appears!")
	c.waitFor("Your turn:")
	c.waitFor("magic 1")

	c.send("equip limit sonic_spike")
	c.waitFor("Finish the battle first.")

	c.send("fight")
	c.waitFor("You are already in a battle.")

	c.send("magic 9")
	c.waitFor("slot must be a number from 1 to 4")

	c.send("item excalibur")
	c.waitFor("You can't do that")

	c.send("a")
	c.waitFor("You used Tackle")
	c.waitFor("Slime used Bounce")

	c.send("status")
	c.waitFor("Slime  Lv 1")

	c.send("quit")
	assert.NoError(t, h.result(t))
}

func TestSession_FightsUntilOutcome(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	c := h.client

	c.send("fight slime")
	for i := 0; i < 10 && !strings.Contains(c.text(), "*** VICTORY ***"); i++ {
		c.waitFor("Your turn:")
		before := strings.Count(c.text(), "Your turn:")
		c.send("attack")
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			txt := c.text()
			if strings.Count(txt, "Your turn:") > before || strings.Contains(txt, "*** VICTORY ***") {
				break
			}
			time.Sleep(2 * time.Millisecond)
		}
	}
	c.waitFor("You defeated Slime!")
	c.waitFor("*** VICTORY ***")
	c.waitFor("camp]> ")

	c.send("quit")
	assert.NoError(t, h.result(t))
}

func TestSession_IdleDisconnect(t *testing.T) {
	h := startSession(t, config.TelnetConfig{IdleTimeout: 40 * time.Millisecond, IdleGracePeriod: 40 * time.Millisecond})
	h.client.waitFor("You have been idle")
	assert.ErrorIs(t, h.result(t), handlers.ErrIdleDisconnect)
	assert.Contains(t, h.client.text(), "Disconnected for inactivity.")
}

func TestSession_ShutdownCancelsSession(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	h.client.waitFor("camp]> ")
	h.cancel()
	assert.ErrorIs(t, h.result(t), context.Canceled)
	h.client.waitFor("Server shutting down")
}

func TestSession_ClientHangupEndsSession(t *testing.T) {
	h := startSession(t, config.TelnetConfig{})
	h.client.waitFor("camp]> ")
	require.NoError(t, h.client.conn.Close())
	assert.Error(t, h.result(t))
}

func TestRenderOutcome_Banners(t *testing.T) {
	assert.Contains(t, telnet.StripANSI(handlers.RenderOutcome(battle.OutcomeVictory)), "VICTORY")
	assert.Contains(t, telnet.StripANSI(handlers.RenderOutcome(battle.OutcomeDefeat)), "GAME OVER")
	assert.Empty(t, handlers.RenderOutcome(battle.OutcomeNone))
}
