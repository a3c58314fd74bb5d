package tui

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

const barWidth = 20

// bar renders a plain-text gauge of barWidth cells.
func bar(cur, total int) string {
	filled := min(max(stats.Percent(cur, total), 0), 100) * barWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Quitting {
		if m.err != nil {
			return fmt.Sprintf("Battle error: %v\n", m.err)
		}
		return "Goodbye\n"
	}

	var b strings.Builder
	b.WriteString("-- Limit Break --\n\n")

	p := m.machine.Player()
	fmt.Fprintf(&b, "You        Lv %d\n", p.Stats.Level)
	fmt.Fprintf(&b, "  HP    %s %d/%d\n", bar(p.Stats.HP, p.Stats.HPMax), p.Stats.HP, p.Stats.HPMax)
	fmt.Fprintf(&b, "  MP    %s %d/%d\n", bar(p.Stats.MP, p.Stats.MPMax), p.Stats.MP, p.Stats.MPMax)
	fmt.Fprintf(&b, "  Limit %s %d%%\n", bar(p.Limit, player.MaxLimit), p.Limit)

	if e := m.machine.Enemy(); e != nil {
		fmt.Fprintf(&b, "\n%s  Lv %d  [%s]\n", e.Name, e.Stats.Level, e.Element)
		fmt.Fprintf(&b, "  HP    %s %d/%d\n", bar(e.Stats.HP, e.Stats.HPMax), e.Stats.HP, e.Stats.HPMax)
	}

	b.WriteString("\n")
	for _, line := range m.feed.lines {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	switch m.screen {
	case screenCamp:
		b.WriteString("You rest at camp. Press [f] to seek a battle.\n")
	case screenWait:
		fmt.Fprintf(&b, "%s\n", m.spinner.View())
	case screenMenu:
		b.WriteString(m.mainMenu())
	case screenMagic, screenItems:
		entries := m.submenu()
		if len(entries) == 0 {
			b.WriteString("  (nothing here)\n")
		}
		for i, e := range entries {
			mark := ""
			if !e.Enabled {
				mark = " (unavailable)"
			}
			fmt.Fprintf(&b, "  [%d] %-16s %s%s\n", i+1, e.Label, e.Detail, mark)
		}
	}

	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", m.status)
	}
	b.WriteString("\n" + m.help.View(m.keys.forScreen(m.screen)))
	return b.String()
}

// mainMenu lists the four top-level actions. The first is named after the
// menu's attack entry so a full limit meter shows the limit break.
func (m Model) mainMenu() string {
	attack := "Attack"
	if entries := m.machine.Menu(); len(entries) > 0 && entries[0].Intent.Kind == battle.IntentAttack {
		attack = entries[0].Label
	}
	return fmt.Sprintf("  [1] %s  [2] Magic  [3] Block  [4] Item\n", attack)
}
