package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/limitbreak/internal/frontend/telnet"
	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/battle"
	"github.com/cory-johannsen/limitbreak/internal/game/command"
	"github.com/cory-johannsen/limitbreak/internal/game/enemy"
	"github.com/cory-johannsen/limitbreak/internal/game/item"
	"github.com/cory-johannsen/limitbreak/internal/game/player"
	"github.com/cory-johannsen/limitbreak/internal/game/progression"
	"github.com/cory-johannsen/limitbreak/internal/game/stats"
)

const gaugeWidth = 20

// ItemLookup resolves item ids for rendering.
type ItemLookup interface {
	Get(id string) (*item.Item, error)
}

// RenderStatus formats the player's stats and limit meter, followed by the
// enemy's HP and MP when e is non-nil.
//
// Precondition: p must be non-nil.
func RenderStatus(p *player.Player, e *enemy.Enemy) string {
	var b strings.Builder
	s := p.Stats
	b.WriteString(telnet.Colorf(telnet.BrightWhite, "You  Lv %d", s.Level))
	b.WriteString("\r\n")
	writeGauge(&b, "HP", s.HP, s.HPMax)
	writeGauge(&b, "MP", s.MP, s.MPMax)
	limitColor := telnet.Cyan
	if p.LimitReady() {
		limitColor = telnet.BrightMagenta
	}
	b.WriteString(fmt.Sprintf("  %-5s %s %d%%\r\n", "Limit", telnet.Bar(p.Limit, player.MaxLimit, gaugeWidth, limitColor), p.Limit))
	b.WriteString(fmt.Sprintf("  STR %d  WIS %d  DEF %d  Gold %d\r\n", s.Strength, s.Wisdom, s.Defense, s.Gold))
	if next := progression.Threshold(s.Level); next > 1 {
		b.WriteString(fmt.Sprintf("  EXP %d/%d\r\n", s.Experience, next))
	}
	if e != nil {
		b.WriteString(telnet.Colorf(telnet.BrightRed, "%s  Lv %d  [%s]", e.Name, e.Stats.Level, e.Element))
		b.WriteString("\r\n")
		writeGauge(&b, "HP", e.Stats.HP, e.Stats.HPMax)
		writeGauge(&b, "MP", e.Stats.MP, e.Stats.MPMax)
	}
	return strings.TrimRight(b.String(), "\r\n")
}

func writeGauge(b *strings.Builder, label string, cur, total int) {
	b.WriteString(fmt.Sprintf("  %-5s %s %d/%d\r\n", label,
		telnet.Bar(cur, total, gaugeWidth, telnet.GaugeColor(cur, total)), cur, total))
}

// RenderMenu formats the Idle actions with the command that selects each.
// Disabled entries are dimmed.
func RenderMenu(entries []battle.MenuEntry) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightYellow, "Your turn:"))
	for _, e := range entries {
		b.WriteString("\r\n")
		line := fmt.Sprintf("  %-16s %-20s %s", menuCommand(e.Intent), e.Label, e.Detail)
		if !e.Enabled {
			b.WriteString(telnet.Colorize(telnet.Dim, line))
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// menuCommand is the Telnet command that submits in.
func menuCommand(in battle.Intent) string {
	switch in.Kind {
	case battle.IntentMagic:
		return fmt.Sprintf("magic %d", in.Slot+1)
	case battle.IntentItem:
		return "item " + in.ItemID
	case battle.IntentBlock:
		return "block"
	default:
		return "attack"
	}
}

// RenderEnemies lists the enemy templates a player can fight.
func RenderEnemies(templates []*enemy.Template) string {
	if len(templates) == 0 {
		return telnet.Colorize(telnet.Dim, "There is nothing to fight.")
	}
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Bestiary ==="))
	for _, t := range templates {
		b.WriteString("\r\n")
		b.WriteString(fmt.Sprintf("  %s%-18s%s %-20s Lv %-3d %s",
			telnet.BrightCyan, t.ID, telnet.Reset, t.Name, t.Stats.Level, t.Element))
	}
	return b.String()
}

// RenderInventory lists held items with quantities and kinds, marking worn gear.
func RenderInventory(p *player.Player, items ItemLookup) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Inventory ==="))
	ids := p.Items()
	if len(ids) == 0 {
		b.WriteString("\r\n")
		b.WriteString(telnet.Colorize(telnet.Dim, "  Your bag is empty."))
	}
	for _, id := range ids {
		b.WriteString("\r\n")
		def, err := items.Get(id)
		if err != nil {
			b.WriteString(fmt.Sprintf("  %s (x%d)", id, p.Quantity(id)))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s%s%s (x%d) [%s] %s", telnet.BrightWhite, def.Name, telnet.Reset,
			p.Quantity(id), def.Kind, effectSummary(def.Effect)))
		if worn := p.Equipped(def.Kind); worn != nil && worn.ID == def.ID {
			b.WriteString(telnet.Colorize(telnet.Green, " (equipped)"))
		}
	}
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("  Gold: %d", p.Stats.Gold))
	return b.String()
}

// effectSummary lists the non-zero fields of d, e.g. "+20 HP +5 DEF".
func effectSummary(d stats.Deltas) string {
	var parts []string
	for _, f := range []struct {
		v     int
		label string
	}{
		{d.HP, "HP"}, {d.MP, "MP"}, {d.HPMax, "Max HP"}, {d.MPMax, "Max MP"},
		{d.Strength, "STR"}, {d.Wisdom, "WIS"}, {d.Defense, "DEF"},
	} {
		if f.v != 0 {
			parts = append(parts, fmt.Sprintf("%+d %s", f.v, f.label))
		}
	}
	return strings.Join(parts, " ")
}

// RenderAttacks lists the attacks the player knows, grouped by type, with
// the equipped ones marked.
func RenderAttacks(p *player.Player) string {
	equipped := make(map[string]string)
	for slot, a := range p.EquippedMagic() {
		if a != nil {
			equipped[a.ID] = fmt.Sprintf("slot %d", slot+1)
		}
	}
	if lb := p.LimitBreak(); lb != nil {
		equipped[lb.ID] = "limit"
	}

	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Attacks ==="))
	for _, typ := range []attack.Type{attack.Standard, attack.Magic, attack.Limit} {
		for _, a := range p.Attacks() {
			if a.Type != typ {
				continue
			}
			b.WriteString("\r\n")
			b.WriteString(fmt.Sprintf("  %s%-16s%s %-8s %s", telnet.BrightCyan, a.ID, telnet.Reset, typ, a.Describe()))
			if where, ok := equipped[a.ID]; ok {
				b.WriteString(telnet.Colorf(telnet.Green, " (%s)", where))
			}
		}
	}
	return b.String()
}

// RenderHelp lists the registry's commands by category.
func RenderHelp(registry *command.Registry) string {
	categories := []struct {
		name  string
		label string
	}{
		{command.CategoryBattle, "Battle"},
		{command.CategoryCamp, "Camp"},
		{command.CategorySystem, "System"},
	}

	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Available commands:"))
	byCategory := registry.CommandsByCategory()
	for _, cat := range categories {
		cmds := byCategory[cat.name]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString("\r\n")
		b.WriteString(telnet.Colorf(telnet.BrightYellow, "  %s:", cat.label))
		for _, cmd := range cmds {
			aliases := ""
			if len(cmd.Aliases) > 0 {
				aliases = " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			b.WriteString("\r\n")
			b.WriteString(telnet.Colorf(telnet.Green, "    %-12s", cmd.Name) + aliases + ": " + cmd.Help)
		}
	}
	return b.String()
}

// RenderOutcome is the banner shown once a battle reaches Deinitialize.
func RenderOutcome(o battle.Outcome) string {
	switch o {
	case battle.OutcomeVictory:
		return telnet.Colorize(telnet.BrightGreen, "*** VICTORY ***  Type 'fight' for another battle.")
	case battle.OutcomeDefeat:
		return telnet.Colorize(telnet.BrightRed, "*** GAME OVER ***  You wake at camp with your starting gear.")
	default:
		return ""
	}
}

// Prompt returns the input prompt for the current phase.
func Prompt(p *player.Player, phase battle.Phase) string {
	if phase == battle.PhaseIdle {
		return telnet.Colorf(telnet.BrightRed, "[HP %d/%d MP %d/%d LB %d%%]> ",
			p.Stats.HP, p.Stats.HPMax, p.Stats.MP, p.Stats.MPMax, p.Limit)
	}
	return telnet.Colorf(telnet.BrightCyan, "[Lv %d camp]> ", p.Stats.Level)
}
