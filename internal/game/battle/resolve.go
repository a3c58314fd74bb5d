package battle

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/limitbreak/internal/game/attack"
	"github.com/cory-johannsen/limitbreak/internal/game/damage"
	"github.com/cory-johannsen/limitbreak/internal/game/loot"
	"github.com/cory-johannsen/limitbreak/internal/game/progression"
)

func (m *Machine) enterInitialization() {
	m.queue.Push(fmt.Sprintf("A wild %s appears!", m.enemy.Name))
}

func (m *Machine) enterIdle() {
	m.intent = Intent{}
	m.blocked = false
	m.turn++
}

// enterPlayerAction resolves exactly one of attack, block or item.
func (m *Machine) enterPlayerAction() {
	p, e := m.player, m.enemy
	switch m.intent.Kind {
	case IntentAttack:
		m.playerAttack(p.Standard())
	case IntentLimitBreak:
		m.playerAttack(p.LimitBreak())
	case IntentMagic:
		m.playerAttack(p.Magic(m.intent.Slot))
	case IntentBlock:
		m.blocked = true
		m.queue.Push("You brace yourself for the next attack!")
	case IntentItem:
		def, err := m.items.Get(m.intent.ItemID)
		if err != nil {
			m.fail(fmt.Errorf("resolving item: %w", err))
			return
		}
		if err := p.UseItem(def); err != nil {
			m.fail(fmt.Errorf("resolving item: %w", err))
			return
		}
		m.queue.Push(itemLine(def.Name, def.Effect.HP, def.Effect.MP))
	default:
		m.fail(fmt.Errorf("resolving intent %s in %s's turn: %w", m.intent.Kind, e.Name, ErrInvalidIntent))
	}
}

func (m *Machine) playerAttack(a *attack.PlayerAttack) {
	if a == nil {
		m.fail(fmt.Errorf("resolving %s: no attack equipped: %w", m.intent, ErrInvalidIntent))
		return
	}
	p, e := m.player, m.enemy
	dmg := damage.Player(a, p.Stats, e.Element, e.Stats)
	e.Stats.ApplyDamage(dmg)
	if a.Type == attack.Limit {
		p.ResetLimit()
	}
	p.Stats.SpendMP(a.MPUse)
	m.logger.Debug("player attack resolved",
		zap.String("battle_id", m.battleID),
		zap.String("attack", a.ID),
		zap.Int("damage", dmg),
		zap.Int("enemy_hp", e.Stats.HP),
	)
	if dmg < 0 {
		m.queue.Push(fmt.Sprintf("You used %s, healing %d to the enemy!", a.Name, -dmg))
		return
	}
	m.queue.Push(fmt.Sprintf("You used %s, dealing %d damage!", a.Name, dmg))
}

func (m *Machine) enterEnemyAction() {
	p, e := m.player, m.enemy
	idx := m.pickEnemyAttack()
	if idx < 0 {
		m.fail(fmt.Errorf("%s: %w", e.Name, ErrNoEnemyAttacks))
		return
	}
	atk := e.Attacks[idx]
	dmg := damage.Enemy(atk, e.Stats, p.Stats, m.blocked)
	p.Stats.ApplyDamage(dmg)
	e.Stats.SpendMP(atk.MPUse)
	p.AddLimit(damage.LimitGain(dmg, p.Stats.HPMax))
	m.logger.Debug("enemy attack resolved",
		zap.String("battle_id", m.battleID),
		zap.String("attack", atk.Name),
		zap.Bool("blocked", m.blocked),
		zap.Int("damage", dmg),
		zap.Int("player_hp", p.Stats.HP),
		zap.Int("limit", p.Limit),
	)
	m.queue.Push(fmt.Sprintf("%s used %s, dealing %d damage!", e.Name, atk.Name, dmg))
}

// pickEnemyAttack draws uniformly among all attacks, re-rolling any the
// enemy cannot afford. After MaxEnemyRerolls misses it draws among the
// affordable attacks, or takes the cheapest when none is affordable.
//
// Postcondition: returns -1 only when the enemy has no attacks.
func (m *Machine) pickEnemyAttack() int {
	e := m.enemy
	n := len(e.Attacks)
	if n == 0 {
		return -1
	}
	for i := 0; i < m.cfg.MaxEnemyRerolls; i++ {
		idx := m.roller.Roll("enemy_attack", n).Value
		if e.Attacks[idx].MPUse <= e.Stats.MP {
			return idx
		}
	}
	if affordable := e.Affordable(); len(affordable) > 0 {
		return affordable[m.roller.Roll("enemy_attack_fallback", len(affordable)).Value]
	}
	return e.Cheapest()
}

func (m *Machine) enterWin() {
	p, e := m.player, m.enemy
	m.outcome = OutcomeVictory
	m.queue.Push(fmt.Sprintf("You defeated %s!", e.Name))

	p.Stats.Gold += e.Stats.Gold
	m.queue.Push(fmt.Sprintf("You gained %d experience and %d gold!", e.Stats.Experience, e.Stats.Gold))
	res := progression.Apply(&p.Stats, e.Stats.Experience)
	if res.LeveledUp {
		m.queue.Push(fmt.Sprintf("You reached level %d!", res.Level))
		m.grantUnlocks(res.Level)
	}

	for _, id := range loot.RollAll(e.Loot, m.roller) {
		def, err := m.items.Get(id)
		if err != nil {
			m.fail(fmt.Errorf("%s loot: %w", e.TemplateID, err))
			return
		}
		p.AddItem(def.ID, 1)
		m.queue.Push(fmt.Sprintf("You obtained %s!", def.Name))
	}
	m.logger.Info("battle won",
		zap.String("battle_id", m.battleID),
		zap.String("enemy", e.TemplateID),
		zap.Int("turns", m.turn),
		zap.Int("level", p.Stats.Level),
	)
}

func (m *Machine) grantUnlocks(level int) {
	if m.unlocks == nil {
		return
	}
	var names []string
	for _, a := range m.unlocks.UnlockedAt(level) {
		if m.player.Learn(a) {
			names = append(names, a.Name)
		}
	}
	if len(names) > 0 {
		m.queue.Push(fmt.Sprintf("You learned %s!", joinNames(names)))
	}
}

func (m *Machine) enterLose() {
	m.outcome = OutcomeDefeat
	m.queue.Push(fmt.Sprintf("%s has defeated you...", m.enemy.Name))
	m.logger.Info("battle lost",
		zap.String("battle_id", m.battleID),
		zap.String("enemy", m.enemy.TemplateID),
		zap.Int("turns", m.turn),
	)
}

func (m *Machine) enterDeinitialize() {
	m.enemy = nil
	m.intent = Intent{}
	m.blocked = false
	if m.OnOutcome != nil {
		m.OnOutcome(m.outcome)
	}
}

func itemLine(name string, hp, mp int) string {
	switch {
	case hp > 0 && mp > 0:
		return fmt.Sprintf("You used %s and recovered %d HP and %d MP!", name, hp, mp)
	case mp > 0:
		return fmt.Sprintf("You used %s and recovered %d MP!", name, mp)
	default:
		return fmt.Sprintf("You used %s and recovered %d HP!", name, hp)
	}
}

// joinNames renders "a", "a and b" or "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
