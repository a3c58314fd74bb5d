// Package stats provides the mutable numeric profile shared by the player and
// enemies, with clamping mutators that keep HP and MP inside their bounds.
package stats

// Stats is the numeric profile of a combatant.
//
// Invariant: 0 <= HP <= HPMax and 0 <= MP <= MPMax after every mutator call.
type Stats struct {
	HP         int    `yaml:"hp"`
	HPMax      int    `yaml:"hp_max"`
	MP         int    `yaml:"mp"`
	MPMax      int    `yaml:"mp_max"`
	Strength   int    `yaml:"strength"`
	Wisdom     int    `yaml:"wisdom"`
	Defense    int    `yaml:"defense"`
	Level      int    `yaml:"level"`
	Experience int    `yaml:"experience"`
	Gold       int    `yaml:"gold"`
	Sprite     string `yaml:"sprite"`
}

// Deltas is a signed adjustment applied to a Stats profile, used by
// equipment and consumables.
type Deltas struct {
	HP       int `yaml:"hp"`
	MP       int `yaml:"mp"`
	HPMax    int `yaml:"hp_max"`
	MPMax    int `yaml:"mp_max"`
	Strength int `yaml:"strength"`
	Wisdom   int `yaml:"wisdom"`
	Defense  int `yaml:"defense"`
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp forces HP and MP back into [0, max]. Negative maxima are treated as 0.
//
// Postcondition: 0 <= HP <= max(HPMax, 0) and 0 <= MP <= max(MPMax, 0).
func (s *Stats) Clamp() {
	if s.HPMax < 0 {
		s.HPMax = 0
	}
	if s.MPMax < 0 {
		s.MPMax = 0
	}
	s.HP = clamp(s.HP, 0, s.HPMax)
	s.MP = clamp(s.MP, 0, s.MPMax)
}

// ApplyDamage subtracts amount from HP. A negative amount heals.
//
// Postcondition: 0 <= HP <= HPMax.
func (s *Stats) ApplyDamage(amount int) {
	s.HP -= amount
	s.Clamp()
}

// RestoreHP adds amount to HP.
//
// Postcondition: 0 <= HP <= HPMax.
func (s *Stats) RestoreHP(amount int) {
	s.HP += amount
	s.Clamp()
}

// RestoreMP adds amount to MP.
//
// Postcondition: 0 <= MP <= MPMax.
func (s *Stats) RestoreMP(amount int) {
	s.MP += amount
	s.Clamp()
}

// SpendMP subtracts amount from MP.
//
// Postcondition: 0 <= MP <= MPMax.
func (s *Stats) SpendMP(amount int) {
	s.MP -= amount
	s.Clamp()
}

// FullRestore sets HP and MP to their maxima.
func (s *Stats) FullRestore() {
	s.HP = s.HPMax
	s.MP = s.MPMax
	s.Clamp()
}

// Add applies d to the profile. Max values move first so that HP and MP are
// clamped against the new bounds.
//
// Postcondition: invariants hold.
func (s *Stats) Add(d Deltas) {
	s.HPMax += d.HPMax
	s.MPMax += d.MPMax
	s.Strength += d.Strength
	s.Wisdom += d.Wisdom
	s.Defense += d.Defense
	s.HP += d.HP
	s.MP += d.MP
	s.Clamp()
}

// Subtract reverses a previous Add of d.
//
// Postcondition: invariants hold.
func (s *Stats) Subtract(d Deltas) {
	s.Add(Deltas{
		HP:       -d.HP,
		MP:       -d.MP,
		HPMax:    -d.HPMax,
		MPMax:    -d.MPMax,
		Strength: -d.Strength,
		Wisdom:   -d.Wisdom,
		Defense:  -d.Defense,
	})
}

// Alive reports whether HP is above zero.
func (s *Stats) Alive() bool { return s.HP > 0 }

// Percent returns cur as a whole-number percentage of total, or 0 when total <= 0.
func Percent(cur, total int) int {
	if total <= 0 {
		return 0
	}
	return cur * 100 / total
}
