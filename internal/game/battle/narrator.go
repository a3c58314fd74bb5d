package battle

// Snapshot is the read-only view of a battle handed to a Narrator.
type Snapshot struct {
	BattleID     string
	Phase        Phase
	Turn         int
	TemplateID   string
	EnemyName    string
	EnemyHP      int
	EnemyHPMax   int
	PlayerHP     int
	PlayerHPMax  int
	PlayerLimit  int
	PlayerLevel  int
	LastIntent   string
	PlayerBlocks bool
}

// Narrator supplies optional flavour lines on phase entry. An empty line
// means nothing is added.
type Narrator interface {
	Narrate(s Snapshot) (string, error)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(s Snapshot) (string, error)

// Narrate calls f(s).
func (f NarratorFunc) Narrate(s Snapshot) (string, error) { return f(s) }
