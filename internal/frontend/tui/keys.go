package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the TUI's key bindings. Which ones are enabled depends on the
// screen; help only lists enabled bindings.
type keyMap struct {
	Attack key.Binding
	Magic  key.Binding
	Block  key.Binding
	Item   key.Binding
	Pick   key.Binding
	Back   key.Binding
	Fight  key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Attack: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "attack")),
		Magic:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "magic")),
		Block:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "block")),
		Item:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "item")),
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "choose"),
		),
		Back:  key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Fight: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fight")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Attack, k.Magic, k.Block, k.Item, k.Pick, k.Back, k.Fight, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// forScreen enables only the bindings that act on s.
func (k keyMap) forScreen(s screen) keyMap {
	main := s == screenMenu
	sub := s == screenMagic || s == screenItems
	k.Attack.SetEnabled(main)
	k.Magic.SetEnabled(main)
	k.Block.SetEnabled(main)
	k.Item.SetEnabled(main)
	k.Pick.SetEnabled(sub)
	k.Back.SetEnabled(sub)
	k.Fight.SetEnabled(s == screenCamp)
	return k
}
