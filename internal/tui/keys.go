package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard bindings.
type KeyMap struct {
	Open    key.Binding
	Close   key.Binding
	Rain    key.Binding
	Smoke   key.Binding
	Demo    key.Binding
	Weather key.Binding
	Faster  key.Binding
	Slower  key.Binding
	SaveKey key.Binding
	Theme   key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var DefaultKeyMap = KeyMap{
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open vent")),
	Close:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close vent")),
	Rain:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle rain")),
	Smoke:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle smoke")),
	Demo:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "demo mode")),
	Weather: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weather mode")),
	Faster:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "tick faster")),
	Slower:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tick slower")),
	SaveKey: key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "remember key")),
	Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Refresh: key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "refresh")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Rain, k.Smoke, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.Rain, k.Smoke},
		{k.Demo, k.Weather, k.Faster, k.Slower},
		{k.SaveKey, k.Theme, k.Refresh, k.Logout, k.Quit},
	}
}
