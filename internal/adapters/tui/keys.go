package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the full-screen timer.
type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Work      key.Binding
	Short     key.Binding
	Long      key.Binding
	NextMode  key.Binding
	Edit      key.Binding
	Help      key.Binding
	Quit      key.Binding
	Enable    key.Binding
	Later     key.Binding
	NeverAsk  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space/s", "start/pause")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Work:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus")),
		Short:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		Long:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		NextMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next mode")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "settings")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Enable:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "enable notifications")),
		Later:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "later")),
		NeverAsk: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "don't ask again")),
	}
}

// withPrompt enables or disables the notification prompt bindings.
func (k keyMap) withPrompt(visible bool) keyMap {
	k.Enable.SetEnabled(visible)
	k.Later.SetEnabled(visible)
	k.NeverAsk.SetEnabled(visible)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.NextMode, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Edit},
		{k.Work, k.Short, k.Long, k.NextMode},
		{k.Enable, k.Later, k.NeverAsk},
		{k.Help, k.Quit},
	}
}
