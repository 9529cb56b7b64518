package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Press  key.Binding
	Step   key.Binding
	Back   key.Binding
	Reset  key.Binding
	Play   key.Binding
	Theme  key.Binding
	Save   key.Binding
	Export key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab", "next control")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab", "prev control")),
		Inc:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "increase")),
		Dec:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "decrease")),
		Press:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "press button")),
		Step:   key.NewBinding(key.WithKeys("n", " "), key.WithHelp("n/space", "step")),
		Back:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "step back")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Play:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoplay")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save run")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export png")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Back, k.Reset, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Inc, k.Dec, k.Press},
		{k.Step, k.Back, k.Reset, k.Play},
		{k.Theme, k.Save, k.Export},
		{k.Help, k.Quit},
	}
}
