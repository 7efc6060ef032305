package tui

import "github.com/charmbracelet/bubbles/key"

const (
	heroTagline = "Attach files, captures and contacts without leaving the conversation."

	// flickDistance is the vertical travel reported for a keyboard flick.
	flickDistance = 12
)

type keyMap struct {
	Quit      key.Binding
	Toggle    key.Binding
	Back      key.Binding
	FlickUp   key.Binding
	FlickDown key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	GridUp    key.Binding
	GridDown  key.Binding
	Launch    key.Binding
	Rotate    key.Binding
	Keypad    key.Binding
	Iconify   key.Binding
	Language  key.Binding
	Prompt    key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "attach"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	FlickUp: key.NewBinding(
		key.WithKeys("shift+up", "pgup"),
		key.WithHelp("pgup", "flick up"),
	),
	FlickDown: key.NewBinding(
		key.WithKeys("shift+down", "pgdown"),
		key.WithHelp("pgdn", "flick down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev page"),
	),
	GridUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	GridDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Launch: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Rotate: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "rotate"),
	),
	Keypad: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "keypad"),
	),
	Iconify: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "background"),
	),
	Language: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "language"),
	),
	Prompt: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "command"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.FlickUp, k.FlickDown, k.NextPage, k.Prompt, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Back, k.FlickUp, k.FlickDown},
		{k.NextPage, k.PrevPage, k.GridUp, k.GridDown, k.Launch},
		{k.Rotate, k.Keypad, k.Iconify, k.Language},
		{k.Prompt, k.Help, k.Quit},
	}
}
