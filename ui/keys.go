package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play        key.Binding
	Back        key.Binding
	Forward     key.Binding
	JumpBack    key.Binding
	JumpForward key.Binding
	Faster      key.Binding
	Slower      key.Binding
	Start       key.Binding
	End         key.Binding
	Percent     key.Binding
	SmartPauses key.Binding
	Copy        key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous word"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next word"),
		),
		JumpBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "jump back"),
		),
		JumpForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "jump ahead"),
		),
		Faster: key.NewBinding(
			key.WithKeys("up", "k", "+"),
			key.WithHelp("↑/k", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("down", "j", "-"),
			key.WithHelp("↓/j", "slower"),
		),
		Start: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "go to end"),
		),
		Percent: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "jump to 0-90%"),
		),
		SmartPauses: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "smart pauses"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy text"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Forward, k.Faster, k.Slower, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Forward, k.JumpBack, k.JumpForward},
		{k.Faster, k.Slower, k.SmartPauses, k.Percent},
		{k.Start, k.End, k.Copy, k.Reload},
		{k.Help, k.Quit},
	}
}
