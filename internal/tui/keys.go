package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevYear key.Binding
	NextYear key.Binding
	PrevPI   key.Binding
	NextPI   key.Binding
	Sort     key.Binding
	Paste    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevYear: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev year")),
		NextYear: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next year")),
		PrevPI:   key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "prev PI")),
		NextPI:   key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next PI")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sort")),
		Paste:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste rows")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevYear, k.NextYear, k.PrevPI, k.NextPI, k.Sort, k.Paste, k.Quit}
}

// FullHelp returns the bindings grouped by column for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.PrevYear, k.NextYear}, {k.PrevPI, k.NextPI}, {k.Sort, k.Paste, k.Quit}}
}
