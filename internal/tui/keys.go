package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding; the help bar renders from it.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Back     key.Binding
	Search   key.Binding
	ViewMode key.Binding
	Palette  key.Binding
	Rotate   key.Binding
	DimY     key.Binding
	DimX     key.Binding
	Selector key.Binding
	SliceInc key.Binding
	SliceDec key.Binding
	Scale    key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ViewMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "view mode")),
		Palette:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "palette")),
		Rotate:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate axes")),
		DimY:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "cycle Y dim")),
		DimX:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "cycle X dim")),
		Selector: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next slice dim")),
		SliceInc: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "slice forward")),
		SliceDec: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slice back")),
		Scale:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "raw/scaled")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy TSV")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the single-line help bar content.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.ViewMode, k.Selector, k.SliceInc, k.Search, k.Help, k.Quit}
}

// FullHelp is the expanded help content.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Back},
		{k.ViewMode, k.Palette, k.Rotate, k.DimY, k.DimX},
		{k.Selector, k.SliceInc, k.SliceDec, k.Scale, k.Copy},
		{k.Search, k.Help, k.Quit},
	}
}
