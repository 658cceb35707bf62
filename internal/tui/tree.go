package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ncplore/ncplore/internal/dataset"
)

// treeRow is one visible line of the explorer: a node plus its
// indentation depth.
type treeRow struct {
	node  *dataset.Node
	depth int
}

// explorer is the dataset tree browser. It keeps an expansion set
// keyed by node path and rebuilds the visible row list after every
// structural change, so cursor movement stays an index operation.
type explorer struct {
	root     *dataset.Node
	title    string
	expanded map[string]bool
	rows     []treeRow
	cursor   int
	offset   int

	searching bool
	query     string
	input     textinput.Model

	width  int
	height int
}

func newExplorer(root *dataset.Node, title string) *explorer {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.CharLimit = 64
	e := &explorer{
		root:     root,
		title:    title,
		expanded: map[string]bool{root.Path: true},
		input:    ti,
	}
	e.rebuild()
	return e
}

func (e *explorer) setSize(w, h int) {
	e.width = w
	e.height = h
}

// rebuild regenerates the visible rows from the expansion set and the
// active search query.
func (e *explorer) rebuild() {
	e.rows = e.rows[:0]
	if e.query != "" {
		e.collectMatches(e.root, 0)
	} else {
		e.collect(e.root, 0)
	}
	if e.cursor >= len(e.rows) {
		e.cursor = len(e.rows) - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
}

func (e *explorer) collect(n *dataset.Node, depth int) {
	e.rows = append(e.rows, treeRow{node: n, depth: depth})
	if !n.IsGroup() || !e.expanded[n.Path] {
		return
	}
	for _, c := range sortedChildren(n) {
		e.collect(c, depth+1)
	}
}

// collectMatches flattens every node whose subtree contains a match,
// keeping ancestors so the hit's location stays readable.
func (e *explorer) collectMatches(n *dataset.Node, depth int) bool {
	hit := n.MatchesSearch(e.query)
	start := len(e.rows)
	e.rows = append(e.rows, treeRow{node: n, depth: depth})
	childHit := false
	for _, c := range sortedChildren(n) {
		if e.collectMatches(c, depth+1) {
			childHit = true
		}
	}
	if !hit && !childHit {
		e.rows = e.rows[:start]
		return false
	}
	return true
}

// sortedChildren orders groups before variables, each alphabetically.
func sortedChildren(n *dataset.Node) []*dataset.Node {
	out := make([]*dataset.Node, len(n.Children))
	copy(out, n.Children)
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := out[i].IsGroup(), out[j].IsGroup()
		if gi != gj {
			return gi
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (e *explorer) selected() *dataset.Node {
	if e.cursor < 0 || e.cursor >= len(e.rows) {
		return nil
	}
	return e.rows[e.cursor].node
}

func (e *explorer) move(delta int) {
	e.cursor += delta
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.cursor >= len(e.rows) {
		e.cursor = len(e.rows) - 1
	}
}

// update handles one key press. It returns the path of a variable the
// user opened, or "" when the event stayed internal.
func (e *explorer) update(msg tea.KeyMsg, keys KeyMap) (string, tea.Cmd) {
	if e.searching {
		switch msg.Type {
		case tea.KeyEnter:
			e.searching = false
			e.input.Blur()
			return "", nil
		case tea.KeyEsc:
			e.searching = false
			e.query = ""
			e.input.SetValue("")
			e.input.Blur()
			e.rebuild()
			return "", nil
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		e.query = e.input.Value()
		e.rebuild()
		return "", cmd
	}

	switch {
	case key.Matches(msg, keys.Search):
		e.searching = true
		e.input.Focus()
		return "", textinput.Blink
	case key.Matches(msg, keys.Up):
		e.move(-1)
	case key.Matches(msg, keys.Down):
		e.move(1)
	case key.Matches(msg, keys.Left):
		if n := e.selected(); n != nil {
			if n.IsGroup() && e.expanded[n.Path] {
				delete(e.expanded, n.Path)
				e.rebuild()
			}
		}
	case key.Matches(msg, keys.Right):
		if n := e.selected(); n != nil && n.IsGroup() {
			e.expanded[n.Path] = true
			e.rebuild()
		}
	case key.Matches(msg, keys.Enter):
		n := e.selected()
		if n == nil {
			return "", nil
		}
		if n.IsVariable() {
			return n.Path, nil
		}
		if n.IsGroup() {
			if e.expanded[n.Path] {
				delete(e.expanded, n.Path)
			} else {
				e.expanded[n.Path] = true
			}
			e.rebuild()
		}
	case key.Matches(msg, keys.Back):
		if e.query != "" {
			e.query = ""
			e.input.SetValue("")
			e.rebuild()
		}
	}
	return "", nil
}

func (e *explorer) view() string {
	listH := e.height - 2
	if listH < 1 {
		listH = 1
	}
	detailW := e.width / 3
	if detailW > 44 {
		detailW = 44
	}
	listW := e.width - detailW - 1
	if listW < 20 {
		listW = e.width
		detailW = 0
	}

	if e.cursor < e.offset {
		e.offset = e.cursor
	}
	if e.cursor >= e.offset+listH {
		e.offset = e.cursor - listH + 1
	}

	var b strings.Builder
	header := titleStyle.Render(e.title)
	if e.searching || e.query != "" {
		header += "  " + e.input.View()
	}
	b.WriteString(header)
	b.WriteByte('\n')

	lines := make([]string, 0, listH)
	for i := e.offset; i < len(e.rows) && i < e.offset+listH; i++ {
		r := e.rows[i]
		marker := "  "
		if r.node.IsGroup() {
			if e.expanded[r.node.Path] || e.query != "" {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		line := strings.Repeat("  ", r.depth) + marker + r.node.DisplayName()
		line = truncate(line, listW)
		if i == e.cursor {
			line = selectedStyle.Render(line)
		} else if r.node.IsVariable() {
			line = labelStyle.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < listH {
		lines = append(lines, "")
	}
	list := strings.Join(lines, "\n")

	if detailW > 0 {
		detail := e.detailView(detailW, listH)
		list = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listW).Render(list),
			" ",
			detail)
	}
	b.WriteString(list)
	return b.String()
}

// detailView renders the attribute pane for the selected node.
func (e *explorer) detailView(w, h int) string {
	n := e.selected()
	if n == nil {
		return ""
	}
	var lines []string
	lines = append(lines, headerCellStyle.Render(truncate(n.Name, w)))
	lines = append(lines, dimStyle.Render(truncate(n.Path, w)))
	if n.IsVariable() {
		if n.Shape != nil {
			lines = append(lines, truncate(fmt.Sprintf("shape %v", n.Shape), w))
		}
		if len(n.DimNames) > 0 {
			lines = append(lines, truncate("dims "+strings.Join(n.DimNames, ", "), w))
		}
		if n.DType != "" {
			lines = append(lines, truncate("type "+n.DType, w))
		}
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(lines) >= h {
			break
		}
		lines = append(lines,
			unitStyle.Render(truncate(k, w))+" "+truncate(n.Attrs[k], w))
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return lipgloss.NewStyle().Width(w).Render(strings.Join(lines, "\n"))
}
