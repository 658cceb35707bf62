// Package tui is the terminal front end: a file browser, the dataset
// tree explorer and the variable viewer with its three view modes.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/dataset"
	"github.com/ncplore/ncplore/internal/ncarray"
	"github.com/ncplore/ncplore/internal/viewer"
)

type screen int

const (
	screenBrowser screen = iota
	screenExplorer
	screenViewer
)

// Model is the application root. All event handling is synchronous:
// a key press is fully applied, loads included, before the next one
// is read.
type Model struct {
	keys KeyMap
	help help.Model
	log  *logrus.Logger

	width  int
	height int

	screen   screen
	browser  *browser
	store    dataset.Store
	explorer *explorer
	view     *viewer.State

	palette colormap.Palette
	status  string
}

// New builds the root model. A file or Zarr path opens straight into
// the explorer; a plain directory or an empty path starts the browser.
func New(path string, pal colormap.Palette, log *logrus.Logger) (*Model, error) {
	m := &Model{
		keys:    DefaultKeyMap(),
		help:    help.New(),
		log:     log,
		palette: pal,
	}
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	openDirect := strings.Contains(path, "://") ||
		(err == nil && !info.IsDir()) ||
		(err == nil && info.IsDir() && isZarrDir(path))
	if openDirect {
		if err := m.openDataset(path); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	b, err := newBrowser(path)
	if err != nil {
		return nil, err
	}
	m.browser = b
	m.screen = screenBrowser
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// openDataset replaces the current store with a freshly opened one and
// switches to the explorer.
func (m *Model) openDataset(path string) error {
	st, err := dataset.OpenStore(context.Background(), path)
	if err != nil {
		m.log.WithError(err).WithField("path", path).Error("open dataset")
		return err
	}
	if m.store != nil {
		m.store.Close()
	}
	m.store = st
	m.explorer = newExplorer(st.Root(), filepath.Base(path))
	m.explorer.setSize(m.width, m.contentHeight())
	m.screen = screenExplorer
	m.view = nil
	m.status = ""
	return nil
}

// openVariable loads a variable and enters the viewer. A failed load
// leaves the explorer (and any previous viewer state) untouched.
func (m *Model) openVariable(path string) {
	v, err := ncarray.Load(context.Background(), m.store, path)
	if err != nil {
		m.log.WithError(err).WithField("variable", path).Error("load variable")
		m.status = errorStyle.Render(fmt.Sprintf("cannot open %s: %v", path, err))
		return
	}
	m.view = viewer.New(v, m.palette)
	m.screen = screenViewer
	m.status = ""
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.browser != nil {
			m.browser.setSize(msg.Width, m.contentHeight())
		}
		if m.explorer != nil {
			m.explorer.setSize(msg.Width, m.contentHeight())
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.typing() {
			return m.dispatch(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.store != nil {
				m.store.Close()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m.dispatch(msg)
	}
	return m.dispatch(msg)
}

// typing reports whether a text input currently owns the keyboard.
func (m *Model) typing() bool {
	switch m.screen {
	case screenBrowser:
		return m.browser != nil && m.browser.list.SettingFilter()
	case screenExplorer:
		return m.explorer != nil && m.explorer.searching
	}
	return false
}

func (m *Model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenBrowser:
		path, cmd := m.browser.update(msg, m.keys)
		if path != "" {
			if err := m.openDataset(path); err != nil {
				m.status = errorStyle.Render(err.Error())
			}
		}
		return m, cmd

	case screenExplorer:
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		if key.Matches(km, m.keys.Back) && m.explorer.query == "" && !m.explorer.searching && m.browser != nil {
			if m.store != nil {
				m.store.Close()
				m.store = nil
			}
			m.explorer = nil
			m.view = nil
			m.screen = screenBrowser
			return m, nil
		}
		path, cmd := m.explorer.update(km, m.keys)
		if path != "" {
			m.openVariable(path)
		}
		return m, cmd

	case screenViewer:
		if km, ok := msg.(tea.KeyMsg); ok {
			m.viewerKey(km)
		}
		return m, nil
	}
	return m, nil
}

// viewerKey applies one key press to the viewer state.
func (m *Model) viewerKey(msg tea.KeyMsg) {
	s := m.view
	k := m.keys
	switch {
	case key.Matches(msg, k.Back):
		m.screen = screenExplorer
	case key.Matches(msg, k.ViewMode):
		s.CycleMode()
	case key.Matches(msg, k.Palette):
		s.CyclePalette()
		m.palette = s.Palette()
	case key.Matches(msg, k.Rotate):
		s.RotateDisplayDims()
	case key.Matches(msg, k.DimY):
		s.SetDisplayDim(0, true)
	case key.Matches(msg, k.DimX):
		s.SetDisplayDim(1, true)
	case key.Matches(msg, k.Selector):
		s.NextDimSelector()
	case key.Matches(msg, k.SliceInc):
		s.AdvanceActive(1)
	case key.Matches(msg, k.SliceDec):
		s.AdvanceActive(-1)
	case key.Matches(msg, k.Scale):
		s.ToggleScale()
	case key.Matches(msg, k.Copy):
		desc, err := copyView(s)
		if err != nil {
			m.log.WithError(err).Error("clipboard")
			m.status = errorStyle.Render(err.Error())
		} else {
			m.status = statusStyle.Render(desc)
		}
	case key.Matches(msg, k.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, k.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, k.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, k.Right):
		m.moveCursor(0, 1)
	}
}

func (m *Model) moveCursor(drow, dcol int) {
	if m.view.Mode() == viewer.ModePlot1D {
		m.view.MovePlotCursor(dcol - drow)
		return
	}
	m.view.MoveCursor(drow, dcol)
}

// contentHeight is the vertical space left for the active screen after
// the help bar and status line.
func (m *Model) contentHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	var body string
	switch m.screen {
	case screenBrowser:
		body = m.browser.view()
	case screenExplorer:
		body = m.explorer.view()
	case screenViewer:
		body = m.viewerView()
	}
	footer := m.status
	if footer == "" {
		footer = m.help.View(m.keys)
	}
	return body + "\n" + footer
}

// viewerView composes the viewer panel: header, dimension line, the
// mode body and the stats footer.
func (m *Model) viewerView() string {
	s := m.view
	w := m.width
	bodyH := m.contentHeight() - 3
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch s.Mode() {
	case viewer.ModeTable:
		body = renderTable(s, w, bodyH)
	case viewer.ModePlot1D:
		body = renderPlot(s, w, bodyH)
	case viewer.ModeHeatmap:
		body = renderHeatmap(s, w, bodyH)
	}
	body = padLines(body, bodyH)

	return strings.Join([]string{
		panelHeader(s, w),
		panelDims(s, w),
		body,
		panelStats(s, w),
	}, "\n")
}

// padLines pads a block to an exact line count so the footer stays put.
func padLines(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}
