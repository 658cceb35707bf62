package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// datasetExts are file suffixes the browser offers for opening.
var datasetExts = map[string]bool{
	".nc":  true,
	".nc4": true,
	".cdf": true,
	".h5":  true,
}

// fileItem is one browser entry.
type fileItem struct {
	name string
	path string
	dir  bool
}

func (i fileItem) Title() string {
	if i.dir {
		return i.name + "/"
	}
	return i.name
}

func (i fileItem) Description() string {
	if isZarrDir(i.path) {
		return "zarr store"
	}
	if i.dir {
		return "directory"
	}
	return "dataset"
}

func (i fileItem) FilterValue() string { return i.name }

// browser picks a dataset path from the filesystem. Directories whose
// contents mark them as Zarr stores open directly instead of
// descending.
type browser struct {
	cwd  string
	list list.Model
}

func newBrowser(dir string) (*browser, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorYellow).BorderForeground(colorYellow)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colorGray).BorderForeground(colorYellow)
	l := list.New(nil, d, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.Title = abs
	l.Styles.Title = titleStyle

	b := &browser{cwd: abs, list: l}
	if err := b.readDir(abs); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *browser) setSize(w, h int) {
	b.list.SetSize(w, h)
}

// readDir loads the entries of dir into the list, directories first.
func (b *browser) readDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			items = append(items, fileItem{name: name, path: full, dir: true})
			continue
		}
		if datasetExts[strings.ToLower(filepath.Ext(name))] {
			items = append(items, fileItem{name: name, path: full})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		fi, fj := items[i].(fileItem), items[j].(fileItem)
		if fi.dir != fj.dir {
			return fi.dir
		}
		return fi.name < fj.name
	})
	b.cwd = dir
	b.list.Title = dir
	b.list.SetItems(items)
	return nil
}

// isZarrDir reports whether a directory holds Zarr metadata at its
// top level.
func isZarrDir(dir string) bool {
	for _, marker := range []string{".zgroup", ".zarray", "zarr.json"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// update handles one key press and returns the dataset path the user
// chose, or "".
func (b *browser) update(msg tea.Msg, keys KeyMap) (string, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !b.list.SettingFilter() {
		switch {
		case key.Matches(km, keys.Enter):
			it, ok := b.list.SelectedItem().(fileItem)
			if !ok {
				return "", nil
			}
			if !it.dir || isZarrDir(it.path) {
				return it.path, nil
			}
			if err := b.readDir(it.path); err == nil {
				b.list.ResetSelected()
			}
			return "", nil
		case key.Matches(km, keys.Back):
			parent := filepath.Dir(b.cwd)
			if parent != b.cwd {
				if err := b.readDir(parent); err == nil {
					b.list.ResetSelected()
				}
			}
			return "", nil
		}
	}
	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return "", cmd
}

func (b *browser) view() string {
	return b.list.View()
}
