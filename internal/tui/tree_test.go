package tui

import (
	"testing"

	"github.com/ncplore/ncplore/internal/dataset"
)

func sampleTree() *dataset.Node {
	root := dataset.NewNode("sample", "/", dataset.KindRoot)
	obs := dataset.NewNode("obs", "/obs", dataset.KindGroup)
	t2m := dataset.NewNode("t2m", "/obs/t2m", dataset.KindVariable)
	rain := dataset.NewNode("rain", "/obs/rain", dataset.KindVariable)
	obs.AddChild(rain)
	obs.AddChild(t2m)
	lat := dataset.NewNode("lat", "/lat", dataset.KindVariable)
	root.AddChild(obs)
	root.AddChild(lat)
	return root
}

func TestExplorer_VisibleRows(t *testing.T) {
	e := newExplorer(sampleTree(), "sample")

	// Root expanded, obs collapsed: root, obs, lat.
	if len(e.rows) != 3 {
		t.Fatalf("visible rows = %d, want 3", len(e.rows))
	}

	e.expanded["/obs"] = true
	e.rebuild()
	if len(e.rows) != 5 {
		t.Fatalf("visible rows = %d, want 5 after expanding obs", len(e.rows))
	}

	// Children sort groups first, then variables alphabetically.
	if e.rows[1].node.Path != "/obs" || e.rows[2].node.Name != "rain" || e.rows[3].node.Name != "t2m" {
		t.Fatalf("unexpected row order: %v, %v, %v",
			e.rows[1].node.Path, e.rows[2].node.Name, e.rows[3].node.Name)
	}
	if e.rows[4].node.Path != "/lat" {
		t.Fatalf("row 4 = %v, want /lat", e.rows[4].node.Path)
	}
}

func TestExplorer_SearchKeepsAncestors(t *testing.T) {
	e := newExplorer(sampleTree(), "sample")
	e.query = "rain"
	e.rebuild()

	// The hit plus its ancestors: root, obs, rain.
	if len(e.rows) != 3 {
		t.Fatalf("visible rows = %d, want 3", len(e.rows))
	}
	if e.rows[2].node.Name != "rain" {
		t.Fatalf("last row = %v, want rain", e.rows[2].node.Name)
	}

	e.query = "zzz"
	e.rebuild()
	if len(e.rows) != 0 {
		t.Fatalf("visible rows = %d, want 0 for a miss", len(e.rows))
	}
}

func TestExplorer_CursorClampedOnRebuild(t *testing.T) {
	e := newExplorer(sampleTree(), "sample")
	e.expanded["/obs"] = true
	e.rebuild()
	e.cursor = len(e.rows) - 1

	delete(e.expanded, "/obs")
	e.rebuild()
	if e.cursor >= len(e.rows) {
		t.Fatalf("cursor %d out of %d rows", e.cursor, len(e.rows))
	}
}
