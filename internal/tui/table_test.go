package tui

import (
	"context"
	"fmt"
	"testing"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/dataset"
	"github.com/ncplore/ncplore/internal/ncarray"
	"github.com/ncplore/ncplore/internal/viewer"
)

// oneVarStore serves a single variable.
type oneVarStore struct {
	raw *dataset.RawVariable
}

func (s *oneVarStore) Root() *dataset.Node { return dataset.NewNode("/", "/", dataset.KindRoot) }

func (s *oneVarStore) Open(_ context.Context, path string) (*dataset.RawVariable, error) {
	if s.raw != nil && s.raw.Path == path {
		return s.raw, nil
	}
	return nil, fmt.Errorf("%w: %s", dataset.ErrNotFound, path)
}

func (s *oneVarStore) Close() error { return nil }

func newState(t *testing.T, shape []int, attrs map[string]string) *viewer.State {
	t.Helper()
	total := 1
	for _, n := range shape {
		total *= n
	}
	data := make([]float64, total)
	for i := range data {
		data[i] = float64(i)
	}
	st := &oneVarStore{raw: &dataset.RawVariable{
		Name:   "v",
		Path:   "/v",
		Shape:  shape,
		Attrs:  attrs,
		Values: data,
	}}
	v, err := ncarray.Load(context.Background(), st, "/v")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return viewer.New(v, colormap.Viridis)
}

func TestRenderTable_FollowsRank1Cursor(t *testing.T) {
	s := newState(t, []int{100}, nil)
	for i := 0; i < 50; i++ {
		s.MoveCursor(1, 0)
	}

	// Height 6 gives 5 visible rows, so row 50 needs a scroll of 46.
	renderTable(s, 40, 6)
	if r, c := s.Scroll(); r != 46 || c != 0 {
		t.Fatalf("scroll = (%d, %d), want (46, 0)", r, c)
	}

	// The scroll sticks: moving back inside the window keeps it.
	s.MoveCursor(-2, 0)
	renderTable(s, 40, 6)
	if r, _ := s.Scroll(); r != 46 {
		t.Fatalf("scroll row = %d, want 46", r)
	}

	// Moving above the window pulls the view up with the cursor.
	s.MoveCursor(-10, 0)
	renderTable(s, 40, 6)
	if r, _ := s.Scroll(); r != 38 {
		t.Fatalf("scroll row = %d, want 38", r)
	}
}

func TestScaleSpan(t *testing.T) {
	tests := []struct {
		name    string
		attrs   map[string]string
		rawView bool
		want    float64
	}{
		{"no transform", nil, false, 1},
		{"scaled view", map[string]string{"scale_factor": "2"}, false, 1},
		{"raw view", map[string]string{"scale_factor": "2"}, true, 0.5},
		{"raw view, negative factor", map[string]string{"scale_factor": "-2"}, true, 0.5},
		{"raw view, zero factor", map[string]string{"scale_factor": "0"}, true, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newState(t, []int{4}, tc.attrs)
			if tc.rawView {
				s.ToggleScale()
			}
			if got := scaleSpan(s); got != tc.want {
				t.Fatalf("scaleSpan = %v, want %v", got, tc.want)
			}
		})
	}
}
