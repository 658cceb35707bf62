package viewer

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/dataset"
	"github.com/ncplore/ncplore/internal/ncarray"
)

// stubStore serves one variable.
type stubStore struct {
	raw *dataset.RawVariable
}

func (s *stubStore) Root() *dataset.Node { return dataset.NewNode("/", "/", dataset.KindRoot) }

func (s *stubStore) Open(_ context.Context, path string) (*dataset.RawVariable, error) {
	if s.raw != nil && s.raw.Path == path {
		return s.raw, nil
	}
	return nil, fmt.Errorf("%w: %s", dataset.ErrNotFound, path)
}

func (s *stubStore) Close() error { return nil }

// loadVar builds a variable of the given shape whose values count up
// from zero.
func loadVar(t *testing.T, shape []int, attrs map[string]string) *ncarray.Variable {
	t.Helper()
	total := 1
	for _, n := range shape {
		total *= n
	}
	data := make([]float64, total)
	for i := range data {
		data[i] = float64(i)
	}
	st := &stubStore{raw: &dataset.RawVariable{
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
	return v
}

func TestNew_SeedsLastTwoDims(t *testing.T) {
	s := New(loadVar(t, []int{2, 3, 4, 5}, nil), colormap.Viridis)

	if s.RowDim() != 2 || s.ColDim() != 3 {
		t.Fatalf("display dims = (%d, %d), want (2, 3)", s.RowDim(), s.ColDim())
	}
	if s.Mode() != ModeTable {
		t.Fatalf("mode = %v, want ModeTable", s.Mode())
	}
	active, ok := s.ActiveDim()
	if !ok || active != 0 {
		t.Fatalf("active = (%d, %v), want (0, true)", active, ok)
	}
}

func TestRotateTwiceIsIdentity(t *testing.T) {
	s := New(loadVar(t, []int{4, 6}, nil), colormap.Viridis)
	s.MoveCursor(2, 3)

	row, col := s.RowDim(), s.ColDim()
	curRow, curCol := s.Cursor()

	s.RotateDisplayDims()
	s.RotateDisplayDims()

	if s.RowDim() != row || s.ColDim() != col {
		t.Fatalf("display dims = (%d, %d), want (%d, %d)", s.RowDim(), s.ColDim(), row, col)
	}
	if r, c := s.Cursor(); r != curRow || c != curCol {
		t.Fatalf("cursor = (%d, %d), want (%d, %d)", r, c, curRow, curCol)
	}
}

func TestRotate_SwapsCursorInLockstep(t *testing.T) {
	s := New(loadVar(t, []int{4, 6}, nil), colormap.Viridis)
	s.MoveCursor(1, 5)

	s.RotateDisplayDims()

	if s.RowDim() != 1 || s.ColDim() != 0 {
		t.Fatalf("display dims = (%d, %d), want (1, 0)", s.RowDim(), s.ColDim())
	}
	if r, c := s.Cursor(); r != 5 || c != 1 {
		t.Fatalf("cursor = (%d, %d), want (5, 1)", r, c)
	}
}

func TestNextDimSelector_NeverDisplayed(t *testing.T) {
	s := New(loadVar(t, []int{2, 3, 4, 5}, nil), colormap.Viridis)

	for i := 0; i < 10; i++ {
		s.NextDimSelector()
		active, ok := s.ActiveDim()
		if !ok {
			t.Fatal("selector vanished")
		}
		if active == s.RowDim() || active == s.ColDim() {
			t.Fatalf("selector %d is a display dimension", active)
		}
	}
}

func TestNextDimSelector_WrapsOverNonDisplayed(t *testing.T) {
	// Rank 4 in a 2D mode: two non-displayed dims, so the selector
	// alternates and ndim calls land back where it started.
	s := New(loadVar(t, []int{2, 3, 4, 5}, nil), colormap.Viridis)

	s.NextDimSelector()
	start, _ := s.ActiveDim()
	for i := 0; i < s.Variable().NDim(); i++ {
		s.NextDimSelector()
	}
	got, _ := s.ActiveDim()
	if got != start {
		t.Fatalf("selector = %d after full cycle, want %d", got, start)
	}
}

func TestNextDimSelector_InertBelowMinRank(t *testing.T) {
	s := New(loadVar(t, []int{3, 4}, nil), colormap.Viridis)
	s.NextDimSelector()
	if _, ok := s.ActiveDim(); ok {
		t.Error("rank 2 in a 2D mode has nothing to slice")
	}

	s.CycleMode() // 1D plot: dim 1 becomes sliceable
	s.NextDimSelector()
	if active, ok := s.ActiveDim(); !ok || active == s.PlotDim() {
		t.Fatalf("active = (%d, %v), want a non-plotted dimension", active, ok)
	}
}

func TestSetDisplayDim_SkipsCollision(t *testing.T) {
	s := New(loadVar(t, []int{2, 3, 4}, nil), colormap.Viridis)

	for i := 0; i < 7; i++ {
		s.SetDisplayDim(0, true)
		if s.RowDim() == s.ColDim() {
			t.Fatalf("display dims collided at %d", s.RowDim())
		}
	}
	for i := 0; i < 7; i++ {
		s.SetDisplayDim(1, false)
		if s.RowDim() == s.ColDim() {
			t.Fatalf("display dims collided at %d", s.ColDim())
		}
	}
}

func TestCycleMode_RepairsCollisionFrom1D(t *testing.T) {
	s := New(loadVar(t, []int{3, 4}, nil), colormap.Viridis)
	s.CycleMode() // 1D plot

	// In 1D mode only the plotted dimension is displayed, so cycling Y
	// may land on the column dimension.
	s.SetDisplayDim(0, true)
	if s.RowDim() != s.ColDim() {
		t.Fatalf("expected a collision, got dims (%d, %d)", s.RowDim(), s.ColDim())
	}

	s.CycleMode() // heatmap: 2D again
	if s.RowDim() == s.ColDim() {
		t.Fatal("collision survived the mode change")
	}
}

func TestAdvanceSlice_ClampsToExtent(t *testing.T) {
	s := New(loadVar(t, []int{3, 4, 5}, nil), colormap.Viridis)

	s.AdvanceSlice(0, 100)
	if got := s.SliceIndex(0); got != 2 {
		t.Fatalf("SliceIndex(0) = %d, want 2", got)
	}
	s.AdvanceSlice(0, -100)
	if got := s.SliceIndex(0); got != 0 {
		t.Fatalf("SliceIndex(0) = %d, want 0", got)
	}
}

func TestAdvanceSlice_DisplayedDimInert(t *testing.T) {
	s := New(loadVar(t, []int{3, 4, 5}, nil), colormap.Viridis)

	s.AdvanceSlice(s.RowDim(), 1)
	s.AdvanceSlice(s.ColDim(), 1)
	for _, idx := range s.SliceIndices() {
		if idx != 0 {
			t.Fatalf("slice indices moved: %v", s.SliceIndices())
		}
	}
}

func TestSetDisplayDim_ClampsStaleSliceIndex(t *testing.T) {
	s := New(loadVar(t, []int{8, 3, 4}, nil), colormap.Viridis)
	s.AdvanceSlice(0, 7)

	// Cycling Y from dim 1 skips the collision with dim 2 and lands on
	// dim 0, whose stale fixed index must not leak into projections.
	s.SetDisplayDim(0, true)
	if s.RowDim() != 0 {
		t.Fatalf("RowDim = %d, want 0", s.RowDim())
	}

	rows, cols := s.ViewExtents()
	grid := s.ProjectGrid()
	if grid.Rows != rows || grid.Cols != cols {
		t.Fatalf("grid %dx%d does not match extents %dx%d", grid.Rows, grid.Cols, rows, cols)
	}
}

func TestToggleScale_InertWithoutTransform(t *testing.T) {
	s := New(loadVar(t, []int{4}, nil), colormap.Viridis)
	if !s.ApplyScale() {
		t.Fatal("scaling should start enabled")
	}
	s.ToggleScale()
	if !s.ApplyScale() {
		t.Error("toggle should be inert without scale_factor/add_offset")
	}

	scaled := New(loadVar(t, []int{4}, map[string]string{"scale_factor": "2"}), colormap.Viridis)
	scaled.ToggleScale()
	if scaled.ApplyScale() {
		t.Error("toggle should flip with a transform present")
	}
}

func TestProjectGrid_MatchesExtents(t *testing.T) {
	s := New(loadVar(t, []int{4, 3, 5}, nil), colormap.Viridis)
	s.AdvanceSlice(0, 2)

	g := s.ProjectGrid()
	if g.Rows != 3 || g.Cols != 5 {
		t.Fatalf("grid is %dx%d, want 3x5", g.Rows, g.Cols)
	}
	// slice [2, :, :] of the counting variable
	if got, want := g.At(1, 2), float64(2*15+1*5+2); got != want {
		t.Fatalf("At(1, 2) = %v, want %v", got, want)
	}

	series := s.ProjectPlot()
	if len(series) != 3 {
		t.Fatalf("plot length = %d, want 3 (row dimension)", len(series))
	}
	if got, want := series[1], float64(2*15+1*5+0); got != want {
		t.Fatalf("series[1] = %v, want %v", got, want)
	}
}

func TestMoveCursor_Rank1(t *testing.T) {
	s := New(loadVar(t, []int{100}, nil), colormap.Viridis)

	for i := 0; i < 50; i++ {
		s.MoveCursor(1, 0)
	}
	if r, c := s.Cursor(); r != 50 || c != 0 {
		t.Fatalf("cursor = (%d, %d), want (50, 0)", r, c)
	}

	s.MoveCursor(200, 0)
	if r, _ := s.Cursor(); r != 99 {
		t.Fatalf("cursor row = %d, want 99 (clamped)", r)
	}
	s.MoveCursor(-500, 0)
	if r, _ := s.Cursor(); r != 0 {
		t.Fatalf("cursor row = %d, want 0 (clamped)", r)
	}

	// The single column never moves sideways.
	s.MoveCursor(0, 5)
	if _, c := s.Cursor(); c != 0 {
		t.Fatalf("cursor col = %d, want 0", c)
	}
}

func TestScroll_ResetOnPresentationChange(t *testing.T) {
	s := New(loadVar(t, []int{4, 30, 30}, nil), colormap.Viridis)

	s.ScrollBy(10, 10)
	if r, c := s.Scroll(); r != 10 || c != 10 {
		t.Fatalf("scroll = (%d, %d), want (10, 10)", r, c)
	}
	s.RotateDisplayDims()
	if r, c := s.Scroll(); r != 0 || c != 0 {
		t.Fatalf("scroll = (%d, %d) after rotate, want origin", r, c)
	}

	s.ScrollBy(7, 0)
	s.SetDisplayDim(0, true)
	if r, c := s.Scroll(); r != 0 || c != 0 {
		t.Fatalf("scroll = (%d, %d) after display-dim change, want origin", r, c)
	}

	s.ScrollBy(0, 9)
	s.CycleMode()
	if r, c := s.Scroll(); r != 0 || c != 0 {
		t.Fatalf("scroll = (%d, %d) after mode change, want origin", r, c)
	}
}

// Every projection reached through the validated mutators over a finite
// buffer must itself be finite: the NaN fallback in element lookup is
// for out-of-range offsets only, and validated state never produces one.
func TestProjections_StayFinite(t *testing.T) {
	s := New(loadVar(t, []int{3, 4, 5, 2}, nil), colormap.Viridis)

	assertFinite := func(step string) {
		t.Helper()
		if g := s.ProjectGrid(); g.Rows > 0 {
			for i, v := range g.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s: grid value %d is %v", step, i, v)
				}
			}
		}
		for i, v := range s.ProjectPlot() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: plot value %d is %v", step, i, v)
			}
		}
	}

	assertFinite("initial")
	for i := 0; i < 6; i++ {
		s.SetDisplayDim(0, true)
		assertFinite("cycle Y")
		s.SetDisplayDim(1, false)
		assertFinite("cycle X")
	}
	s.RotateDisplayDims()
	assertFinite("rotate")
	for i := 0; i < 4; i++ {
		s.NextDimSelector()
		s.AdvanceActive(3)
		assertFinite("advance slice")
	}
	for i := 0; i < 4; i++ {
		s.CycleMode()
		s.SetDisplayDim(0, true)
		s.AdvanceActive(1)
		assertFinite("mode change")
	}
}

func TestMoveCursor_Clamped(t *testing.T) {
	s := New(loadVar(t, []int{3, 4}, nil), colormap.Viridis)

	s.MoveCursor(100, 100)
	if r, c := s.Cursor(); r != 2 || c != 3 {
		t.Fatalf("cursor = (%d, %d), want (2, 3)", r, c)
	}
	s.MoveCursor(-100, -100)
	if r, c := s.Cursor(); r != 0 || c != 0 {
		t.Fatalf("cursor = (%d, %d), want (0, 0)", r, c)
	}
}

func TestMovePlotCursor_Clamped(t *testing.T) {
	s := New(loadVar(t, []int{5}, nil), colormap.Viridis)

	s.MovePlotCursor(99)
	if got := s.PlotCursor(); got != 4 {
		t.Fatalf("PlotCursor = %d, want 4", got)
	}
	s.MovePlotCursor(-99)
	if got := s.PlotCursor(); got != 0 {
		t.Fatalf("PlotCursor = %d, want 0", got)
	}
}

func TestViewExtents(t *testing.T) {
	tests := []struct {
		shape []int
		rows  int
		cols  int
	}{
		{[]int{}, 1, 1},
		{[]int{7}, 7, 1},
		{[]int{4, 6}, 4, 6},
		{[]int{2, 4, 6}, 4, 6},
	}
	for _, tt := range tests {
		s := New(loadVar(t, tt.shape, nil), colormap.Viridis)
		rows, cols := s.ViewExtents()
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("shape %v: extents = (%d, %d), want (%d, %d)",
				tt.shape, rows, cols, tt.rows, tt.cols)
		}
	}
}
