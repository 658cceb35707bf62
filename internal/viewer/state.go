// Package viewer holds the per-session viewing state for one opened
// variable: view mode, display dimensions, slice indices, cursors. The
// state's invariants are enforced by keeping every field unexported and
// funneling all mutation through validating methods.
package viewer

import (
	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/ncarray"
)

// ViewMode selects how the current slice is presented.
type ViewMode int

const (
	ModeTable ViewMode = iota
	ModePlot1D
	ModeHeatmap
)

// Next advances the Table→Plot1D→Heatmap cycle.
func (m ViewMode) Next() ViewMode {
	switch m {
	case ModeTable:
		return ModePlot1D
	case ModePlot1D:
		return ModeHeatmap
	default:
		return ModeTable
	}
}

// Name returns the display name.
func (m ViewMode) Name() string {
	switch m {
	case ModeTable:
		return "Table"
	case ModePlot1D:
		return "1D Plot"
	case ModeHeatmap:
		return "Heatmap"
	}
	return "Table"
}

// noActive marks the absence of an active dimension selector.
const noActive = -1

// State is the slicing and view-mode state for one viewing session.
// Invariants, held after every mutation:
//   - len(sliceIdx) == ndim
//   - in 2D modes with ndim >= 2, rowDim != colDim
//   - active, when set, is never a displayed dimension
//   - every sliceIdx[d] stays within [0, shape[d]-1]
type State struct {
	v       *ncarray.Variable
	mode    ViewMode
	palette colormap.Palette

	sliceIdx []int
	rowDim   int // display_dims.0: rows / Y, and the 1D plot dimension
	colDim   int // display_dims.1: columns / X
	active   int // non-displayed dimension adjusted by +/-

	plotCursor     int
	curRow, curCol int // heatmap crosshair, in data coordinates
	scrollRow      int
	scrollCol      int
	applyScale     bool
}

// New seeds the state for a freshly loaded variable: the last two
// dimensions become the display pair and the first eligible dimension
// the active selector.
func New(v *ncarray.Variable, palette colormap.Palette) *State {
	s := &State{
		v:          v,
		mode:       ModeTable,
		palette:    palette,
		sliceIdx:   make([]int, v.NDim()),
		active:     noActive,
		applyScale: true,
	}
	if v.NDim() >= 2 {
		s.rowDim = v.NDim() - 2
		s.colDim = v.NDim() - 1
	}
	s.revalidateActive()
	return s
}

// Variable returns the loaded variable this session views.
func (s *State) Variable() *ncarray.Variable { return s.v }

// Mode returns the current view mode.
func (s *State) Mode() ViewMode { return s.mode }

// CycleMode advances the view mode and revalidates the slicing
// invariants for the new mode's display-dimension set.
func (s *State) CycleMode() {
	s.mode = s.mode.Next()
	s.fixDisplayCollision()
	s.revalidateActive()
	s.clampCursor()
	s.ResetScroll()
}

// Palette returns the heatmap palette.
func (s *State) Palette() colormap.Palette { return s.palette }

// CyclePalette advances to the next palette.
func (s *State) CyclePalette() { s.palette = s.palette.Next() }

// ApplyScale reports whether projections apply the CF scale/offset.
func (s *State) ApplyScale() bool { return s.applyScale }

// ToggleScale flips raw/scaled display; inert for variables without a
// scale/offset transform.
func (s *State) ToggleScale() {
	if s.v.HasScaleOffset() {
		s.applyScale = !s.applyScale
	}
}

// RowDim returns display_dims.0 (rows / Y; the plotted dimension in 1D
// mode).
func (s *State) RowDim() int { return s.rowDim }

// ColDim returns display_dims.1 (columns / X); meaningful in 2D modes
// only.
func (s *State) ColDim() int { return s.colDim }

// PlotDim returns the dimension plotted in 1D mode.
func (s *State) PlotDim() int {
	if s.v.NDim() <= 1 {
		return 0
	}
	return s.rowDim
}

// SliceIndex returns the fixed index for a dimension.
func (s *State) SliceIndex(dim int) int {
	if dim < 0 || dim >= len(s.sliceIdx) {
		return 0
	}
	return s.sliceIdx[dim]
}

// SliceIndices returns a copy of the fixed indices.
func (s *State) SliceIndices() []int {
	out := make([]int, len(s.sliceIdx))
	copy(out, s.sliceIdx)
	return out
}

// ActiveDim returns the dimension the keyboard selector adjusts.
func (s *State) ActiveDim() (int, bool) {
	if s.active == noActive {
		return 0, false
	}
	return s.active, true
}

// displayed reports whether dim is part of the current mode's display
// set.
func (s *State) displayed(dim int) bool {
	if s.v.NDim() <= 1 {
		return dim == 0
	}
	if s.mode == ModePlot1D {
		return dim == s.rowDim
	}
	return dim == s.rowDim || dim == s.colDim
}

// nonDisplayed returns the ordered dimensions outside the display set.
func (s *State) nonDisplayed() []int {
	var dims []int
	for d := 0; d < s.v.NDim(); d++ {
		if !s.displayed(d) {
			dims = append(dims, d)
		}
	}
	return dims
}

// revalidateActive keeps the current selector when it is still a
// non-displayed dimension, otherwise picks the first eligible one in
// ascending order, or none.
func (s *State) revalidateActive() {
	if s.active != noActive && s.active < s.v.NDim() && !s.displayed(s.active) {
		return
	}
	s.active = noActive
	if dims := s.nonDisplayed(); len(dims) > 0 {
		s.active = dims[0]
	}
}

// fixDisplayCollision restores rowDim != colDim for 2D modes after a
// mode change away from 1D.
func (s *State) fixDisplayCollision() {
	if s.mode == ModePlot1D || s.v.NDim() < 2 {
		return
	}
	if s.rowDim != s.colDim {
		return
	}
	s.colDim = (s.colDim + 1) % s.v.NDim()
}

// NextDimSelector cycles the active selector through the ordered
// non-displayed dimensions, wrapping. It is inert when the current mode
// leaves no dimension to slice (1D needs rank >= 2, 2D modes rank >= 3).
func (s *State) NextDimSelector() {
	minDims := 3
	if s.mode == ModePlot1D {
		minDims = 2
	}
	if s.v.NDim() < minDims {
		return
	}
	dims := s.nonDisplayed()
	if len(dims) == 0 {
		return
	}
	if s.active == noActive {
		s.active = dims[0]
		return
	}
	for i, d := range dims {
		if d == s.active {
			s.active = dims[(i+1)%len(dims)]
			return
		}
	}
	s.active = dims[0]
}

// AdvanceSlice moves the fixed index of dim by delta, clamped to the
// dimension's extent. Displayed dimensions are inert.
func (s *State) AdvanceSlice(dim, delta int) {
	if dim < 0 || dim >= s.v.NDim() || s.displayed(dim) {
		return
	}
	idx := s.sliceIdx[dim] + delta
	max := s.v.Shape[dim] - 1
	if idx < 0 {
		idx = 0
	}
	if idx > max {
		idx = max
	}
	s.sliceIdx[dim] = idx
}

// AdvanceActive moves the active selector's slice index by delta.
func (s *State) AdvanceActive(delta int) {
	if s.active != noActive {
		s.AdvanceSlice(s.active, delta)
	}
}

// SetDisplayDim advances one of the two display dimensions to the next
// (or previous) dimension, wrapping and skipping a collision with the
// other display dimension in 2D modes.
func (s *State) SetDisplayDim(which int, forward bool) {
	ndim := s.v.NDim()
	if ndim == 0 {
		return
	}
	delta := 1
	if !forward {
		delta = ndim - 1
	}

	current := s.rowDim
	other := s.colDim
	if which != 0 {
		current, other = s.colDim, s.rowDim
	}

	next := (current + delta) % ndim
	if s.mode != ModePlot1D && ndim >= 2 && next == other {
		next = (next + delta) % ndim
	}

	if which == 0 {
		s.rowDim = next
	} else {
		s.colDim = next
	}
	s.clampCursor()
	s.revalidateActive()
	s.ResetScroll()
}

// RotateDisplayDims swaps the Y/X display dimensions. The crosshair
// swaps in lockstep so the indicated cell stays the same. 2D modes
// only; inert below rank 2.
func (s *State) RotateDisplayDims() {
	if s.v.NDim() < 2 || s.mode == ModePlot1D {
		return
	}
	s.rowDim, s.colDim = s.colDim, s.rowDim
	s.curRow, s.curCol = s.curCol, s.curRow
	s.clampCursor()
	s.revalidateActive()
	s.ResetScroll()
}

// Cursor returns the heatmap crosshair in data coordinates.
func (s *State) Cursor() (row, col int) { return s.curRow, s.curCol }

// MoveCursor moves the crosshair, clamped to the displayed extents.
// Rank-1 variables present as a single column, so only the row moves.
func (s *State) MoveCursor(drow, dcol int) {
	if s.v.NDim() == 0 {
		return
	}
	s.curRow += drow
	s.curCol += dcol
	s.clampCursor()
}

func (s *State) clampCursor() {
	switch s.v.NDim() {
	case 0:
		return
	case 1:
		s.curRow = clamp(s.curRow, s.v.Shape[0])
		s.curCol = 0
		s.plotCursor = clamp(s.plotCursor, s.v.Shape[0])
	default:
		s.curRow = clamp(s.curRow, s.v.Shape[s.rowDim])
		s.curCol = clamp(s.curCol, s.v.Shape[s.colDim])
		s.plotCursor = clamp(s.plotCursor, s.v.Shape[s.PlotDim()])
	}
}

// PlotCursor returns the highlighted index along the plotted dimension.
func (s *State) PlotCursor() int { return s.plotCursor }

// MovePlotCursor moves the plot cursor, clamped to the plotted extent.
func (s *State) MovePlotCursor(delta int) {
	if s.v.NDim() == 0 {
		return
	}
	s.plotCursor = clamp(s.plotCursor+delta, s.v.Shape[s.PlotDim()])
}

// Scroll returns the table view offsets.
func (s *State) Scroll() (row, col int) { return s.scrollRow, s.scrollCol }

// ScrollBy moves the table view, clamped to the current slice extents.
func (s *State) ScrollBy(drow, dcol int) {
	rows, cols := s.ViewExtents()
	s.scrollRow = clamp(s.scrollRow+drow, rows)
	s.scrollCol = clamp(s.scrollCol+dcol, cols)
}

// ResetScroll returns the table view to the origin.
func (s *State) ResetScroll() { s.scrollRow, s.scrollCol = 0, 0 }

// ViewExtents returns the (rows, cols) of the current 2D presentation.
func (s *State) ViewExtents() (rows, cols int) {
	switch s.v.NDim() {
	case 0:
		return 1, 1
	case 1:
		return s.v.Shape[0], 1
	default:
		return s.v.Shape[s.rowDim], s.v.Shape[s.colDim]
	}
}

// ProjectPlot extracts the 1D series for the plotted dimension with all
// other dimensions fixed.
func (s *State) ProjectPlot() []float64 {
	if s.v.NDim() == 0 {
		return nil
	}
	return s.v.Slice1D(s.PlotDim(), s.sliceIdx, s.applyScale)
}

// ProjectGrid extracts the 2D slice for the display pair with all other
// dimensions fixed. Rank >= 2 only.
func (s *State) ProjectGrid() *ncarray.Grid {
	if s.v.NDim() < 2 {
		return &ncarray.Grid{}
	}
	return s.v.Slice2D(s.rowDim, s.colDim, s.sliceIdx, s.applyScale)
}

func clamp(idx, extent int) int {
	if extent <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= extent {
		return extent - 1
	}
	return idx
}
