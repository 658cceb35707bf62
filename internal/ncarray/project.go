package ncarray

import "math"

// Grid is a row-major 2D projection.
type Grid struct {
	Rows, Cols int
	Values     []float64
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Cols+col]
}

// MinMax returns the finite range of the grid; ok is false when every
// value is non-finite.
func (g *Grid) MinMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if !isFinite(v) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Slice1D extracts the values along dim with every other dimension held
// at its index in fixed. Cost is proportional to shape[dim]: the flat
// offset is computed once and then stepped by the dimension's stride.
func (v *Variable) Slice1D(dim int, fixed []int, applyScale bool) []float64 {
	if dim < 0 || dim >= v.NDim() {
		return nil
	}
	base := 0
	for d, idx := range fixed {
		if d == dim || d >= v.NDim() {
			continue
		}
		base += clampIndex(idx, v.Shape[d]) * v.strides[d]
	}

	n := v.Shape[dim]
	step := v.strides[dim]
	out := make([]float64, n)
	for i, off := 0, base; i < n; i, off = i+1, off+step {
		out[i] = v.valueAt(off, applyScale)
	}
	return out
}

// Slice2D extracts the row-major grid with rowDim varying over rows and
// colDim over columns, every other dimension fixed. Cost is
// proportional to shape[rowDim]*shape[colDim].
func (v *Variable) Slice2D(rowDim, colDim int, fixed []int, applyScale bool) *Grid {
	if rowDim < 0 || rowDim >= v.NDim() || colDim < 0 || colDim >= v.NDim() || rowDim == colDim {
		return &Grid{}
	}
	base := 0
	for d, idx := range fixed {
		if d == rowDim || d == colDim || d >= v.NDim() {
			continue
		}
		base += clampIndex(idx, v.Shape[d]) * v.strides[d]
	}

	rows, cols := v.Shape[rowDim], v.Shape[colDim]
	rowStep, colStep := v.strides[rowDim], v.strides[colDim]
	out := make([]float64, rows*cols)
	i := 0
	for y, rowOff := 0, base; y < rows; y, rowOff = y+1, rowOff+rowStep {
		for x, off := 0, rowOff; x < cols; x, off = x+1, off+colStep {
			out[i] = v.valueAt(off, applyScale)
			i++
		}
	}
	return &Grid{Rows: rows, Cols: cols, Values: out}
}

// valueAt reads one element by flat offset, optionally scaled. The
// bounds check is defensive: valid slicing state never reaches it, so
// it answers NaN instead of panicking.
func (v *Variable) valueAt(off int, applyScale bool) float64 {
	if off < 0 || off >= len(v.Data) {
		return math.NaN()
	}
	raw := v.Data[off]
	if applyScale {
		return v.ScaleValue(raw)
	}
	return raw
}

func clampIndex(idx, extent int) int {
	if idx < 0 {
		return 0
	}
	if idx >= extent {
		return extent - 1
	}
	return idx
}
