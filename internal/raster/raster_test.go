package raster

import (
	"math"
	"testing"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/ncarray"
)

func gridOf(rows, cols int, values []float64) *ncarray.Grid {
	return &ncarray.Grid{Rows: rows, Cols: cols, Values: values}
}

func constGrid(rows, cols int, v float64) *ncarray.Grid {
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = v
	}
	return gridOf(rows, cols, values)
}

func redShade(v float64) colormap.RGB {
	return colormap.RGB{R: uint8(v)}
}

func TestScale_OrientationSymmetric(t *testing.T) {
	for rows := 1; rows <= 40; rows += 3 {
		for cols := 1; cols <= 40; cols += 5 {
			a := Scale(rows, cols, 80, 24)
			b := Scale(cols, rows, 80, 24)
			if a != b {
				t.Fatalf("Scale(%d, %d) = %v but Scale(%d, %d) = %v",
					rows, cols, a, cols, rows, b)
			}
		}
	}
}

func TestScale_UsesDoublePixelHeight(t *testing.T) {
	// A square grid on a square-cell canvas is limited by width, not
	// by the doubled pixel height.
	got := Scale(10, 10, 20, 20)
	if got != 2 {
		t.Fatalf("Scale(10, 10, 20, 20) = %v, want 2", got)
	}
}

func TestRender_FitsCanvas(t *testing.T) {
	tests := []struct {
		rows, cols   int
		cellW, cellH int
	}{
		{100, 7, 20, 10},
		{7, 100, 20, 10},
		{1, 1, 20, 10},
		{500, 500, 3, 2},
	}
	for _, tt := range tests {
		p := Render(constGrid(tt.rows, tt.cols, 1), redShade, tt.cellW, tt.cellH)
		if p.Rows < 1 || p.Cols < 1 {
			t.Fatalf("%dx%d: degenerate pixmap %dx%d", tt.rows, tt.cols, p.Rows, p.Cols)
		}
		if p.Rows > 2*tt.cellH || p.Cols > tt.cellW {
			t.Fatalf("%dx%d: pixmap %dx%d exceeds %dx%d canvas",
				tt.rows, tt.cols, p.Rows, p.Cols, 2*tt.cellH, tt.cellW)
		}
	}
}

func TestRender_CenteredWithEvenRowOffset(t *testing.T) {
	p := Render(constGrid(4, 4, 1), redShade, 40, 20)

	if p.OffX != (40-p.Cols)/2 {
		t.Errorf("OffX = %d, want %d", p.OffX, (40-p.Cols)/2)
	}
	if p.OffY%2 != 0 {
		t.Errorf("OffY = %d, want an even pixel row", p.OffY)
	}
	want := ((2*20 - p.Rows) / 2) &^ 1
	if p.OffY != want {
		t.Errorf("OffY = %d, want %d", p.OffY, want)
	}
}

func TestRender_NearestNeighbor(t *testing.T) {
	// 2x2 source blown up onto a big canvas: each quadrant keeps its
	// source value.
	g := gridOf(2, 2, []float64{10, 20, 30, 40})
	p := Render(g, redShade, 8, 4)

	corners := []struct {
		py, px int
		want   uint8
	}{
		{0, 0, 10},
		{0, p.Cols - 1, 20},
		{p.Rows - 1, 0, 30},
		{p.Rows - 1, p.Cols - 1, 40},
	}
	for _, c := range corners {
		pix := p.At(c.py, c.px)
		if !pix.Valid || pix.Color.R != c.want {
			t.Errorf("pixel (%d, %d) = %+v, want value %d", c.py, c.px, pix, c.want)
		}
	}
}

func TestRender_NonFiniteInvalid(t *testing.T) {
	g := gridOf(1, 2, []float64{math.NaN(), 5})
	p := Render(g, redShade, 2, 1)

	if p.At(0, 0).Valid {
		t.Error("NaN source pixel marked valid")
	}
	if !p.At(0, p.Cols-1).Valid {
		t.Error("finite source pixel marked invalid")
	}
}

func TestCells_HalfBlockPacking(t *testing.T) {
	fill := colormap.RGB{R: 1, G: 1, B: 1}
	g := gridOf(2, 2, []float64{10, 20, 30, 40})
	p := Render(g, redShade, 2, 1)

	cells := p.Cells(fill)
	if len(cells) != 1 || len(cells[0]) != 2 {
		t.Fatalf("canvas is %dx%d cells, want 1x2", len(cells), len(cells[0]))
	}
	// Both pixel rows land in the single cell row: top row as Fg,
	// bottom row as Bg.
	left, right := cells[0][0], cells[0][1]
	if !left.TopData || !left.BotData {
		t.Fatalf("left cell misses data: %+v", left)
	}
	if left.Fg.R != 10 || left.Bg.R != 30 {
		t.Errorf("left cell = fg %d bg %d, want fg 10 bg 30", left.Fg.R, left.Bg.R)
	}
	if right.Fg.R != 20 || right.Bg.R != 40 {
		t.Errorf("right cell = fg %d bg %d, want fg 20 bg 40", right.Fg.R, right.Bg.R)
	}
}

func TestCells_FillOutsideBlock(t *testing.T) {
	fill := colormap.RGB{R: 9, G: 9, B: 9}
	// A wide grid on a wide canvas leaves empty cell rows above and
	// below the block.
	p := Render(gridOf(1, 10, make([]float64, 10)), redShade, 10, 5)

	cells := p.Cells(fill)
	if len(cells) != 5 {
		t.Fatalf("canvas has %d cell rows, want 5", len(cells))
	}
	found := false
	for _, row := range cells {
		for _, c := range row {
			if !c.TopData && !c.BotData {
				if c.Fg != fill || c.Bg != fill {
					t.Fatalf("empty cell not filled: %+v", c)
				}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected at least one cell outside the block")
	}
}

func TestCursorCell_RoundTrips(t *testing.T) {
	p := Render(constGrid(6, 8, 1), redShade, 40, 20)

	for _, pos := range [][2]int{{0, 0}, {5, 7}, {3, 4}} {
		cx, cy, ok := p.CursorCell(pos[0], pos[1])
		if !ok {
			t.Fatalf("CursorCell(%d, %d) not ok", pos[0], pos[1])
		}
		if cx < 0 || cx >= p.CellW || cy < 0 || cy >= p.CellH {
			t.Fatalf("CursorCell(%d, %d) = (%d, %d) outside %dx%d canvas",
				pos[0], pos[1], cx, cy, p.CellW, p.CellH)
		}
	}
}

func TestCursorCell_EmptyPixmap(t *testing.T) {
	p := Render(&ncarray.Grid{}, redShade, 10, 5)
	if _, _, ok := p.CursorCell(0, 0); ok {
		t.Fatal("empty pixmap should have no cursor cell")
	}
}
