// Package raster maps a 2D projection onto a bounded character-cell
// canvas using half-block packing: each cell shows two independently
// colored, vertically stacked pixels via the foreground and background
// of an upper-half-block glyph, so a W×H cell canvas addresses a W×2H
// pixel grid.
package raster

import (
	"math"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/ncarray"
)

// Pixel is one displayed pixel and the source cell it samples.
type Pixel struct {
	Color          colormap.RGB
	Valid          bool // false when the source value is non-finite
	SrcRow, SrcCol int
}

// Cell is one character cell: the upper-half-block foreground carries
// the top pixel, the background the bottom one.
type Cell struct {
	Fg, Bg   colormap.RGB
	TopData  bool // top pixel shows data (vs canvas fill)
	BotData  bool
	TopValid bool
	BotValid bool
}

// Pixmap is the rasterized heatmap.
type Pixmap struct {
	CellW, CellH int // canvas size in character cells
	SrcRows      int // source grid extents
	SrcCols      int
	Rows, Cols   int // displayed pixel extents
	OffX         int // left offset in cells (pixel columns)
	OffY         int // top offset in pixel rows; kept even so cells align
	Pix          []Pixel
}

// At returns the displayed pixel at (py, px).
func (p *Pixmap) At(py, px int) Pixel {
	return p.Pix[py*p.Cols+px]
}

// Scale returns the pixels-per-source-cell factor for an R×C grid on a
// W×2H pixel canvas. The minimum is taken over both the given
// orientation and its transpose, so rotating display axes never changes
// apparent pixel size, only which axis stretches.
func Scale(rows, cols, cellW, cellH int) float64 {
	h := float64(2 * cellH)
	w := float64(cellW)
	normal := math.Min(h/float64(rows), w/float64(cols))
	transposed := math.Min(h/float64(cols), w/float64(rows))
	return math.Min(normal, transposed)
}

// Render downsamples the grid onto a cellW×cellH canvas. color maps a
// finite value to its RGB; non-finite source cells turn into invalid
// pixels and take the caller's fill color at packing time.
func Render(g *ncarray.Grid, color func(float64) colormap.RGB, cellW, cellH int) *Pixmap {
	if g.Rows == 0 || g.Cols == 0 || cellW < 1 || cellH < 1 {
		return &Pixmap{CellW: cellW, CellH: cellH, SrcRows: g.Rows, SrcCols: g.Cols}
	}

	scale := Scale(g.Rows, g.Cols, cellW, cellH)
	dispRows := int(math.Floor(float64(g.Rows) * scale))
	if dispRows < 1 {
		dispRows = 1
	}
	dispCols := int(math.Floor(float64(g.Cols) * scale))
	if dispCols < 1 {
		dispCols = 1
	}
	if dispRows > 2*cellH {
		dispRows = 2 * cellH
	}
	if dispCols > cellW {
		dispCols = cellW
	}

	p := &Pixmap{
		CellW:   cellW,
		CellH:   cellH,
		SrcRows: g.Rows,
		SrcCols: g.Cols,
		Rows:    dispRows,
		Cols:    dispCols,
		OffX:    (cellW - dispCols) / 2,
		OffY:    ((2*cellH - dispRows) / 2) &^ 1,
		Pix:     make([]Pixel, dispRows*dispCols),
	}

	// Nearest-neighbor downsample.
	i := 0
	for py := 0; py < dispRows; py++ {
		srcRow := py * g.Rows / dispRows
		for px := 0; px < dispCols; px++ {
			srcCol := px * g.Cols / dispCols
			v := g.At(srcRow, srcCol)
			pix := Pixel{SrcRow: srcRow, SrcCol: srcCol}
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				pix.Valid = true
				pix.Color = color(v)
			}
			p.Pix[i] = pix
			i++
		}
	}
	return p
}

// Cells packs the pixmap into character cells for the full canvas,
// pairing two pixel rows per cell. Pixels outside the centered block
// and the unpaired trailing row of an odd-height block show fill.
func (p *Pixmap) Cells(fill colormap.RGB) [][]Cell {
	out := make([][]Cell, p.CellH)
	for cy := range out {
		row := make([]Cell, p.CellW)
		for cx := range row {
			cell := Cell{Fg: fill, Bg: fill}
			top, topOK := p.pixelAt(2*cy, cx)
			bot, botOK := p.pixelAt(2*cy+1, cx)
			if topOK {
				cell.TopData = true
				cell.TopValid = top.Valid
				if top.Valid {
					cell.Fg = top.Color
				}
			}
			if botOK {
				cell.BotData = true
				cell.BotValid = bot.Valid
				if bot.Valid {
					cell.Bg = bot.Color
				}
			}
			row[cx] = cell
		}
		out[cy] = row
	}
	return out
}

// pixelAt looks up the displayed pixel covering canvas pixel
// coordinates (y, x), accounting for the centering offsets.
func (p *Pixmap) pixelAt(y, x int) (Pixel, bool) {
	py := y - p.OffY
	px := x - p.OffX
	if py < 0 || py >= p.Rows || px < 0 || px >= p.Cols {
		return Pixel{}, false
	}
	return p.At(py, px), true
}

// CursorPixel maps a source (row, col) position to its nearest
// displayed pixel.
func (p *Pixmap) CursorPixel(srcRow, srcCol int) (py, px int, ok bool) {
	if p.Rows == 0 || p.Cols == 0 || p.SrcRows == 0 || p.SrcCols == 0 {
		return 0, 0, false
	}
	py = srcRow * p.Rows / p.SrcRows
	px = srcCol * p.Cols / p.SrcCols
	if py >= p.Rows {
		py = p.Rows - 1
	}
	if px >= p.Cols {
		px = p.Cols - 1
	}
	if py < 0 {
		py = 0
	}
	if px < 0 {
		px = 0
	}
	return py, px, true
}

// CursorCell maps a source (row, col) position to the canvas cell that
// shows it, for crosshair overlay after the raster is drawn.
func (p *Pixmap) CursorCell(srcRow, srcCol int) (cx, cy int, ok bool) {
	py, px, ok := p.CursorPixel(srcRow, srcCol)
	if !ok {
		return 0, 0, false
	}
	return px + p.OffX, (py + p.OffY) / 2, true
}
