package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/ncarray"
	"github.com/ncplore/ncplore/internal/raster"
	"github.com/ncplore/ncplore/internal/viewer"
)

const heatmapLabelW = 9

// renderHeatmap draws the half-block raster with Y labels on the left,
// X labels underneath, a colorbar legend and the cursor readout.
func renderHeatmap(s *viewer.State, w, h int) string {
	grid := s.ProjectGrid()
	cellW := w - heatmapLabelW - 1
	cellH := h - 3
	if cellW < 4 || cellH < 2 {
		return dimStyle.Render("window too small")
	}

	min, max, ok := grid.MinMax()
	if !ok {
		return dimStyle.Render("all values missing")
	}
	span := colormap.SafeRange(min, max)
	pal := s.Palette()
	pm := raster.Render(grid, func(v float64) colormap.RGB {
		return pal.Color((v - min) / span)
	}, cellW, cellH)

	cells := pm.Cells(neutralFill)

	lines := make([][]string, len(cells))
	for cy, row := range cells {
		out := make([]string, len(row))
		for cx, c := range row {
			out[cx] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.Fg.Hex())).
				Background(lipgloss.Color(c.Bg.Hex())).
				Render("▀")
		}
		lines[cy] = out
	}

	curRow, curCol := s.Cursor()
	if cx, cy, ok := pm.CursorCell(curRow, curCol); ok && cy < len(lines) && cx < len(lines[cy]) {
		bg := cells[cy][cx].Bg
		lines[cy][cx] = crosshairStyle.Copy().
			Background(lipgloss.Color(bg.Hex())).
			Render("┼")
	}

	var b strings.Builder
	yLabels := axisLabels(s, s.RowDim(), pm.SrcRows, pm.Rows, pm.OffY, 2, cellH)
	for cy := range lines {
		b.WriteString(headerCellStyle.Render(pad(yLabels[cy], heatmapLabelW)))
		b.WriteByte(' ')
		b.WriteString(strings.Join(lines[cy], ""))
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", heatmapLabelW+1))
	b.WriteString(headerCellStyle.Render(xAxisLine(s, pm, cellW)))
	b.WriteByte('\n')
	b.WriteString(legendLine(s, min, max, w))
	b.WriteByte('\n')
	b.WriteString(cursorReadout(s, grid, w))
	return b.String()
}

// axisLabels produces one label per canvas cell row, populated at the
// top, middle and bottom of the displayed block.
func axisLabels(s *viewer.State, dim, srcExtent, dispPix, offPix, pixPerCell, cellRows int) []string {
	labels := make([]string, cellRows)
	if srcExtent == 0 || dispPix == 0 {
		return labels
	}
	mark := func(py, src int) {
		cy := (py + offPix) / pixPerCell
		if cy >= 0 && cy < cellRows {
			labels[cy] = coordAxisLabel(s, dim, src)
		}
	}
	mark(0, 0)
	mark(dispPix/2, (srcExtent-1)/2)
	mark(dispPix-1, srcExtent-1)
	return labels
}

// xAxisLine renders first, middle and last column labels under the
// displayed block.
func xAxisLine(s *viewer.State, pm *raster.Pixmap, cellW int) string {
	if pm.SrcCols == 0 || pm.Cols == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", cellW))
	place := func(px, src int) {
		label := []rune(coordAxisLabel(s, s.ColDim(), src))
		start := px + pm.OffX
		if start+len(label) > cellW {
			start = cellW - len(label)
		}
		if start < 0 {
			start = 0
		}
		copy(line[start:], label)
	}
	place(0, 0)
	place(pm.Cols/2, (pm.SrcCols-1)/2)
	place(pm.Cols-1, pm.SrcCols-1)
	return string(line)
}

// coordAxisLabel formats one axis tick.
func coordAxisLabel(s *viewer.State, dim, index int) string {
	if val, ok := s.Variable().CoordValue(dim, index); ok {
		return formatAxis(val)
	}
	return fmt.Sprintf("%d", index)
}

const legendBarW = 24

// legendLine renders the colorbar with the displayed range's bounds.
func legendLine(s *viewer.State, min, max float64, w int) string {
	pal := s.Palette()
	var bar strings.Builder
	for i := 0; i < legendBarW; i++ {
		c := pal.Color(float64(i) / float64(legendBarW-1))
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
	}
	line := fmt.Sprintf("%s %s %s  %s",
		labelStyle.Render(formatStat(min)),
		bar.String(),
		labelStyle.Render(formatStat(max)),
		statusStyle.Render(pal.Name()))
	return clipLine(line, w)
}

// cursorReadout renders the crosshair position and value.
func cursorReadout(s *viewer.State, grid *ncarray.Grid, w int) string {
	curRow, curCol := s.Cursor()
	parts := []string{
		fmt.Sprintf("%s=%s", dimName(s, s.RowDim()), s.Variable().CoordLabel(s.RowDim(), curRow)),
		fmt.Sprintf("%s=%s", dimName(s, s.ColDim()), s.Variable().CoordLabel(s.ColDim(), curCol)),
		"value " + labelStyle.Render(formatStat(grid.At(curRow, curCol))),
	}
	return clipLine(strings.Join(parts, "  "), w)
}
