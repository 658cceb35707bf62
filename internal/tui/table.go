package tui

import (
	"math"
	"strings"

	"github.com/ncplore/ncplore/internal/viewer"
)

const (
	tableCellW  = 12
	tableLabelW = 10
)

// renderTable draws the scrollable value grid. Rank >= 2 shows the
// display pair, rank 1 a single column, rank 0 the lone value.
func renderTable(s *viewer.State, w, h int) string {
	v := s.Variable()
	if v.NDim() == 0 {
		val := v.Data[0]
		if s.ApplyScale() {
			val = v.ScaleValue(val)
		}
		return labelStyle.Render(formatStat(val))
	}

	rows, cols := s.ViewExtents()
	at := tableValues(s)

	visRows := h - 1
	if visRows < 1 {
		visRows = 1
	}
	visCols := (w - tableLabelW) / (tableCellW + 1)
	if visCols < 1 {
		visCols = 1
	}
	if visRows > rows {
		visRows = rows
	}
	if visCols > cols {
		visCols = cols
	}

	curRow, curCol := s.Cursor()
	offRow, offCol := s.Scroll()
	newRow := followCursor(offRow, curRow, visRows, rows)
	newCol := followCursor(offCol, curCol, visCols, cols)
	s.ScrollBy(newRow-offRow, newCol-offCol)
	offRow, offCol = newRow, newCol

	var b strings.Builder

	// Column header: coordinate labels along the X dimension.
	b.WriteString(strings.Repeat(" ", tableLabelW))
	for c := offCol; c < offCol+visCols; c++ {
		label := pad(colLabel(s, c), tableCellW)
		if c == curCol {
			label = crosshairStyle.Render(label)
		} else {
			label = headerCellStyle.Render(label)
		}
		b.WriteByte(' ')
		b.WriteString(label)
	}
	b.WriteByte('\n')

	for r := offRow; r < offRow+visRows; r++ {
		label := pad(rowLabel(s, r), tableLabelW)
		if r == curRow {
			label = crosshairStyle.Render(label)
		} else {
			label = headerCellStyle.Render(label)
		}
		b.WriteString(label)
		for c := offCol; c < offCol+visCols; c++ {
			cell := pad(formatStat(at(r, c)), tableCellW)
			switch {
			case r == curRow && c == curCol:
				cell = selectedStyle.Render(cell)
			case math.IsNaN(at(r, c)):
				cell = dimStyle.Render(cell)
			}
			b.WriteByte(' ')
			b.WriteString(cell)
		}
		if r < offRow+visRows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// tableValues returns a (row, col) accessor for the current
// presentation.
func tableValues(s *viewer.State) func(r, c int) float64 {
	v := s.Variable()
	if v.NDim() == 1 {
		series := s.ProjectPlot()
		return func(r, c int) float64 {
			if r < 0 || r >= len(series) {
				return math.NaN()
			}
			return series[r]
		}
	}
	grid := s.ProjectGrid()
	return grid.At
}

// colLabel names a table column by coordinate or index.
func colLabel(s *viewer.State, c int) string {
	v := s.Variable()
	if v.NDim() == 1 {
		return v.Name
	}
	return v.CoordLabel(s.ColDim(), c)
}

// rowLabel names a table row by coordinate or index.
func rowLabel(s *viewer.State, r int) string {
	v := s.Variable()
	if v.NDim() == 1 {
		return v.CoordLabel(0, r)
	}
	return v.CoordLabel(s.RowDim(), r)
}

// followCursor shifts a scroll offset so the cursor stays in view.
func followCursor(off, cur, window, extent int) int {
	if cur < off {
		off = cur
	}
	if cur >= off+window {
		off = cur - window + 1
	}
	if off > extent-window {
		off = extent - window
	}
	if off < 0 {
		off = 0
	}
	return off
}

// pad right-aligns a value into a fixed-width column.
func pad(s string, w int) string {
	s = truncate(s, w)
	if n := w - len([]rune(s)); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
