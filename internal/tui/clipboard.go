package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/ncplore/ncplore/internal/viewer"
)

// copyView copies the current presentation to the system clipboard as
// tab-separated values and describes what was copied.
func copyView(s *viewer.State) (string, error) {
	var tsv string
	var what string
	v := s.Variable()
	switch {
	case v.NDim() == 0:
		val := v.Data[0]
		if s.ApplyScale() {
			val = v.ScaleValue(val)
		}
		tsv = fmt.Sprintf("%g\n", val)
		what = "scalar value"
	case s.Mode() == viewer.ModePlot1D || v.NDim() == 1:
		series := s.ProjectPlot()
		dim := s.PlotDim()
		var b strings.Builder
		fmt.Fprintf(&b, "%s\t%s\n", dimName(s, dim), v.Name)
		for i, val := range series {
			fmt.Fprintf(&b, "%s\t%g\n", v.CoordLabel(dim, i), val)
		}
		tsv = b.String()
		what = fmt.Sprintf("%d samples", len(series))
	default:
		grid := s.ProjectGrid()
		var b strings.Builder
		b.WriteString(dimName(s, s.RowDim()) + "\\" + dimName(s, s.ColDim()))
		for c := 0; c < grid.Cols; c++ {
			b.WriteByte('\t')
			b.WriteString(v.CoordLabel(s.ColDim(), c))
		}
		b.WriteByte('\n')
		for r := 0; r < grid.Rows; r++ {
			b.WriteString(v.CoordLabel(s.RowDim(), r))
			for c := 0; c < grid.Cols; c++ {
				fmt.Fprintf(&b, "\t%g", grid.At(r, c))
			}
			b.WriteByte('\n')
		}
		tsv = b.String()
		what = fmt.Sprintf("%dx%d slice", grid.Rows, grid.Cols)
	}
	if err := clipboard.WriteAll(tsv); err != nil {
		return "", fmt.Errorf("failed to copy: %w", err)
	}
	return "copied " + what, nil
}
