package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/ncplore/ncplore/internal/viewer"
)

// renderPlot draws the 1D line chart for the plotted dimension, with a
// cursor readout line underneath.
func renderPlot(s *viewer.State, w, h int) string {
	series := s.ProjectPlot()
	if len(series) == 0 {
		return dimStyle.Render("no data")
	}

	plotH := h - 2
	if plotH < 3 {
		plotH = 3
	}
	plotW := w - 12
	if plotW < 10 {
		plotW = 10
	}

	data, gaps := fillGaps(series)
	var graph string
	if gaps == len(series) {
		graph = dimStyle.Render("all values missing")
	} else {
		graph = asciigraph.Plot(data,
			asciigraph.Height(plotH),
			asciigraph.Width(plotW),
			asciigraph.Precision(3))
	}

	var b strings.Builder
	b.WriteString(graph)
	b.WriteByte('\n')
	b.WriteString(plotReadout(s, series, gaps, w))
	return b.String()
}

// fillGaps replaces non-finite samples with the previous finite value
// so the chart stays unbroken, counting how many were patched.
func fillGaps(series []float64) ([]float64, int) {
	out := make([]float64, len(series))
	last := math.NaN()
	gaps := 0
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			gaps++
			if math.IsNaN(last) {
				out[i] = 0
			} else {
				out[i] = last
			}
			continue
		}
		// Backfill the leading gap run with the first finite value.
		if math.IsNaN(last) {
			for j := 0; j < i; j++ {
				out[j] = v
			}
		}
		out[i] = v
		last = v
	}
	return out, gaps
}

// plotReadout renders the cursor position line under the chart.
func plotReadout(s *viewer.State, series []float64, gaps int, w int) string {
	v := s.Variable()
	dim := s.PlotDim()
	cur := s.PlotCursor()
	if cur < 0 || cur >= len(series) {
		cur = 0
	}
	parts := []string{
		fmt.Sprintf("%s %s=%s", dimName(s, dim), statusStyle.Render("@"), v.CoordLabel(dim, cur)),
		fmt.Sprintf("[%d/%d]", cur+1, len(series)),
		"value " + labelStyle.Render(formatStat(series[cur])),
	}
	if gaps > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%s missing", formatCount(gaps))))
	}
	return clipLine(strings.Join(parts, "  "), w)
}
