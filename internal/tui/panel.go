package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ncplore/ncplore/internal/viewer"
)

// clipLine truncates a possibly styled line to a column width without
// cutting through escape sequences.
func clipLine(s string, w int) string {
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}

// panelHeader renders the variable identity line shown above every
// view mode.
func panelHeader(s *viewer.State, w int) string {
	v := s.Variable()
	name := v.Name
	if ln := v.LongName(); ln != "" {
		name += "  " + dimStyle.Render(truncate(ln, 40))
	}
	parts := []string{titleStyle.Render(name)}
	if u := v.Units(); u != "" {
		parts = append(parts, unitStyle.Render("["+u+"]"))
	}
	parts = append(parts, statusStyle.Render(s.Mode().Name()))
	if s.Mode() == viewer.ModeHeatmap {
		parts = append(parts, statusStyle.Render(s.Palette().Name()))
	}
	if v.HasScaleOffset() {
		if s.ApplyScale() {
			parts = append(parts, labelStyle.Render("scaled"))
		} else {
			parts = append(parts, dimStyle.Render("raw"))
		}
	}
	return clipLine(strings.Join(parts, " "), w)
}

// panelDims renders the dimension selector line: every dimension with
// its slice position, display dims bracketed by axis, the active
// selector highlighted.
func panelDims(s *viewer.State, w int) string {
	v := s.Variable()
	if v.NDim() == 0 {
		return dimStyle.Render("scalar")
	}
	active, hasActive := s.ActiveDim()
	segs := make([]string, 0, v.NDim())
	for d := 0; d < v.NDim(); d++ {
		name := dimName(s, d)
		var seg string
		switch {
		case s.Mode() != viewer.ModePlot1D && v.NDim() >= 2 && d == s.RowDim():
			seg = fmt.Sprintf("%s[Y]", name)
		case s.Mode() != viewer.ModePlot1D && v.NDim() >= 2 && d == s.ColDim():
			seg = fmt.Sprintf("%s[X]", name)
		case s.Mode() == viewer.ModePlot1D && d == s.PlotDim():
			seg = fmt.Sprintf("%s[plot]", name)
		default:
			seg = fmt.Sprintf("%s=%s/%d", name, v.CoordLabel(d, s.SliceIndex(d)), v.Shape[d])
		}
		if hasActive && d == active {
			seg = activeDimStyle.Render(seg)
		} else {
			seg = statusStyle.Render(seg)
		}
		segs = append(segs, seg)
	}
	return clipLine(strings.Join(segs, "  "), w)
}

// panelStats renders the precomputed statistics footer.
func panelStats(s *viewer.State, w int) string {
	v := s.Variable()
	parts := make([]string, 0, 5)
	if v.HasRange {
		parts = append(parts,
			"min "+labelStyle.Render(formatStat(displayValue(s, v.Min))),
			"max "+labelStyle.Render(formatStat(displayValue(s, v.Max))))
	}
	if v.HasMean {
		parts = append(parts, "mean "+labelStyle.Render(formatStat(displayValue(s, v.Mean))))
	}
	if v.HasStd {
		parts = append(parts, "std "+labelStyle.Render(formatStat(v.Std*scaleSpan(s))))
	}
	parts = append(parts,
		statusStyle.Render(fmt.Sprintf("valid %s/%s", formatCount(v.ValidCount), formatCount(v.TotalElements()))))
	return clipLine(strings.Join(parts, "  "), w)
}

// displayValue maps a scaled statistic back to the raw domain when the
// user toggled scaling off.
func displayValue(s *viewer.State, scaled float64) float64 {
	if s.ApplyScale() || !s.Variable().HasScaleOffset() {
		return scaled
	}
	return s.Variable().UnscaleValue(scaled)
}

// scaleSpan is the factor between scaled and displayed spreads. A
// spread stays non-negative, so the sign of scale_factor drops out.
func scaleSpan(s *viewer.State) float64 {
	v := s.Variable()
	if s.ApplyScale() || !v.HasScaleOffset() || v.ScaleFactor == 0 {
		return 1
	}
	return 1 / math.Abs(v.ScaleFactor)
}

// dimName returns the display name of a dimension.
func dimName(s *viewer.State, d int) string {
	v := s.Variable()
	if d >= 0 && d < len(v.DimNames) && v.DimNames[d] != "" {
		return v.DimNames[d]
	}
	return fmt.Sprintf("dim%d", d)
}
