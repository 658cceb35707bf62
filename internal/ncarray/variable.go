// Package ncarray holds the in-memory model for one opened variable:
// the widened element buffer, its statistics, per-dimension coordinate
// values, and the 1D/2D projections the views consume.
package ncarray

import (
	"fmt"
	"math"
	"strings"
)

// Coord is a coordinate variable matched to one dimension (CF
// convention: a 1D variable sharing the dimension's name).
type Coord struct {
	Values   []float64
	Units    string
	LongName string
}

// FormatValue renders the coordinate at index with magnitude-aware
// precision.
func (c *Coord) FormatValue(index int) string {
	if index < 0 || index >= len(c.Values) {
		return "?"
	}
	return formatCoord(c.Values[index])
}

// AxisLabel renders the coordinate at index plus an abbreviated unit
// suffix for common geographic units.
func (c *Coord) AxisLabel(index int) string {
	val := c.FormatValue(index)
	suffix := ""
	switch {
	case strings.Contains(c.Units, "degree_north"), strings.Contains(c.Units, "degrees_north"):
		suffix = "°N"
	case strings.Contains(c.Units, "degree_south"), strings.Contains(c.Units, "degrees_south"):
		suffix = "°S"
	case strings.Contains(c.Units, "degree_east"), strings.Contains(c.Units, "degrees_east"):
		suffix = "°E"
	case strings.Contains(c.Units, "degree_west"), strings.Contains(c.Units, "degrees_west"):
		suffix = "°W"
	case strings.Contains(c.Units, "degree"):
		suffix = "°"
	}
	return val + suffix
}

func formatCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	abs := math.Abs(v)
	switch {
	case abs == 0:
		return "0"
	case abs < 0.01 || abs >= 1000:
		return fmt.Sprintf("%.2e", v)
	case abs >= 10:
		return fmt.Sprintf("%.1f", v)
	case abs >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// Variable is one loaded variable: raw (unscaled) elements widened to
// float64 in row-major order, plus everything precomputed at load time.
// It is created fresh each time a variable is opened and discarded when
// the viewing session ends.
type Variable struct {
	Name     string
	Path     string
	Shape    []int
	DimNames []string
	Attrs    map[string]string
	DType    string

	// Data is raw and unscaled; scaling happens at projection time.
	Data    []float64
	strides []int

	ScaleFactor float64
	AddOffset   float64

	// Statistics over scaled, finite elements.
	Min, Max   float64
	HasRange   bool
	Mean       float64
	HasMean    bool
	Std        float64
	HasStd     bool
	ValidCount int

	// Coords has one entry per dimension; nil where no coordinate
	// variable was found.
	Coords []*Coord
}

// NDim returns the number of dimensions.
func (v *Variable) NDim() int { return len(v.Shape) }

// TotalElements returns the element count (product of the shape).
func (v *Variable) TotalElements() int { return len(v.Data) }

// HasScaleOffset reports whether the CF scale/offset transform is
// non-trivial.
func (v *Variable) HasScaleOffset() bool {
	return math.Abs(v.ScaleFactor-1) > epsilon || math.Abs(v.AddOffset) > epsilon
}

const epsilon = 2.220446049250313e-16

// ScaleValue applies the CF transform: scaled = raw*scale_factor + add_offset.
func (v *Variable) ScaleValue(raw float64) float64 {
	return raw*v.ScaleFactor + v.AddOffset
}

// UnscaleValue inverts ScaleValue.
func (v *Variable) UnscaleValue(scaled float64) float64 {
	return (scaled - v.AddOffset) / v.ScaleFactor
}

// Coordinate returns the coordinate variable for a dimension, or nil.
func (v *Variable) Coordinate(dim int) *Coord {
	if dim < 0 || dim >= len(v.Coords) {
		return nil
	}
	return v.Coords[dim]
}

// CoordLabel renders an axis label for a dimension index: the
// coordinate value when a coordinate variable exists, the plain index
// otherwise.
func (v *Variable) CoordLabel(dim, index int) string {
	if c := v.Coordinate(dim); c != nil {
		return c.AxisLabel(index)
	}
	return fmt.Sprintf("%d", index)
}

// CoordValue returns the coordinate value for a dimension index.
func (v *Variable) CoordValue(dim, index int) (float64, bool) {
	c := v.Coordinate(dim)
	if c == nil || index < 0 || index >= len(c.Values) {
		return 0, false
	}
	return c.Values[index], true
}

// Units returns the variable's units attribute.
func (v *Variable) Units() string { return v.Attrs["units"] }

// LongName returns the variable's long_name attribute.
func (v *Variable) LongName() string { return v.Attrs["long_name"] }
