package ncarray

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ncplore/ncplore/internal/dataset"
)

// Load failure taxonomy, re-exported from the dataset boundary so
// callers classify with errors.Is against one package.
var (
	ErrNotFound        = dataset.ErrNotFound
	ErrUnsupportedType = dataset.ErrUnsupportedType
	ErrCorrupt         = dataset.ErrCorrupt
	ErrRead            = dataset.ErrRead
)

// Load reads one variable from the store, widens its elements to
// float64, and computes statistics in a single pass over the scaled
// values. On failure no partially built Variable escapes.
func Load(ctx context.Context, st dataset.Store, path string) (*Variable, error) {
	v, err := load(ctx, st, path)
	if err != nil {
		return nil, err
	}
	v.Coords = resolveCoords(ctx, st, path, v.DimNames)
	return v, nil
}

func load(ctx context.Context, st dataset.Store, path string) (*Variable, error) {
	raw, err := st.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	data, inferred, err := widenValues(raw.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", path, err)
	}

	shape := raw.Shape
	if shape == nil {
		shape = inferred
	}
	total := 1
	for _, n := range shape {
		total *= n
	}
	if total != len(data) {
		return nil, fmt.Errorf("%w: variable %q declares %v (%d elements) but has %d",
			ErrCorrupt, path, shape, total, len(data))
	}

	dimNames := raw.DimNames
	if len(dimNames) != len(shape) {
		dimNames = make([]string, len(shape))
		for i := range dimNames {
			dimNames[i] = fmt.Sprintf("dim_%d", i)
		}
	}

	v := &Variable{
		Name:        raw.Name,
		Path:        path,
		Shape:       shape,
		DimNames:    dimNames,
		Attrs:       raw.Attrs,
		DType:       raw.DType,
		Data:        data,
		strides:     rowMajorStrides(shape),
		ScaleFactor: attrFloat(raw.Attrs, "scale_factor", 1),
		AddOffset:   attrFloat(raw.Attrs, "add_offset", 0),
	}

	stats := NewRunningStats()
	for _, raw := range v.Data {
		stats.Add(raw*v.ScaleFactor + v.AddOffset)
	}
	v.Min, v.Max, v.HasRange = stats.MinMax()
	v.Mean, v.HasMean = stats.Mean()
	v.Std, v.HasStd = stats.Std()
	v.ValidCount = stats.Count()
	return v, nil
}

// resolveCoords finds a same-named 1D variable for each dimension,
// searching the variable's own group and then the dataset root. A miss
// just leaves that dimension without coordinates.
func resolveCoords(ctx context.Context, st dataset.Store, varPath string, dimNames []string) []*Coord {
	group := ""
	if idx := strings.LastIndex(strings.Trim(varPath, "/"), "/"); idx >= 0 {
		group = "/" + strings.Trim(varPath, "/")[:idx]
	}

	coords := make([]*Coord, len(dimNames))
	for i, dim := range dimNames {
		if group != "" {
			if c := tryLoadCoord(ctx, st, group+"/"+dim); c != nil {
				coords[i] = c
				continue
			}
		}
		coords[i] = tryLoadCoord(ctx, st, "/"+dim)
	}
	return coords
}

func tryLoadCoord(ctx context.Context, st dataset.Store, path string) *Coord {
	v, err := load(ctx, st, path)
	if err != nil || v.NDim() != 1 {
		return nil
	}
	return &Coord{
		Values:   v.Data,
		Units:    v.Attrs["units"],
		LongName: v.Attrs["long_name"],
	}
}

// rowMajorStrides computes C-order strides for a shape.
func rowMajorStrides(shape []int) []int {
	s := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

func attrFloat(attrs map[string]string, key string, def float64) float64 {
	s, ok := attrs[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}

// widenValues converts the closed set of source element kinds into one
// float64 buffer, preserving row-major order. Values may be a numeric
// scalar, a flat typed slice, or nested slices; the inferred shape
// comes back alongside. Ragged nesting reports ErrCorrupt, non-numeric
// kinds ErrUnsupportedType.
func widenValues(values interface{}) ([]float64, []int, error) {
	if v, ok := scalarFloat(values); ok {
		return []float64{v}, []int{}, nil
	}
	if out, ok := widenFlat(values, nil); ok {
		return out, []int{len(out)}, nil
	}

	rv := reflect.ValueOf(values)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedType, values)
	}

	var shape []int
	var out []float64
	if err := flattenInto(rv, 0, &shape, &out); err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

func flattenInto(rv reflect.Value, depth int, shape *[]int, out *[]float64) error {
	if len(*shape) == depth {
		*shape = append(*shape, rv.Len())
	} else if (*shape)[depth] != rv.Len() {
		return fmt.Errorf("%w: ragged data at depth %d", ErrCorrupt, depth)
	}

	if flat, ok := widenFlat(rv.Interface(), *out); ok {
		if len(*shape) != depth+1 {
			return fmt.Errorf("%w: ragged data at depth %d", ErrCorrupt, depth)
		}
		*out = flat
		return nil
	}

	if rv.Type().Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
	for i := 0; i < rv.Len(); i++ {
		if err := flattenInto(rv.Index(i), depth+1, shape, out); err != nil {
			return err
		}
	}
	return nil
}

// widenFlat appends a flat typed slice to dst, widened to float64.
func widenFlat(values interface{}, dst []float64) ([]float64, bool) {
	switch v := values.(type) {
	case []int8:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []uint8:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []int16:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []uint16:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []int32:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []uint32:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []int64:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []uint64:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []float32:
		for _, x := range v {
			dst = append(dst, float64(x))
		}
	case []float64:
		dst = append(dst, v...)
	default:
		return nil, false
	}
	return dst, true
}

func scalarFloat(values interface{}) (float64, bool) {
	switch v := values.(type) {
	case int8:
		return float64(v), true
	case uint8:
		return float64(v), true
	case int16:
		return float64(v), true
	case uint16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
