package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// dimLister is implemented by the CDF and HDF5 groups of
// go-native-netcdf, but is not part of api.Group. When available it
// supplies dimension lengths for tree display and shape checks.
type dimLister interface {
	ListDimensions() []string
	GetDimension(name string) (uint64, bool)
}

type ncStore struct {
	group api.Group
	root  *Node
}

func openNetCDF(path string) (Store, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	st := &ncStore{group: g}
	st.root = NewNode(filepath.Base(path), "/", KindRoot)
	buildGroupNode(g, st.root, "")
	return st, nil
}

// buildGroupNode fills node with the attributes, dimensions, variables
// and subgroups of g. prefix is the node-path prefix without trailing
// slash ("" for the root).
func buildGroupNode(g api.Group, node *Node, prefix string) {
	for _, key := range g.Attributes().Keys() {
		if val, has := g.Attributes().Get(key); has {
			node.Attrs[key] = attrString(val)
		}
	}

	if dl, ok := g.(dimLister); ok {
		dims := dl.ListDimensions()
		if len(dims) > 0 {
			dimsNode := NewNode("Dimensions", prefix+"/dimensions", KindGroup)
			for _, name := range dims {
				length, _ := dl.GetDimension(name)
				dn := NewNode(fmt.Sprintf("%s (%d)", name, length),
					prefix+"/dimensions/"+name, KindDimension)
				dn.Attrs["length"] = fmt.Sprintf("%d", length)
				dimsNode.AddChild(dn)
			}
			node.AddChild(dimsNode)
		}
	}

	for _, name := range g.ListVariables() {
		vn := NewNode(name, prefix+"/"+name, KindVariable)
		if vg, err := g.GetVarGetter(name); err == nil {
			vn.DimNames = vg.Dimensions()
			vn.DType = vg.GoType()
			vn.Shape = shapeFromDims(g, vg.Dimensions())
			for _, key := range vg.Attributes().Keys() {
				if val, has := vg.Attributes().Get(key); has {
					vn.Attrs[key] = attrString(val)
				}
			}
		}
		node.AddChild(vn)
	}

	for _, name := range g.ListSubgroups() {
		sub, err := g.GetGroup(name)
		if err != nil {
			continue
		}
		gn := NewNode(name, prefix+"/"+name, KindGroup)
		buildGroupNode(sub, gn, prefix+"/"+name)
		node.AddChild(gn)
		sub.Close()
	}
}

// shapeFromDims resolves dimension lengths when the group exposes them,
// or nil so the loader infers the shape from the data itself.
func shapeFromDims(g api.Group, dimNames []string) []int {
	dl, ok := g.(dimLister)
	if !ok {
		return nil
	}
	shape := make([]int, len(dimNames))
	for i, name := range dimNames {
		length, has := dl.GetDimension(name)
		if !has {
			return nil
		}
		shape[i] = int(length)
	}
	return shape
}

func (st *ncStore) Root() *Node { return st.root }

func (st *ncStore) Open(ctx context.Context, path string) (*RawVariable, error) {
	_ = ctx // The underlying reader is a local, synchronous file.

	clean := strings.Trim(path, "/")
	if clean == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	segs := strings.Split(clean, "/")
	name := segs[len(segs)-1]

	g, closeGroups, err := st.descend(segs[:len(segs)-1])
	if err != nil {
		return nil, err
	}
	defer closeGroups()

	found := false
	for _, vn := range g.ListVariables() {
		if vn == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: variable %q: %v", ErrRead, path, err)
	}

	attrs := make(map[string]string)
	for _, key := range v.Attributes.Keys() {
		if val, has := v.Attributes.Get(key); has {
			attrs[key] = attrString(val)
		}
	}

	dtype := ""
	if vg, err := g.GetVarGetter(name); err == nil {
		dtype = vg.GoType()
	}

	return &RawVariable{
		Name:     name,
		Path:     path,
		Shape:    shapeFromDims(g, v.Dimensions), // nil is fine; inferred later
		DimNames: v.Dimensions,
		Attrs:    attrs,
		DType:    dtype,
		Values:   v.Values,
	}, nil
}

// descend walks group segments from the root, returning the innermost
// group and a function closing every intermediate handle.
func (st *ncStore) descend(groups []string) (api.Group, func(), error) {
	g := st.group
	var opened []api.Group
	closeAll := func() {
		for i := len(opened) - 1; i >= 0; i-- {
			opened[i].Close()
		}
	}
	for _, seg := range groups {
		sub, err := g.GetGroup(seg)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("%w: group %q", ErrNotFound, seg)
		}
		opened = append(opened, sub)
		g = sub
	}
	return g, closeAll, nil
}

func (st *ncStore) Close() error {
	st.group.Close()
	return nil
}

// attrString renders an attribute value for display. Single-element
// slices collapse to their scalar so numeric attributes like
// scale_factor stay parseable.
func attrString(val interface{}) string {
	if s, ok := val.(string); ok {
		return s
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 1 {
			return fmt.Sprintf("%v", rv.Index(0).Interface())
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, fmt.Sprintf("%v", rv.Index(i).Interface()))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", val)
}
