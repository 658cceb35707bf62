// Package dataset reads hierarchical array containers (NetCDF, Zarr)
// into a node tree and raw element streams. Everything above this
// boundary is format-agnostic.
package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// RawVariable is one variable's payload as delivered by a container
// backend: metadata plus the untyped element stream. Values holds a
// flat typed slice ([]float32, []int16, ...) or, for the NetCDF
// backend, nested slices ([][]float32, ...); the loader widens either
// form into its float64 buffer.
type RawVariable struct {
	Name     string
	Path     string
	Shape    []int // nil when only the nesting of Values knows the shape
	DimNames []string
	Attrs    map[string]string
	DType    string
	Values   interface{}
}

// Store is the dataset-I/O boundary. A store owns one open container;
// the node tree is built once at open time.
type Store interface {
	// Root returns the immutable dataset tree.
	Root() *Node
	// Open reads one variable's metadata and elements by node path.
	Open(ctx context.Context, path string) (*RawVariable, error)
	Close() error
}

// OpenStore opens a container by path, dispatching on its form: local
// directories and blob URLs are treated as Zarr, anything else as
// NetCDF.
func OpenStore(ctx context.Context, path string) (Store, error) {
	if strings.Contains(path, "://") {
		return openZarr(ctx, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return openZarr(ctx, "file://"+path)
	}
	return openNetCDF(path)
}
