package dataset

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// compressorConfig is the Zarr V2 compressor metadata.
type compressorConfig struct {
	ID      string `json:"id"`
	Cname   string `json:"cname,omitempty"`
	Clevel  int    `json:"clevel,omitempty"`
	Shuffle int    `json:"shuffle,omitempty"`
}

// zarrMeta is the .zarray metadata.
type zarrMeta struct {
	ZarrFormat int               `json:"zarr_format"`
	Shape      []int             `json:"shape"`
	Chunks     []int             `json:"chunks"`
	DType      string            `json:"dtype"`
	Compressor *compressorConfig `json:"compressor"`
	FillValue  interface{}       `json:"fill_value"`
	Order      string            `json:"order"`
}

type zarrArray struct {
	prefix string // key prefix inside the bucket, "" or "name/"
	meta   *zarrMeta
	attrs  map[string]string
	dims   []string
}

type zarrStore struct {
	bucket *blob.Bucket
	root   *Node
	arrays map[string]*zarrArray // node path -> array
}

func openZarr(ctx context.Context, url string) (Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}

	st := &zarrStore{
		bucket: bucket,
		arrays: make(map[string]*zarrArray),
	}
	name := path.Base(strings.TrimSuffix(strings.TrimPrefix(url, "file://"), "/"))
	st.root = NewNode(name, "/", KindRoot)

	if ok, _ := bucket.Exists(ctx, ".zarray"); ok {
		// A bare array: expose it as a single variable named after the
		// store itself.
		if err := st.addArray(ctx, "/"+name, ""); err != nil {
			bucket.Close()
			return nil, err
		}
		return st, nil
	}

	// A group: every child prefix holding a .zarray becomes a variable.
	for k, v := range loadZattrs(ctx, bucket, ".zattrs") {
		st.root.Attrs[k] = v
	}
	iter := bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			bucket.Close()
			return nil, fmt.Errorf("failed to list bucket: %w", err)
		}
		if !obj.IsDir {
			continue
		}
		child := strings.TrimSuffix(obj.Key, "/")
		if ok, _ := bucket.Exists(ctx, child+"/.zarray"); ok {
			if err := st.addArray(ctx, "/"+child, child+"/"); err != nil {
				bucket.Close()
				return nil, err
			}
		}
	}
	return st, nil
}

// addArray reads one array's metadata and registers its tree node.
func (st *zarrStore) addArray(ctx context.Context, nodePath, prefix string) error {
	meta, err := st.loadMeta(ctx, prefix+".zarray")
	if err != nil {
		return err
	}
	attrs := loadZattrs(ctx, st.bucket, prefix+".zattrs")

	arr := &zarrArray{prefix: prefix, meta: meta, attrs: attrs}
	arr.dims = dimNamesFor(attrs, len(meta.Shape))

	name := path.Base(nodePath)
	vn := NewNode(name, nodePath, KindVariable)
	vn.Shape = meta.Shape
	vn.DimNames = arr.dims
	vn.DType, _, _ = parseDType(meta.DType)
	for k, v := range attrs {
		vn.Attrs[k] = v
	}
	st.root.AddChild(vn)
	st.arrays[nodePath] = arr
	return nil
}

func (st *zarrStore) loadMeta(ctx context.Context, key string) (*zarrMeta, error) {
	r, err := st.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer r.Close()

	var meta zarrMeta
	if err := json.NewDecoder(r).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.ZarrFormat != 2 {
		return nil, fmt.Errorf("unsupported zarr_format: %d, expected 2", meta.ZarrFormat)
	}
	if meta.Order != "" && meta.Order != "C" {
		return nil, fmt.Errorf("unsupported chunk order: %s", meta.Order)
	}
	return &meta, nil
}

// loadZattrs reads a .zattrs document, returning an empty map when the
// key is absent or malformed. Attributes are best-effort metadata.
func loadZattrs(ctx context.Context, bucket *blob.Bucket, key string) map[string]string {
	attrs := make(map[string]string)
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return attrs
	}
	defer r.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return attrs
	}
	for k, v := range raw {
		attrs[k] = attrString(v)
	}
	return attrs
}

// dimNamesFor applies the xarray _ARRAY_DIMENSIONS convention, falling
// back to synthetic names.
func dimNamesFor(attrs map[string]string, ndim int) []string {
	dims := make([]string, ndim)
	if listed, ok := attrs["_ARRAY_DIMENSIONS"]; ok {
		parts := strings.Split(listed, ", ")
		if len(parts) == ndim {
			copy(dims, parts)
			return dims
		}
	}
	for i := range dims {
		dims[i] = fmt.Sprintf("dim_%d", i)
	}
	return dims
}

func (st *zarrStore) Root() *Node { return st.root }

func (st *zarrStore) Open(ctx context.Context, nodePath string) (*RawVariable, error) {
	arr, ok := st.arrays[nodePath]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, nodePath)
	}
	raw, err := st.readFull(ctx, arr)
	if err != nil {
		return nil, err
	}
	values, err := decodeElements(raw, arr.meta.DType)
	if err != nil {
		return nil, err
	}
	return &RawVariable{
		Name:     path.Base(nodePath),
		Path:     nodePath,
		Shape:    arr.meta.Shape,
		DimNames: arr.dims,
		Attrs:    arr.attrs,
		DType:    arr.meta.DType,
		Values:   values,
	}, nil
}

func (st *zarrStore) Close() error { return st.bucket.Close() }

// strides computes the C-order strides for a given shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

// gridShape is the number of chunks per dimension: ceil(shape/chunks).
func gridShape(shape, chunks []int) []int {
	grid := make([]int, len(shape))
	for i := range shape {
		grid[i] = (shape[i] + chunks[i] - 1) / chunks[i]
	}
	return grid
}

// chunkKey renders chunk indices to a Zarr V2 key, "0" for 0-D arrays.
func chunkKey(indices []int) string {
	if len(indices) == 0 {
		return "0"
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// readFull assembles the whole array into a flat byte slice in row-major
// order, chunk by chunk.
func (st *zarrStore) readFull(ctx context.Context, arr *zarrArray) ([]byte, error) {
	_, itemSize, err := parseDType(arr.meta.DType)
	if err != nil {
		return nil, err
	}

	total := 1
	for _, dim := range arr.meta.Shape {
		total *= dim
	}
	buffer := make([]byte, total*itemSize)
	fillBytes(buffer, arr.meta, itemSize)

	if len(arr.meta.Shape) == 0 {
		data, found, err := st.readChunk(ctx, arr, []int{})
		if err != nil {
			return nil, err
		}
		if found && len(data) >= itemSize {
			copy(buffer, data[:itemSize])
		}
		return buffer, nil
	}

	grid := gridShape(arr.meta.Shape, arr.meta.Chunks)
	globalStrides := strides(arr.meta.Shape)

	var iterate func(dim int, coords []int) error
	iterate = func(dim int, coords []int) error {
		if dim == len(grid) {
			return st.assembleChunk(ctx, arr, coords, buffer, itemSize, globalStrides)
		}
		for i := 0; i < grid[dim]; i++ {
			coords[dim] = i
			if err := iterate(dim+1, coords); err != nil {
				return err
			}
		}
		return nil
	}
	coords := make([]int, len(grid))
	if err := iterate(0, coords); err != nil {
		return nil, err
	}
	return buffer, nil
}

// readChunk fetches and decompresses one chunk. A missing chunk is not
// an error; the global buffer keeps its fill value there.
func (st *zarrStore) readChunk(ctx context.Context, arr *zarrArray, coords []int) ([]byte, bool, error) {
	key := arr.prefix + chunkKey(coords)
	r, err := st.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: chunk %s: %v", ErrRead, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("%w: chunk %s: %v", ErrRead, key, err)
	}

	if arr.meta.Compressor != nil {
		switch arr.meta.Compressor.ID {
		case "zlib":
			zr, err := zlib.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, false, fmt.Errorf("failed to init zlib reader for chunk %s: %w", key, err)
			}
			data, err = io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return nil, false, fmt.Errorf("failed to decompress zlib chunk %s: %w", key, err)
			}
		case "gzip":
			gr, err := gzip.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, false, fmt.Errorf("failed to init gzip reader for chunk %s: %w", key, err)
			}
			data, err = io.ReadAll(gr)
			gr.Close()
			if err != nil {
				return nil, false, fmt.Errorf("failed to decompress gzip chunk %s: %w", key, err)
			}
		case "zstd":
			zr, err := zstd.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, false, fmt.Errorf("failed to init zstd reader for chunk %s: %w", key, err)
			}
			data, err = io.ReadAll(zr.IOReadCloser())
			zr.Close()
			if err != nil {
				return nil, false, fmt.Errorf("failed to decompress zstd chunk %s: %w", key, err)
			}
		default:
			return nil, false, fmt.Errorf("unsupported compressor: %s", arr.meta.Compressor.ID)
		}
	}
	return data, true, nil
}

// assembleChunk copies one chunk into its place in the global buffer,
// clipping edge chunks to the array shape. Rows of the innermost
// dimension copy contiguously.
func (st *zarrStore) assembleChunk(ctx context.Context, arr *zarrArray, chunkCoords []int, global []byte, itemSize int, globalStrides []int) error {
	data, found, err := st.readChunk(ctx, arr, chunkCoords)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	ndim := len(arr.meta.Shape)
	chunkStrides := strides(arr.meta.Chunks)
	start := make([]int, ndim)
	extent := make([]int, ndim)
	for i, coord := range chunkCoords {
		start[i] = coord * arr.meta.Chunks[i]
		end := start[i] + arr.meta.Chunks[i]
		if end > arr.meta.Shape[i] {
			end = arr.meta.Shape[i]
		}
		extent[i] = end - start[i]
	}

	// Mutate a single coordinate vector over the non-innermost
	// dimensions; rows of the last dimension copy in one go.
	last := ndim - 1
	rel := make([]int, ndim)
	for {
		srcIdx, dstIdx := 0, 0
		for i := 0; i < ndim; i++ {
			srcIdx += rel[i] * chunkStrides[i]
			dstIdx += (start[i] + rel[i]) * globalStrides[i]
		}
		n := extent[last] * itemSize
		srcOff := srcIdx * itemSize
		dstOff := dstIdx * itemSize
		if srcOff+n <= len(data) && dstOff+n <= len(global) {
			copy(global[dstOff:dstOff+n], data[srcOff:srcOff+n])
		}

		// Advance over all dimensions but the last.
		dim := last - 1
		for dim >= 0 {
			rel[dim]++
			if rel[dim] < extent[dim] {
				break
			}
			rel[dim] = 0
			dim--
		}
		if dim < 0 {
			break
		}
	}
	return nil
}

// fillBytes pre-fills the global buffer with the declared fill value.
// Only float NaN and nonzero numeric fills need work; zero is the
// buffer's natural state.
func fillBytes(buffer []byte, meta *zarrMeta, itemSize int) {
	if meta.FillValue == nil {
		return
	}
	kind, _, err := parseDType(meta.DType)
	if err != nil {
		return
	}

	var pattern []byte
	switch fv := meta.FillValue.(type) {
	case string:
		if fv == "NaN" && kind == "float32" {
			pattern = make([]byte, 4)
			binary.LittleEndian.PutUint32(pattern, math.Float32bits(float32(math.NaN())))
		} else if fv == "NaN" && kind == "float64" {
			pattern = make([]byte, 8)
			binary.LittleEndian.PutUint64(pattern, math.Float64bits(math.NaN()))
		}
	case float64:
		if fv == 0 {
			return
		}
		pattern = encodeScalar(kind, itemSize, fv)
	}
	if pattern == nil {
		return
	}
	for off := 0; off+itemSize <= len(buffer); off += itemSize {
		copy(buffer[off:off+itemSize], pattern)
	}
}

func encodeScalar(kind string, itemSize int, v float64) []byte {
	b := make([]byte, itemSize)
	switch kind {
	case "float32":
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case "float64":
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	case "int8", "uint8":
		b[0] = byte(int64(v))
	case "int16", "uint16":
		binary.LittleEndian.PutUint16(b, uint16(int64(v)))
	case "int32", "uint32":
		binary.LittleEndian.PutUint32(b, uint32(int64(v)))
	case "int64", "uint64":
		binary.LittleEndian.PutUint64(b, uint64(int64(v)))
	default:
		return nil
	}
	return b
}

// parseDType takes a numpy-style string like "<f4" or "|i1" and returns
// a Go-style name and the element byte size. Big-endian types are
// rejected.
func parseDType(s string) (string, int, error) {
	if len(s) < 3 {
		return "", 0, fmt.Errorf("invalid dtype: %s", s)
	}
	if s[0] == '>' {
		return "", 0, fmt.Errorf("big-endian types are unsupported: %s", s)
	}
	kind := s[1]
	size, err := strconv.Atoi(s[2:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid size in dtype: %s", s)
	}
	switch kind {
	case 'i':
		return fmt.Sprintf("int%d", size*8), size, nil
	case 'u':
		return fmt.Sprintf("uint%d", size*8), size, nil
	case 'f':
		return fmt.Sprintf("float%d", size*8), size, nil
	default:
		return "", 0, fmt.Errorf("%w: dtype kind %c in %s", ErrUnsupportedType, kind, s)
	}
}

// decodeElements turns the assembled little-endian byte buffer into a
// flat typed slice for the loader to widen.
func decodeElements(raw []byte, dtype string) (interface{}, error) {
	kind, itemSize, err := parseDType(dtype)
	if err != nil {
		return nil, err
	}
	n := len(raw) / itemSize

	switch kind {
	case "int8":
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out, nil
	case "uint8":
		out := make([]uint8, n)
		copy(out, raw)
		return out, nil
	case "int16":
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		return out, nil
	case "uint16":
		out := make([]uint16, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}
		return out, nil
	case "int32":
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case "uint32":
		out := make([]uint32, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		return out, nil
	case "int64":
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	case "uint64":
		out := make([]uint64, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(raw[i*8:])
		}
		return out, nil
	case "float32":
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case "float64":
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dtype)
}
