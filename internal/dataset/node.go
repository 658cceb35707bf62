package dataset

import (
	"fmt"
	"strings"
)

// NodeKind classifies entries in the dataset tree.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindGroup
	KindVariable
	KindDimension
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindGroup:
		return "group"
	case KindVariable:
		return "variable"
	case KindDimension:
		return "dimension"
	}
	return "unknown"
}

// Node is one entry in the dataset tree. The tree is built once when a
// store is opened and is immutable afterwards; paths are unique keys
// within one tree.
type Node struct {
	Name     string
	Path     string
	Kind     NodeKind
	Attrs    map[string]string
	Children []*Node

	// Set for variables only. Shape may be nil when the container does
	// not expose dimension lengths without reading data.
	Shape    []int
	DimNames []string
	DType    string
}

// NewNode returns a node with an empty attribute map.
func NewNode(name, path string, kind NodeKind) *Node {
	return &Node{
		Name:  name,
		Path:  path,
		Kind:  kind,
		Attrs: make(map[string]string),
	}
}

// IsVariable reports whether the node can be opened in the data viewer.
func (n *Node) IsVariable() bool { return n.Kind == KindVariable }

// IsGroup reports whether the node can be expanded.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup || n.Kind == KindRoot }

// AddChild appends a child node.
func (n *Node) AddChild(c *Node) { n.Children = append(n.Children, c) }

// Find walks the tree looking for the node with the given path.
func (n *Node) Find(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// DisplayName renders the node for the tree explorer.
func (n *Node) DisplayName() string {
	switch n.Kind {
	case KindVariable:
		if n.Shape != nil {
			return fmt.Sprintf("%s %v %s", n.Name, n.Shape, n.DType)
		}
		if len(n.DimNames) > 0 {
			return fmt.Sprintf("%s (%s) %s", n.Name, strings.Join(n.DimNames, ", "), n.DType)
		}
		return fmt.Sprintf("%s %s", n.Name, n.DType)
	case KindGroup, KindRoot:
		return fmt.Sprintf("%s (%d)", n.Name, len(n.Children))
	default:
		return n.Name
	}
}

// MatchesSearch reports whether the query matches the node's name, path
// or any attribute key/value, case-insensitively.
func (n *Node) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(n.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Path), q) {
		return true
	}
	for k, v := range n.Attrs {
		if strings.Contains(strings.ToLower(k), q) || strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
