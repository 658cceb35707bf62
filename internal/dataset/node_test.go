package dataset

import "testing"

func buildTree() *Node {
	root := NewNode("sample.nc", "/", KindRoot)
	g := NewNode("obs", "/obs", KindGroup)
	v := NewNode("t2m", "/obs/t2m", KindVariable)
	v.Shape = []int{2, 3}
	v.DType = "float32"
	v.Attrs["long_name"] = "2 metre temperature"
	g.AddChild(v)
	root.AddChild(g)
	return root
}

func TestNodeFind(t *testing.T) {
	root := buildTree()
	if n := root.Find("/obs/t2m"); n == nil || n.Name != "t2m" {
		t.Fatalf("Find(/obs/t2m) = %v", n)
	}
	if n := root.Find("/nope"); n != nil {
		t.Fatalf("Find(/nope) = %v, want nil", n)
	}
}

func TestNodeMatchesSearch(t *testing.T) {
	v := buildTree().Find("/obs/t2m")
	tests := []struct {
		query string
		want  bool
	}{
		{"t2m", true},
		{"T2M", true},
		{"obs", true},               // matches the path
		{"METRE TEMPERATURE", true}, // matches an attribute value
		{"humidity", false},
	}
	for _, tt := range tests {
		if got := v.MatchesSearch(tt.query); got != tt.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestNodeDisplayName(t *testing.T) {
	v := buildTree().Find("/obs/t2m")
	if got, want := v.DisplayName(), "t2m [2 3] float32"; got != want {
		t.Fatalf("DisplayName() = %q, want %q", got, want)
	}
}
