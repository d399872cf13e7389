package objtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gadget struct {
	Label  string
	Count  int
	Tags   []string
	Attrs  map[string]int
	hidden string
}

func (g gadget) Describe() string { return g.Label }

func sample() gadget {
	return gadget{
		Label:  "widget",
		Count:  3,
		Tags:   []string{"a", "b"},
		Attrs:  map[string]int{"z": 26, "a": 1},
		hidden: "secret",
	}
}

func childNames(n *Node) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name())
	}
	return names
}

func TestProvider_RootNode(t *testing.T) {
	p := NewProvider(sample(), "g")
	root := p.rootNode()

	assert.Equal(t, "g", root.Name())
	assert.Equal(t, "g", root.Path())
	assert.Equal(t, "root", root.Cell(ColKind))
	assert.Equal(t, "objtree.gadget", root.Cell(ColType))
	assert.True(t, p.RootVisible())
}

func TestNode_StructChildren(t *testing.T) {
	p := NewProvider(sample(), "g")
	root := p.rootNode()

	names := childNames(root)
	assert.Equal(t, []string{"Label", "Count", "Tags", "Attrs", "hidden", "Describe"}, names)

	byName := make(map[string]*Node)
	for _, c := range root.Children() {
		byName[c.Name()] = c
	}

	assert.False(t, byName["Label"].IsSpecial())
	assert.True(t, byName["hidden"].IsSpecial(), "unexported field is a special attribute")
	assert.True(t, byName["Describe"].IsCallable(), "method is a callable attribute")
	assert.Equal(t, "string", byName["hidden"].Cell(ColType))
	assert.Equal(t, "<inaccessible>", byName["hidden"].Cell(ColValue))
	assert.Equal(t, `"widget"`, byName["Label"].Cell(ColValue))
	assert.Equal(t, "g.Label", byName["Label"].Path())
}

func TestNode_MapChildrenSorted(t *testing.T) {
	p := NewProvider(sample(), "g")
	var attrs *Node
	for _, c := range p.rootNode().Children() {
		if c.Name() == "Attrs" {
			attrs = c
		}
	}
	require.NotNil(t, attrs)

	assert.Equal(t, []string{"[a]", "[z]"}, childNames(attrs))
	assert.Equal(t, "g.Attrs[a]", attrs.Children()[0].Path())
}

func TestNode_SliceChildren(t *testing.T) {
	p := NewProvider(sample(), "g")
	var tags *Node
	for _, c := range p.rootNode().Children() {
		if c.Name() == "Tags" {
			tags = c
		}
	}
	require.NotNil(t, tags)

	assert.Equal(t, []string{"[0]", "[1]"}, childNames(tags))
	assert.Equal(t, `"a"`, tags.Children()[0].Cell(ColValue))
}

func TestNode_NilPointerHasNoChildren(t *testing.T) {
	type holder struct{ P *gadget }
	p := NewProvider(holder{}, "h")

	kids := p.rootNode().Children()
	require.Len(t, kids, 1)
	assert.Empty(t, kids[0].Children())
	assert.Equal(t, "nil", kids[0].Cell(ColValue))
}

func TestProxy_FiltersCallablesAndSpecials(t *testing.T) {
	p := NewProvider(sample(), "g")
	proxy := NewProxy(p, true, true)
	proxy.ExpandRoot()

	assert.Equal(t, 7, proxy.RowCount(), "root + 5 fields + 1 method")

	proxy.SetShowCallables(false)
	assert.Equal(t, 6, proxy.RowCount())
	for i := 0; i < proxy.RowCount(); i++ {
		assert.NotEqual(t, "Describe", proxy.NodeAt(i).Name())
	}

	proxy.SetShowSpecials(false)
	assert.Equal(t, 5, proxy.RowCount())
	for i := 0; i < proxy.RowCount(); i++ {
		assert.NotEqual(t, "hidden", proxy.NodeAt(i).Name())
	}

	proxy.SetShowCallables(true)
	proxy.SetShowSpecials(true)
	assert.Equal(t, 7, proxy.RowCount(), "re-enabling flags restores the rows")
}

func TestProxy_RowAddressingAndDepth(t *testing.T) {
	p := NewProvider(sample(), "g")
	proxy := NewProxy(p, true, true)
	proxy.ExpandRoot()

	assert.Equal(t, 0, proxy.FirstVisibleRow())
	assert.Equal(t, "g", proxy.NodeAt(0).Name())
	assert.Equal(t, 0, proxy.Depth(0))
	assert.Equal(t, "Label", proxy.NodeAt(1).Name())
	assert.Equal(t, 1, proxy.Depth(1))

	assert.Nil(t, proxy.NodeAt(-1))
	assert.Nil(t, proxy.NodeAt(99))
}

func TestProxy_ExpandCollapse(t *testing.T) {
	p := NewProvider(sample(), "g")
	proxy := NewProxy(p, true, true)
	proxy.ExpandRoot()

	// Row 3 is Tags; expanding it surfaces its elements beneath it.
	require.Equal(t, "Tags", proxy.NodeAt(3).Name())
	assert.True(t, proxy.HasChildren(3))
	assert.False(t, proxy.IsExpanded(3))

	proxy.ToggleExpand(3)
	assert.True(t, proxy.IsExpanded(3))
	assert.Equal(t, "[0]", proxy.NodeAt(4).Name())
	assert.Equal(t, 2, proxy.Depth(4))

	proxy.ToggleExpand(3)
	assert.Equal(t, "Attrs", proxy.NodeAt(4).Name())
}

func TestProxy_HiddenRoot(t *testing.T) {
	p := NewProvider(sample(), "g")
	p.SetRootVisible(false)
	proxy := NewProxy(p, true, true)

	assert.Equal(t, -1, proxy.FirstVisibleRow(), "nothing visible until the root is expanded")

	proxy.ExpandRoot()
	assert.Equal(t, 0, proxy.FirstVisibleRow())
	assert.Equal(t, "Label", proxy.NodeAt(0).Name(), "rows start at the root's attributes")
	assert.Equal(t, 0, proxy.Depth(0))
}

func TestProvider_RefreshSeesLiveMutation(t *testing.T) {
	obj := &struct{ Attrs map[string]int }{Attrs: map[string]int{"a": 1}}
	p := NewProvider(obj, "obj")
	proxy := NewProxy(p, true, true)
	proxy.ExpandRoot()

	// Expand Attrs and cache its children.
	require.Equal(t, "Attrs", proxy.NodeAt(1).Name())
	proxy.ToggleExpand(1)
	require.Equal(t, 3, proxy.RowCount())

	obj.Attrs["b"] = 2
	assert.Equal(t, 3, proxy.RowCount(), "cached children until refresh")

	p.Refresh()
	assert.Equal(t, 4, proxy.RowCount(), "refresh rebuilds in place")
	assert.True(t, proxy.IsExpanded(1), "expansion state survives refresh")
}

func TestDefaultDetails_RenderSampleNode(t *testing.T) {
	p := NewProvider(sample(), "g")
	details := DefaultDetails()
	root := p.rootNode()

	for i, d := range details {
		text, err := d.Render(root)
		require.NoError(t, err, "detail %q", details[i].Name)
		assert.NotEmpty(t, text)
	}
}

func TestDefaultDetails_MembersListsChildren(t *testing.T) {
	p := NewProvider(sample(), "g")
	details := DefaultDetails()

	var members func(n *Node) string
	for _, d := range details {
		if d.Name == "Members" {
			dd := d
			members = func(n *Node) string {
				text, err := dd.Render(n)
				require.NoError(t, err)
				return text
			}
		}
	}
	require.NotNil(t, members)

	text := members(p.rootNode())
	assert.Contains(t, text, "Label")
	assert.Contains(t, text, "Describe")
}
