package objtree

import (
	"reflect"

	"objbrowse/internal/inspect"
)

// Provider is a reflection-backed tree provider for an arbitrary Go value.
// It satisfies inspect.TreeProvider.
type Provider struct {
	root        *Node
	rootVisible bool
}

// NewProvider builds a provider for obj, labelled name in the root node.
func NewProvider(obj any, name string) *Provider {
	if name == "" {
		name = "object"
	}
	return &Provider{
		root:        &Node{name: name, value: reflect.ValueOf(obj), kind: "root"},
		rootVisible: true,
	}
}

// SetRootVisible controls whether the inspected node itself appears as a row
// or only its attributes do.
func (p *Provider) SetRootVisible(visible bool) { p.rootVisible = visible }

// Refresh drops every cached child so the next read reflects the live
// object. The root node keeps its identity; expansion state keyed on paths
// survives.
func (p *Provider) Refresh() {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.built {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
		n.invalidate()
	}
	walk(p.root)
}

func (p *Provider) Root() inspect.TreeNode { return p.root }

func (p *Provider) RootVisible() bool { return p.rootVisible }

// rootNode gives the proxy package-internal access to the concrete root.
func (p *Provider) rootNode() *Node { return p.root }
