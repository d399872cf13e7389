package objtree

import (
	"objbrowse/internal/inspect"
)

// row is one visible line of the filtered view.
type row struct {
	node  *Node
	depth int
}

// Proxy is the filter/sort layer between a Provider and the view: it flattens
// the expanded part of the tree into addressable rows, hiding callable and
// special attributes according to its flags. It satisfies inspect.FilterProxy.
//
// Rows are recomputed from the provider on every access, so a provider
// refresh or a flag change is visible immediately. Expansion state is keyed
// on node paths and therefore survives refreshes.
type Proxy struct {
	provider *Provider

	showCallables bool
	showSpecials  bool

	expanded map[string]bool
}

// NewProxy wraps provider with the given initial visibility flags.
func NewProxy(provider *Provider, showCallables, showSpecials bool) *Proxy {
	return &Proxy{
		provider:      provider,
		showCallables: showCallables,
		showSpecials:  showSpecials,
		expanded:      make(map[string]bool),
	}
}

func (p *Proxy) SetShowCallables(show bool) { p.showCallables = show }

func (p *Proxy) SetShowSpecials(show bool) { p.showSpecials = show }

func (p *Proxy) visible(n *Node) bool {
	if n.callable && !p.showCallables {
		return false
	}
	if n.special && !p.showSpecials {
		return false
	}
	return true
}

func (p *Proxy) rows() []row {
	var out []row
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !p.visible(n) {
			return
		}
		out = append(out, row{node: n, depth: depth})
		if p.expanded[n.Path()] {
			for _, c := range n.Children() {
				visit(c, depth+1)
			}
		}
	}

	root := p.provider.rootNode()
	if p.provider.RootVisible() {
		visit(root, 0)
	} else if p.expanded[root.Path()] {
		for _, c := range root.Children() {
			visit(c, 0)
		}
	}
	return out
}

func (p *Proxy) RowCount() int { return len(p.rows()) }

func (p *Proxy) FirstVisibleRow() int {
	if len(p.rows()) == 0 {
		return -1
	}
	return 0
}

func (p *Proxy) NodeAt(i int) inspect.TreeNode {
	rows := p.rows()
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i].node
}

func (p *Proxy) Depth(i int) int {
	rows := p.rows()
	if i < 0 || i >= len(rows) {
		return 0
	}
	return rows[i].depth
}

func (p *Proxy) HasChildren(i int) bool {
	rows := p.rows()
	if i < 0 || i >= len(rows) {
		return false
	}
	return len(rows[i].node.Children()) > 0
}

func (p *Proxy) IsExpanded(i int) bool {
	rows := p.rows()
	if i < 0 || i >= len(rows) {
		return false
	}
	return p.expanded[rows[i].node.Path()]
}

func (p *Proxy) ToggleExpand(i int) {
	rows := p.rows()
	if i < 0 || i >= len(rows) {
		return
	}
	path := rows[i].node.Path()
	p.expanded[path] = !p.expanded[path]
}

func (p *Proxy) ExpandRoot() {
	p.expanded[p.provider.rootNode().Path()] = true
}
