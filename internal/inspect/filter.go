package inspect

// FilterController forwards visibility-flag changes to the filter/sort proxy
// and maps view rows back to nodes. It keeps the session decoupled from the
// proxy's concrete type.
type FilterController struct {
	proxy FilterProxy
}

// NewFilterController wires a controller to its proxy.
func NewFilterController(proxy FilterProxy) *FilterController {
	return &FilterController{proxy: proxy}
}

// SetShowCallables shows or hides callable attributes. The proxy's visible
// row set is recomputed before this returns.
func (c *FilterController) SetShowCallables(show bool) {
	c.proxy.SetShowCallables(show)
}

// SetShowSpecials shows or hides special attributes.
func (c *FilterController) SetShowSpecials(show bool) {
	c.proxy.SetShowSpecials(show)
}

// ResolveNode maps a view-relative row to the underlying tree node.
func (c *FilterController) ResolveNode(row int) TreeNode {
	return c.proxy.NodeAt(row)
}
