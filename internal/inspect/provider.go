package inspect

// TreeNode is one attribute in the inspected object's tree.
type TreeNode interface {
	// Name is the attribute's own name.
	Name() string
	// Path is the dotted path from the inspected root.
	Path() string
	// Cell returns the node's display data for the named column.
	Cell(column string) string
	// Object returns the underlying value, for detail rendering.
	Object() any
}

// TreeProvider builds and maintains the attribute tree of one inspected
// object. How it introspects the object is its own business; the session
// only consumes this surface.
type TreeProvider interface {
	// Refresh rebuilds the tree in place from the live object.
	Refresh()
	// Root returns the root node (the inspected object itself).
	Root() TreeNode
	// RootVisible reports whether the inspected node itself appears as a
	// row in the default view, or only its attributes do.
	RootVisible() bool
}

// FilterProxy wraps a TreeProvider and exposes the filtered, sorted,
// expandable view the window actually displays, addressed by row.
type FilterProxy interface {
	// SetShowCallables / SetShowSpecials change the visibility predicates.
	// The visible row set reflects the new flag by the time the call returns.
	SetShowCallables(show bool)
	SetShowSpecials(show bool)

	// RowCount is the number of currently visible rows.
	RowCount() int
	// FirstVisibleRow returns the index of the first visible row, or -1
	// when the view is empty.
	FirstVisibleRow() int
	// NodeAt translates a view-relative row back to the provider's node,
	// accounting for filtering and sorting. Nil for out-of-range rows.
	NodeAt(row int) TreeNode

	// Depth returns the indent depth of a row.
	Depth(row int) int
	// HasChildren and IsExpanded describe a row's expansion state.
	HasChildren(row int) bool
	IsExpanded(row int) bool
	// ToggleExpand flips a row's expansion.
	ToggleExpand(row int)
	// ExpandRoot expands the root node so its attributes become visible
	// rows. Used when the root itself is suppressed from display.
	ExpandRoot()
}
