package inspect

// WrapMode controls line wrapping in the detail pane.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapWord
	// WrapAnywhere breaks mid-token. Used for render failures, whose stack
	// traces contain arbitrarily long unbroken lines.
	WrapAnywhere
)

// AttrColumn configures one column of the attribute tree: its name, default
// width and default visibility. The column set is fixed for a session's
// lifetime; only widths and visibility change afterwards.
type AttrColumn struct {
	Name    string
	Width   int
	Visible bool
}

// AttrDetail is one selectable rendering of the selected node in the detail
// pane. Render may fail or panic for arbitrary inspected objects; the detail
// renderer contains that.
type AttrDetail struct {
	Name   string
	Render func(node TreeNode) (string, error)
	Wrap   WrapMode
}

// ColumnNames returns the names of cols in order, for settings-key derivation.
func ColumnNames(cols []AttrColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
