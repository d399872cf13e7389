package objtree

import (
	"fmt"
	"reflect"
	"strings"

	"objbrowse/internal/inspect"
)

// DefaultColumns is the standard column set for the attribute tree.
func DefaultColumns() []inspect.AttrColumn {
	return []inspect.AttrColumn{
		{Name: ColName, Width: 24, Visible: true},
		{Name: ColPath, Width: 36, Visible: false},
		{Name: ColKind, Width: 10, Visible: true},
		{Name: ColType, Width: 24, Visible: true},
		{Name: ColValue, Width: 40, Visible: true},
	}
}

// DefaultDetails is the standard set of detail-pane renderings. The render
// functions run against arbitrary inspected objects and may panic (a Stringer
// that dereferences nil, say); the detail renderer contains that.
func DefaultDetails() []inspect.AttrDetail {
	return []inspect.AttrDetail{
		{
			Name: "Value",
			Wrap: inspect.WrapWord,
			Render: func(n inspect.TreeNode) (string, error) {
				return fmt.Sprintf("%v", n.Object()), nil
			},
		},
		{
			Name: "Go syntax",
			Wrap: inspect.WrapAnywhere,
			Render: func(n inspect.TreeNode) (string, error) {
				return fmt.Sprintf("%#v", n.Object()), nil
			},
		},
		{
			Name:   "Type",
			Wrap:   inspect.WrapWord,
			Render: renderType,
		},
		{
			Name:   "Members",
			Wrap:   inspect.WrapNone,
			Render: renderMembers,
		},
	}
}

func renderType(n inspect.TreeNode) (string, error) {
	obj := n.Object()
	if obj == nil {
		return "<inaccessible>", nil
	}
	t := reflect.TypeOf(obj)

	var b strings.Builder
	fmt.Fprintf(&b, "type: %s\n", t.String())
	fmt.Fprintf(&b, "kind: %s\n", t.Kind())
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		fmt.Fprintf(&b, "elem: %s (%s)\n", t.String(), t.Kind())
	}
	if t.Kind() == reflect.Struct {
		fmt.Fprintf(&b, "fields: %d\n", t.NumField())
	}
	fmt.Fprintf(&b, "methods: %d\n", reflect.TypeOf(obj).NumMethod())
	return b.String(), nil
}

func renderMembers(n inspect.TreeNode) (string, error) {
	node, ok := n.(*Node)
	if !ok {
		return "", fmt.Errorf("members view requires an objtree node, got %T", n)
	}
	kids := node.Children()
	if len(kids) == 0 {
		return "(no members)", nil
	}

	var b strings.Builder
	for _, k := range kids {
		fmt.Fprintf(&b, "%-24s %-10s %s\n", k.Name(), k.Cell(ColKind), k.Cell(ColType))
	}
	return b.String(), nil
}
