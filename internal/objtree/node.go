package objtree

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Column names this provider can populate.
const (
	ColName  = "name"
	ColPath  = "path"
	ColKind  = "kind"
	ColType  = "type"
	ColValue = "value"
)

// maxElems caps how many slice/array/map entries become child nodes, so
// inspecting a huge container doesn't build a huge tree.
const maxElems = 100

// Node is one attribute in the reflected tree. Children are built lazily on
// first access, which also makes cyclic object graphs safe to browse: a
// cycle only unfolds as far as the user expands it.
type Node struct {
	name   string
	parent *Node
	value  reflect.Value
	kind   string

	// typeName is set for nodes whose value is inaccessible (unexported
	// fields), where value.Type() can't be asked.
	typeName string

	callable bool
	special  bool

	children []*Node
	built    bool
}

func (n *Node) Name() string { return n.name }

func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	if strings.HasPrefix(n.name, "[") {
		return n.parent.Path() + n.name
	}
	return n.parent.Path() + "." + n.name
}

func (n *Node) Cell(column string) string {
	switch column {
	case ColName:
		return n.name
	case ColPath:
		return n.Path()
	case ColKind:
		return n.kind
	case ColType:
		if n.value.IsValid() {
			return n.value.Type().String()
		}
		return n.typeName
	case ColValue:
		return summarize(n.value)
	default:
		return ""
	}
}

func (n *Node) Object() any {
	if !n.value.IsValid() || !n.value.CanInterface() {
		return nil
	}
	return n.value.Interface()
}

// IsCallable reports whether the node is a method of its parent.
func (n *Node) IsCallable() bool { return n.callable }

// IsSpecial reports whether the node is an unexported attribute.
func (n *Node) IsSpecial() bool { return n.special }

// Children returns the node's child nodes, building them on first access.
func (n *Node) Children() []*Node {
	if !n.built {
		n.children = buildChildren(n)
		n.built = true
	}
	return n.children
}

// invalidate drops the cached children so the next access re-reads the live
// object.
func (n *Node) invalidate() {
	n.children = nil
	n.built = false
}

func buildChildren(n *Node) []*Node {
	v := n.value
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	var kids []*Node
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			child := &Node{name: f.Name, parent: n, kind: "field"}
			if f.IsExported() {
				child.value = v.Field(i)
			} else {
				child.special = true
				child.typeName = f.Type.String()
			}
			kids = append(kids, child)
		}

	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		if len(keys) > maxElems {
			keys = keys[:maxElems]
		}
		for _, k := range keys {
			kids = append(kids, &Node{
				name:   fmt.Sprintf("[%v]", k),
				parent: n,
				value:  v.MapIndex(k),
				kind:   "key",
			})
		}

	case reflect.Slice, reflect.Array:
		count := v.Len()
		if count > maxElems {
			count = maxElems
		}
		for i := 0; i < count; i++ {
			kids = append(kids, &Node{
				name:   fmt.Sprintf("[%d]", i),
				parent: n,
				value:  v.Index(i),
				kind:   "index",
			})
		}
	}

	// Methods attach to the node's declared value, not the dereferenced one,
	// so pointer receivers show up on pointer-valued nodes.
	if n.value.IsValid() && n.value.CanInterface() {
		t := n.value.Type()
		for i := 0; i < t.NumMethod(); i++ {
			kids = append(kids, &Node{
				name:     t.Method(i).Name,
				parent:   n,
				value:    n.value.Method(i),
				kind:     "method",
				callable: true,
			})
		}
	}

	return kids
}

// summarize renders a value for the tree's value column: short, single-line,
// and careful never to invoke methods on the inspected object.
func summarize(v reflect.Value) string {
	if !v.IsValid() {
		return "<inaccessible>"
	}
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", v.Interface())
	case reflect.String:
		s := v.String()
		if len(s) > 120 {
			s = s[:117] + "..."
		}
		return fmt.Sprintf("%q", s)
	case reflect.Map:
		if v.IsNil() {
			return "nil"
		}
		return fmt.Sprintf("map[%d]", v.Len())
	case reflect.Slice:
		if v.IsNil() {
			return "nil"
		}
		return fmt.Sprintf("slice[%d]", v.Len())
	case reflect.Array:
		return fmt.Sprintf("array[%d]", v.Len())
	case reflect.Pointer:
		if v.IsNil() {
			return "nil"
		}
		return "&" + v.Type().Elem().String()
	case reflect.Interface:
		if v.IsNil() {
			return "nil"
		}
		return summarize(v.Elem())
	case reflect.Struct:
		return v.Type().String() + "{}"
	case reflect.Func:
		if v.IsNil() {
			return "nil"
		}
		return v.Type().String()
	case reflect.Chan:
		return v.Type().String()
	default:
		return v.Type().String()
	}
}
