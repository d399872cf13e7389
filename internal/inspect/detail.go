package inspect

import (
	"fmt"
	"runtime/debug"
)

// DetailResult is what the detail pane shows for one node and one detail
// spec. No failure ever crosses this boundary: a failed render comes back as
// a result with IsError set, carrying the failure message and a diagnostic
// trace. The pane must stay responsive for any object under inspection,
// including ones whose fields can't be stringified.
type DetailResult struct {
	Text    string
	Wrap    WrapMode
	IsError bool
}

// RenderDetail renders node through the detail spec at index.
//
// The index must refer to a valid spec: the session keeps exactly one detail
// spec selected from initialization onward, so an out-of-range index here is
// a bug in the caller, not a runtime condition.
func RenderDetail(node TreeNode, details []AttrDetail, index int) (res DetailResult) {
	if index < 0 || index >= len(details) {
		panic(fmt.Sprintf("inspect: no detail spec at index %d (have %d)", index, len(details)))
	}
	spec := details[index]

	defer func() {
		if r := recover(); r != nil {
			res = errorResult(fmt.Sprintf("%v", r), debug.Stack())
		}
	}()

	text, err := spec.Render(node)
	if err != nil {
		return errorResult(err.Error(), debug.Stack())
	}
	return DetailResult{Text: text, Wrap: spec.Wrap}
}

func errorResult(msg string, stack []byte) DetailResult {
	return DetailResult{
		Text:    fmt.Sprintf("%s\n\n%s", msg, stack),
		Wrap:    WrapAnywhere,
		IsError: true,
	}
}
