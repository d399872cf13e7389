package settings

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// Purpose separates the two settings namespaces a window keeps under one
// slot: model-level state (filters, refresh policy) and view-level state
// (geometry, column layout).
type Purpose string

const (
	PurposeModel Purpose = "model"
	PurposeView  Purpose = "view"
)

// DeriveKey builds the persistence key for one window configuration.
//
// The columns of the attribute tree are extendible, so settings are stored in
// a different namespace per column combination: the key starts with a hash of
// the column names in order. The window slot number follows, so two windows
// with identical columns don't overwrite each other, and the purpose picks
// the namespace within the window.
//
// Order-sensitive on purpose: a permuted column layout is a different
// settings namespace.
func DeriveKey(columnNames []string, slot int, purpose Purpose) string {
	joined := strings.Join(columnNames, ",")
	sum := md5.Sum([]byte(joined))
	return fmt.Sprintf("%x_win%d_%s", sum, slot, purpose)
}
