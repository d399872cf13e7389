package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	cols := []string{"name", "path", "type", "value"}

	k1 := DeriveKey(cols, 0, PurposeView)
	k2 := DeriveKey(cols, 0, PurposeView)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_OrderSensitive(t *testing.T) {
	k1 := DeriveKey([]string{"name", "value"}, 0, PurposeView)
	k2 := DeriveKey([]string{"value", "name"}, 0, PurposeView)
	assert.NotEqual(t, k1, k2, "permuted columns must use a different settings namespace")
}

func TestDeriveKey_SlotAndPurpose(t *testing.T) {
	cols := []string{"name", "value"}

	assert.NotEqual(t,
		DeriveKey(cols, 0, PurposeView),
		DeriveKey(cols, 1, PurposeView))
	assert.NotEqual(t,
		DeriveKey(cols, 0, PurposeModel),
		DeriveKey(cols, 0, PurposeView))
}

func TestDeriveKey_Format(t *testing.T) {
	key := DeriveKey([]string{"name", "value"}, 3, PurposeModel)

	assert.True(t, strings.HasSuffix(key, "_win3_model"), "got %q", key)
	// md5 hex digest prefix
	hash := strings.SplitN(key, "_", 2)[0]
	assert.Len(t, hash, 32)
}
