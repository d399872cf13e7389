package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() ViewSettings {
	return DefaultViewSettings(1, []int{200, 300}, []bool{true, false})
}

func TestLoadView_EmptyStoreReturnsDefaults(t *testing.T) {
	store := NewMemoryStore()
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, false)

	assert.Equal(t, defaults, vs)
	assert.False(t, vs.HeaderRestored)
}

func TestLoadView_ResetIgnoresStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", "main_window/size", `{"w":640,"h":480}`))
	require.NoError(t, store.Set("k", "details_button_idx", "2"))
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, true)

	assert.Equal(t, defaults, vs)
}

func TestLoadView_PerFieldFallback(t *testing.T) {
	store := NewMemoryStore()
	// Only size is stored; pos is corrupt; everything else is absent.
	require.NoError(t, store.Set("k", "main_window/size", `{"w":640,"h":480}`))
	require.NoError(t, store.Set("k", "main_window/pos", "not json"))
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, false)

	assert.Equal(t, 640, vs.Width)
	assert.Equal(t, 480, vs.Height)
	assert.Equal(t, defaults.PosX, vs.PosX, "corrupt field falls back alone")
	assert.Equal(t, defaults.SplitterPos, vs.SplitterPos)
	assert.Equal(t, defaults.DetailIndex, vs.DetailIndex)
}

func TestLoadView_HeaderLayoutPrecedence(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", "table/header_state",
		`{"widths":[50,60],"visible":[false,true]}`))
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, false)

	assert.True(t, vs.HeaderRestored)
	assert.Equal(t, []int{50, 60}, vs.ColumnWidths)
	assert.Equal(t, []bool{false, true}, vs.ColumnVisible)
}

func TestLoadView_MismatchedHeaderIgnored(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", "table/header_state",
		`{"widths":[50,60],"visible":[false]}`))
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, false)

	assert.False(t, vs.HeaderRestored)
	assert.Equal(t, defaults.ColumnWidths, vs.ColumnWidths)
}

func TestLoadView_WrongColumnCountHeaderIgnored(t *testing.T) {
	store := NewMemoryStore()
	// Well-formed, internally consistent, but sized for three columns while
	// the window has two. Accepting it would index past the column specs.
	require.NoError(t, store.Set("k", "table/header_state",
		`{"widths":[10,20,30],"visible":[true,false,true]}`))
	defaults := testDefaults()

	vs := LoadView(store, "k", defaults, false)

	assert.False(t, vs.HeaderRestored)
	assert.Equal(t, defaults.ColumnWidths, vs.ColumnWidths)
	assert.Equal(t, defaults.ColumnVisible, vs.ColumnVisible)
}

func TestSaveLoadView_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	vs := testDefaults()
	vs.Width, vs.Height = 900, 500
	vs.SplitterPos = 12
	vs.DetailIndex = 3
	vs.ColumnWidths = []int{10, 20}
	vs.ColumnVisible = []bool{true, true}

	SaveView(store, "k", vs)
	got := LoadView(store, "k", testDefaults(), false)

	assert.Equal(t, 900, got.Width)
	assert.Equal(t, 12, got.SplitterPos)
	assert.Equal(t, 3, got.DetailIndex)
	assert.True(t, got.HeaderRestored)
	assert.Equal(t, []int{10, 20}, got.ColumnWidths)
}

func TestLoadModel_DefaultsAndOverrides(t *testing.T) {
	store := NewMemoryStore()

	ms := LoadModel(store, "k", ModelOverrides{}, false)
	assert.Equal(t, DefaultModelSettings(), ms)

	on := true
	five := 5
	ms = LoadModel(store, "k", ModelOverrides{AutoRefresh: &on, RefreshSeconds: &five}, false)
	assert.True(t, ms.AutoRefresh)
	assert.Equal(t, 5, ms.RefreshSeconds)
	assert.True(t, ms.ShowCallables)
}

func TestLoadModel_StoredValuesAndReset(t *testing.T) {
	store := NewMemoryStore()
	SaveModel(store, "k", ModelSettings{
		AutoRefresh:    true,
		RefreshSeconds: 7,
		ShowCallables:  false,
		ShowSpecials:   false,
	})

	ms := LoadModel(store, "k", ModelOverrides{}, false)
	assert.True(t, ms.AutoRefresh)
	assert.Equal(t, 7, ms.RefreshSeconds)
	assert.False(t, ms.ShowCallables)

	// reset skips the store entirely
	ms = LoadModel(store, "k", ModelOverrides{}, true)
	assert.Equal(t, DefaultModelSettings(), ms)

	// but explicit overrides still win over the reset defaults
	off := false
	ms = LoadModel(store, "k", ModelOverrides{ShowSpecials: &off}, true)
	assert.False(t, ms.ShowSpecials)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("k", "f")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("k", "f", "v1"))
	require.NoError(t, store.Set("k", "f", "v2")) // upsert

	v, ok, err := store.Get("k", "f")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "f", "persisted"))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	v, ok, err := store.Get("k", "f")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}
