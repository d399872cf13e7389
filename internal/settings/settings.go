package settings

import (
	"encoding/json"
	"strconv"

	"objbrowse/internal/logging"
)

var storeLog = logging.ForComponent(logging.CompStore)

// Field names under a window's view key.
const (
	fieldPos      = "main_window/pos"
	fieldSize     = "main_window/size"
	fieldSplitter = "central_splitter/state"
	fieldHeader   = "table/header_state"
	fieldDetail   = "details_button_idx"
)

// Field names under a window's model key.
const (
	fieldAutoRefresh   = "auto_refresh"
	fieldRefreshRate   = "refresh_rate"
	fieldShowCallables = "show_callable_attributes"
	fieldShowSpecials  = "show_special_attributes"
)

// HeaderLayout is the full persisted column layout. When present it takes
// precedence over the per-column defaults from the attribute column specs.
type HeaderLayout struct {
	Widths  []int  `json:"widths"`
	Visible []bool `json:"visible"`
}

// ViewSettings is the per-window view-level state that survives restarts.
// Each field loads independently; a missing field keeps its default.
type ViewSettings struct {
	PosX, PosY    int
	Width, Height int
	// SplitterPos is the number of rows given to the detail pane.
	SplitterPos int
	// DetailIndex selects which detail spec renders the selection.
	DetailIndex int

	ColumnWidths  []int
	ColumnVisible []bool
	// HeaderRestored reports whether the column layout came from the store
	// rather than from the per-column spec defaults.
	HeaderRestored bool
}

// DefaultViewSettings builds the defaults for a window at the given slot.
// Windows cascade by slot so stacked windows don't hide each other.
func DefaultViewSettings(slot int, columnWidths []int, columnVisible []bool) ViewSettings {
	return ViewSettings{
		PosX:          2 * slot,
		PosY:          2 * slot,
		Width:         120,
		Height:        40,
		SplitterPos:   10,
		DetailIndex:   0,
		ColumnWidths:  append([]int(nil), columnWidths...),
		ColumnVisible: append([]bool(nil), columnVisible...),
	}
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// LoadView reads the view settings stored under key, falling back to defaults
// per field. With reset true the store is not consulted at all.
func LoadView(store Store, key string, defaults ViewSettings, reset bool) ViewSettings {
	if reset {
		storeLog.Printf("resetting persistent view settings for %s", key)
		return defaults
	}

	vs := defaults

	if v, ok := get(store, key, fieldPos); ok {
		var p point
		if json.Unmarshal([]byte(v), &p) == nil {
			vs.PosX, vs.PosY = p.X, p.Y
		}
	}
	if v, ok := get(store, key, fieldSize); ok {
		var sz size
		if json.Unmarshal([]byte(v), &sz) == nil && sz.W > 0 && sz.H > 0 {
			vs.Width, vs.Height = sz.W, sz.H
		}
	}
	if v, ok := get(store, key, fieldSplitter); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			vs.SplitterPos = n
		}
	}
	if v, ok := get(store, key, fieldDetail); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			vs.DetailIndex = n
		}
	}
	if v, ok := get(store, key, fieldHeader); ok {
		// A layout for a different column count is corrupt for this key;
		// accepting it would leave the view indexing past its columns.
		var h HeaderLayout
		if json.Unmarshal([]byte(v), &h) == nil &&
			len(h.Widths) > 0 && len(h.Widths) == len(h.Visible) &&
			len(h.Widths) == len(defaults.ColumnWidths) {
			vs.ColumnWidths = h.Widths
			vs.ColumnVisible = h.Visible
			vs.HeaderRestored = true
		}
	}

	return vs
}

// SaveView writes all view settings under key. Individual write failures are
// logged and skipped; losing a stored width is not worth failing a close.
func SaveView(store Store, key string, vs ViewSettings) {
	set(store, key, fieldPos, mustJSON(point{vs.PosX, vs.PosY}))
	set(store, key, fieldSize, mustJSON(size{vs.Width, vs.Height}))
	set(store, key, fieldSplitter, strconv.Itoa(vs.SplitterPos))
	set(store, key, fieldDetail, strconv.Itoa(vs.DetailIndex))
	set(store, key, fieldHeader, mustJSON(HeaderLayout{
		Widths:  vs.ColumnWidths,
		Visible: vs.ColumnVisible,
	}))
}

// ModelSettings is the per-window model-level state: what the tree shows and
// how often it refreshes.
type ModelSettings struct {
	AutoRefresh    bool
	RefreshSeconds int
	ShowCallables  bool
	ShowSpecials   bool
}

// DefaultModelSettings returns the model-level defaults.
func DefaultModelSettings() ModelSettings {
	return ModelSettings{
		AutoRefresh:    false,
		RefreshSeconds: 2,
		ShowCallables:  true,
		ShowSpecials:   true,
	}
}

// ModelOverrides carries caller-supplied model settings. A nil field means
// "use the persisted value, or the default if none is stored"; a non-nil
// field always wins.
type ModelOverrides struct {
	AutoRefresh    *bool
	RefreshSeconds *int
	ShowCallables  *bool
	ShowSpecials   *bool
}

// LoadModel resolves the model settings for a window: explicit overrides
// first, then (unless reset) the store, then defaults.
func LoadModel(store Store, key string, ov ModelOverrides, reset bool) ModelSettings {
	ms := DefaultModelSettings()

	if !reset {
		if v, ok := get(store, key, fieldAutoRefresh); ok {
			ms.AutoRefresh = v == "true"
		}
		if v, ok := get(store, key, fieldRefreshRate); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms.RefreshSeconds = n
			}
		}
		if v, ok := get(store, key, fieldShowCallables); ok {
			ms.ShowCallables = v == "true"
		}
		if v, ok := get(store, key, fieldShowSpecials); ok {
			ms.ShowSpecials = v == "true"
		}
	} else {
		storeLog.Printf("resetting persistent model settings for %s", key)
	}

	if ov.AutoRefresh != nil {
		ms.AutoRefresh = *ov.AutoRefresh
	}
	if ov.RefreshSeconds != nil {
		ms.RefreshSeconds = *ov.RefreshSeconds
	}
	if ov.ShowCallables != nil {
		ms.ShowCallables = *ov.ShowCallables
	}
	if ov.ShowSpecials != nil {
		ms.ShowSpecials = *ov.ShowSpecials
	}

	return ms
}

// SaveModel writes all model settings under key.
func SaveModel(store Store, key string, ms ModelSettings) {
	set(store, key, fieldAutoRefresh, strconv.FormatBool(ms.AutoRefresh))
	set(store, key, fieldRefreshRate, strconv.Itoa(ms.RefreshSeconds))
	set(store, key, fieldShowCallables, strconv.FormatBool(ms.ShowCallables))
	set(store, key, fieldShowSpecials, strconv.FormatBool(ms.ShowSpecials))
}

func get(store Store, key, field string) (string, bool) {
	v, ok, err := store.Get(key, field)
	if err != nil {
		storeLog.Printf("warning: failed to read %s/%s: %v", key, field, err)
		return "", false
	}
	return v, ok
}

func set(store Store, key, field, value string) {
	if err := store.Set(key, field, value); err != nil {
		storeLog.Printf("warning: failed to write %s/%s: %v", key, field, err)
	}
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only fixed struct shapes reach here.
		panic(err)
	}
	return string(data)
}
