package inspect

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"objbrowse/internal/logging"
	"objbrowse/internal/refresh"
	"objbrowse/internal/registry"
	"objbrowse/internal/settings"
)

// ProgramName appears in window titles and log lines.
const ProgramName = "objbrowse"

var sessLog = logging.ForComponent(logging.CompSession)

// State is the session lifecycle. Closed is terminal; a session cannot
// reopen.
type State int

const (
	StateCreated State = iota
	StateReady
	StateClosed
)

// Event names the interactions a session reacts to. Handlers are registered
// in an explicit table at creation and torn down as a table at close, so
// teardown completeness is checked mechanically instead of enumerated by
// hand.
type Event string

const (
	EventRefreshTick       Event = "refresh-tick"
	EventRefreshNow        Event = "refresh-now"
	EventToggleAutoRefresh Event = "toggle-auto-refresh"
	EventToggleCallables   Event = "toggle-callables"
	EventToggleSpecials    Event = "toggle-specials"
	EventDetailChosen      Event = "detail-chosen"
	EventSelectionChanged  Event = "selection-changed"
)

// Config describes the window to create.
type Config struct {
	Object any
	Name   string

	Columns []AttrColumn
	Details []AttrDetail

	// Overrides force individual model settings regardless of what is
	// persisted; nil fields defer to the store.
	Overrides settings.ModelOverrides
	// Reset discards all persisted settings and starts from defaults.
	Reset bool

	// Post marshals scheduler firings onto the goroutine that owns the
	// session state (the UI loop). Supplying it here installs it before the
	// scheduler can start. Nil means firings are invoked directly, which is
	// only correct in single-goroutine setups such as tests.
	Post func(func())

	// Collaborator constructors. The session owns neither implementation.
	NewProvider func(obj any, name string, cols []AttrColumn) TreeProvider
	NewProxy    func(p TreeProvider, showCallables, showSpecials bool) FilterProxy
}

// Session is one open inspection window: a slot in the registry, a tree
// provider and filter proxy bound to the inspected object, persistent model
// and view settings, and a refresh scheduler.
//
// All session state is owned by the UI goroutine. Scheduler firings re-enter
// through the poster, which must marshal onto that goroutine.
type Session struct {
	id    string
	state State

	name    string
	columns []AttrColumn
	details []AttrDetail

	reg      *registry.Registry
	store    settings.Store
	slot     int
	modelKey string
	viewKey  string

	model settings.ModelSettings
	view  settings.ViewSettings

	provider  TreeProvider
	proxy     FilterProxy
	filters   *FilterController
	scheduler *refresh.Scheduler

	// poster is read by the scheduler goroutine inside the fire callback,
	// so swapping it after Start needs the mutex.
	posterMu sync.Mutex
	poster   func(func())

	selection TreeNode
	detail    DetailResult

	handlers map[Event]func(any)
}

// NewSession creates a session per the window lifecycle: acquire a slot,
// derive settings keys, load model and view settings, bind the collaborators,
// arm the scheduler, and select the initial node. On a configuration error
// the slot is released and no session exists.
func NewSession(reg *registry.Registry, store settings.Store, cfg Config) (*Session, error) {
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("create session: no attribute columns")
	}
	if len(cfg.Details) == 0 {
		return nil, fmt.Errorf("create session: no attribute details")
	}
	if cfg.NewProvider == nil || cfg.NewProxy == nil {
		return nil, fmt.Errorf("create session: missing collaborator constructors")
	}

	s := &Session{
		id:       uuid.NewString(),
		state:    StateCreated,
		name:     cfg.Name,
		columns:  cfg.Columns,
		details:  cfg.Details,
		reg:      reg,
		store:    store,
		poster:   func(fn func()) { fn() },
		handlers: make(map[Event]func(any)),
	}
	if cfg.Post != nil {
		s.poster = cfg.Post
	}

	s.slot = reg.Acquire(s)
	names := ColumnNames(cfg.Columns)
	s.modelKey = settings.DeriveKey(names, s.slot, settings.PurposeModel)
	s.viewKey = settings.DeriveKey(names, s.slot, settings.PurposeView)

	s.model = settings.LoadModel(store, s.modelKey, cfg.Overrides, cfg.Reset)

	widths := make([]int, len(cfg.Columns))
	visible := make([]bool, len(cfg.Columns))
	for i, c := range cfg.Columns {
		widths[i] = c.Width
		visible[i] = c.Visible
	}
	s.view = settings.LoadView(store, s.viewKey,
		settings.DefaultViewSettings(s.slot, widths, visible), cfg.Reset)
	if s.view.DetailIndex >= len(cfg.Details) {
		// Persisted under an older detail-spec set; fall back to the first.
		s.view.DetailIndex = 0
	}

	s.provider = cfg.NewProvider(cfg.Object, cfg.Name, cfg.Columns)
	s.proxy = cfg.NewProxy(s.provider, s.model.ShowCallables, s.model.ShowSpecials)
	s.filters = NewFilterController(s.proxy)

	s.scheduler = refresh.NewScheduler(func() {
		s.post(func() { s.Emit(EventRefreshTick, nil) })
	})
	if err := s.scheduler.Configure(s.model.RefreshSeconds); err != nil {
		reg.Release(s)
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.subscribe(EventRefreshTick, func(any) { s.refreshNow() })
	s.subscribe(EventRefreshNow, func(any) { s.refreshNow() })
	s.subscribe(EventToggleAutoRefresh, func(v any) { s.setAutoRefresh(v.(bool)) })
	s.subscribe(EventToggleCallables, func(v any) {
		s.model.ShowCallables = v.(bool)
		s.filters.SetShowCallables(v.(bool))
	})
	s.subscribe(EventToggleSpecials, func(v any) {
		s.model.ShowSpecials = v.(bool)
		s.filters.SetShowSpecials(v.(bool))
	})
	s.subscribe(EventDetailChosen, func(v any) { s.chooseDetail(v.(int)) })
	s.subscribe(EventSelectionChanged, func(v any) {
		if v == nil {
			s.applySelection(nil)
			return
		}
		s.applySelection(v.(TreeNode))
	})

	if s.model.AutoRefresh {
		s.scheduler.Start()
	}

	// Initial selection: first row of the filtered view. A suppressed root
	// is expanded first so its attributes are reachable at all.
	if !s.provider.RootVisible() {
		s.proxy.ExpandRoot()
	}
	if row := s.proxy.FirstVisibleRow(); row >= 0 {
		s.applySelection(s.proxy.NodeAt(row))
	}

	s.state = StateReady
	sessLog.Printf("session %.8s ready: %q in slot %d", s.id, s.name, s.slot)
	return s, nil
}

func (s *Session) subscribe(event Event, handler func(any)) {
	if _, dup := s.handlers[event]; dup {
		panic("inspect: duplicate subscription for " + string(event))
	}
	s.handlers[event] = handler
}

// Emit dispatches an event to its registered handler. Events on a closed
// session indicate a dangling subscription somewhere and fail loudly.
func (s *Session) Emit(event Event, payload any) {
	if s.state == StateClosed {
		panic("inspect: event " + string(event) + " on closed session")
	}
	h, ok := s.handlers[event]
	if !ok {
		panic("inspect: no handler for event " + string(event))
	}
	h(payload)
}

// SetPoster replaces the firing poster. Prefer Config.Post, which is in
// place before the scheduler can start; a poster installed here takes effect
// on the next firing.
func (s *Session) SetPoster(post func(func())) {
	s.posterMu.Lock()
	s.poster = post
	s.posterMu.Unlock()
}

func (s *Session) post(fn func()) {
	s.posterMu.Lock()
	p := s.poster
	s.posterMu.Unlock()
	p(fn)
}

func (s *Session) refreshNow() {
	sessLog.Printf("session %.8s refreshing", s.id)
	s.provider.Refresh()
	if s.selection != nil {
		s.detail = RenderDetail(s.selection, s.details, s.view.DetailIndex)
	}
}

func (s *Session) setAutoRefresh(on bool) {
	s.model.AutoRefresh = on
	if on {
		s.scheduler.Start()
	} else {
		s.scheduler.Stop()
	}
}

func (s *Session) chooseDetail(index int) {
	if index < 0 || index >= len(s.details) {
		panic(fmt.Sprintf("inspect: detail index %d out of range (have %d)", index, len(s.details)))
	}
	s.view.DetailIndex = index
	if s.selection != nil {
		s.detail = RenderDetail(s.selection, s.details, index)
	}
}

func (s *Session) applySelection(node TreeNode) {
	s.selection = node
	if node == nil {
		s.detail = DetailResult{}
		return
	}
	s.detail = RenderDetail(node, s.details, s.view.DetailIndex)
}

// SelectRow resolves a view row through the proxy and makes it the current
// selection, re-rendering the detail pane.
func (s *Session) SelectRow(row int) {
	node := s.filters.ResolveNode(row)
	if node == nil {
		s.Emit(EventSelectionChanged, nil)
		return
	}
	s.Emit(EventSelectionChanged, node)
}

// Close persists the window's settings, tears down every subscription
// established at creation, and releases the slot. Closing an already-closed
// session is an invariant violation: a silent second close would
// double-release the slot.
func (s *Session) Close() {
	if s.state == StateClosed {
		panic("inspect: Close on already-closed session")
	}
	s.scheduler.Stop()

	settings.SaveView(s.store, s.viewKey, s.view)
	settings.SaveModel(s.store, s.modelKey, s.model)

	for event := range s.handlers {
		delete(s.handlers, event)
	}
	if len(s.handlers) != 0 {
		panic("inspect: subscriptions left after teardown")
	}

	s.reg.Release(s)
	s.state = StateClosed
	sessLog.Printf("session %.8s closed, slot %d released", s.id, s.slot)
}

// Accessors used by the UI shell.

// Title is the window title: "{program} - {inspected object's label}".
func (s *Session) Title() string { return fmt.Sprintf("%s - %s", ProgramName, s.name) }

func (s *Session) State() State { return s.state }

func (s *Session) Slot() int { return s.slot }

func (s *Session) ViewKey() string { return s.viewKey }

func (s *Session) ModelKey() string { return s.modelKey }

func (s *Session) Proxy() FilterProxy { return s.proxy }

func (s *Session) Columns() []AttrColumn { return s.columns }

func (s *Session) Details() []AttrDetail { return s.details }

func (s *Session) Selection() TreeNode { return s.selection }

func (s *Session) Detail() DetailResult { return s.detail }

func (s *Session) DetailIndex() int { return s.view.DetailIndex }

func (s *Session) Model() settings.ModelSettings { return s.model }

func (s *Session) View() settings.ViewSettings { return s.view }

func (s *Session) AutoRefreshOn() bool { return s.scheduler.Running() }

// SetWindowSize records the current window geometry for persistence.
func (s *Session) SetWindowSize(w, h int) {
	s.view.Width, s.view.Height = w, h
}

// SetWindowPos records the current window position for persistence.
func (s *Session) SetWindowPos(x, y int) {
	s.view.PosX, s.view.PosY = x, y
}

// SetSplitterPos records the detail pane's share of the window.
func (s *Session) SetSplitterPos(rows int) {
	if rows < 0 {
		rows = 0
	}
	s.view.SplitterPos = rows
}

// SetColumnWidth resizes one column. Widths never go below 1.
func (s *Session) SetColumnWidth(col, width int) {
	if col < 0 || col >= len(s.view.ColumnWidths) {
		return
	}
	if width < 1 {
		width = 1
	}
	s.view.ColumnWidths[col] = width
}

// SetColumnVisible shows or hides one column.
func (s *Session) SetColumnVisible(col int, visible bool) {
	if col < 0 || col >= len(s.view.ColumnVisible) {
		return
	}
	s.view.ColumnVisible[col] = visible
}
