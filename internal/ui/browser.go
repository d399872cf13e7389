package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"objbrowse/internal/inspect"
	"objbrowse/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// Minimum rows kept for the tree pane when sizing the detail pane.
const minTreeRows = 4

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	focusedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Callables   key.Binding
	Specials    key.Binding
	Detail      key.Binding
	ColLeft     key.Binding
	ColRight    key.Binding
	ColHide     key.Binding
	ColShow     key.Binding
	ColGrow     key.Binding
	ColShrink   key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		AutoRefresh: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-refresh")),
		Callables:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "callables")),
		Specials:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "specials")),
		Detail:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "detail view")),
		ColLeft:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev column")),
		ColRight:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next column")),
		ColHide:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide column")),
		ColShow:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "show column")),
		ColGrow:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "widen column")),
		ColShrink:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrow column")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// postMsg carries a closure posted from another goroutine (scheduler firings)
// onto the bubbletea update loop, where all session state lives.
type postMsg struct {
	fn func()
}

// Browser is the inspection window shell: a tree pane over a detail pane. It
// owns no session invariants; every interaction is an event emitted into the
// session, and the panes re-render from the session's state afterwards.
type Browser struct {
	session *inspect.Session

	width  int
	height int
	ready  bool
	closed bool

	cursor     int
	viewOffset int
	colFocus   int

	detail viewport.Model
	keys   keyMap
}

// New builds the browser shell over an open session.
func New(s *inspect.Session) *Browser {
	b := &Browser{
		keys:   newKeyMap(),
		detail: viewport.New(0, 0),
	}
	b.bind(s)
	return b
}

// bind attaches the session and derives the initial cursor and column focus
// from its restored view state.
func (b *Browser) bind(s *inspect.Session) {
	b.session = s
	if row := s.Proxy().FirstVisibleRow(); row >= 0 {
		b.cursor = row
	}
	b.colFocus = firstVisibleColumn(s.View().ColumnVisible)
}

// firstVisibleColumn picks the initial focus: the first column the restored
// layout actually shows, not the first spec default.
func firstVisibleColumn(visible []bool) int {
	for i, v := range visible {
		if v {
			return i
		}
	}
	return 0
}

// Run creates a session via create and drives a browser over it to
// completion. Run owns the creation order: the program exists first, so the
// poster handed to create is final before the session's scheduler can start.
// The session is closed by the time Run returns, whatever path the program
// took out.
func Run(create func(post func(func())) (*inspect.Session, error)) error {
	b := &Browser{
		keys:   newKeyMap(),
		detail: viewport.New(0, 0),
	}
	p := tea.NewProgram(b, tea.WithAltScreen())

	// Scheduler firings arrive on the scheduler goroutine; Send marshals
	// them onto the update loop.
	s, err := create(func(fn func()) {
		p.Send(postMsg{fn: fn})
	})
	if err != nil {
		return err
	}
	b.bind(s)

	_, err = p.Run()
	if !b.closed {
		s.Close()
		b.closed = true
	}
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		if b.closed {
			// A scheduler firing can already be in flight when the session
			// closes; its event must not reach the closed session.
			return b, nil
		}
		msg.fn()
		b.clampCursor()
		b.syncDetail()
		return b, nil

	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.session.SetWindowSize(msg.Width, msg.Height)
		b.layout()
		b.ready = true
		b.syncDetail()
		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	var cmd tea.Cmd
	b.detail, cmd = b.detail.Update(msg)
	return b, cmd
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := b.session

	switch {
	case key.Matches(msg, b.keys.Quit):
		uiLog.Printf("closing %q", s.Title())
		if !b.closed {
			s.Close()
			b.closed = true
		}
		return b, tea.Quit

	case key.Matches(msg, b.keys.Up):
		b.moveCursor(-1)

	case key.Matches(msg, b.keys.Down):
		b.moveCursor(1)

	case key.Matches(msg, b.keys.Expand):
		s.Proxy().ToggleExpand(b.cursor)
		b.clampCursor()
		b.syncDetail()

	case key.Matches(msg, b.keys.Refresh):
		s.Emit(inspect.EventRefreshNow, nil)
		b.clampCursor()
		b.syncDetail()

	case key.Matches(msg, b.keys.AutoRefresh):
		s.Emit(inspect.EventToggleAutoRefresh, !s.AutoRefreshOn())

	case key.Matches(msg, b.keys.Callables):
		s.Emit(inspect.EventToggleCallables, !s.Model().ShowCallables)
		b.clampCursor()
		b.syncDetail()

	case key.Matches(msg, b.keys.Specials):
		s.Emit(inspect.EventToggleSpecials, !s.Model().ShowSpecials)
		b.clampCursor()
		b.syncDetail()

	case key.Matches(msg, b.keys.Detail):
		idx := int(msg.String()[0] - '1')
		if idx < len(s.Details()) {
			s.Emit(inspect.EventDetailChosen, idx)
			b.syncDetail()
		}

	case key.Matches(msg, b.keys.ColLeft):
		if b.colFocus > 0 {
			b.colFocus--
		}

	case key.Matches(msg, b.keys.ColRight):
		if b.colFocus < len(s.Columns())-1 {
			b.colFocus++
		}

	case key.Matches(msg, b.keys.ColHide):
		s.SetColumnVisible(b.colFocus, false)

	case key.Matches(msg, b.keys.ColShow):
		s.SetColumnVisible(b.colFocus, true)

	case key.Matches(msg, b.keys.ColGrow):
		s.SetColumnWidth(b.colFocus, b.colWidth(b.colFocus)+2)

	case key.Matches(msg, b.keys.ColShrink):
		s.SetColumnWidth(b.colFocus, b.colWidth(b.colFocus)-2)
	}

	return b, nil
}

func (b *Browser) colWidth(col int) int {
	widths := b.session.View().ColumnWidths
	if col < 0 || col >= len(widths) {
		return 0
	}
	return widths[col]
}

func (b *Browser) moveCursor(delta int) {
	rows := b.session.Proxy().RowCount()
	if rows == 0 {
		return
	}
	b.cursor += delta
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor >= rows {
		b.cursor = rows - 1
	}
	b.scrollIntoView()
	b.session.SelectRow(b.cursor)
	b.syncDetail()
}

// clampCursor re-anchors the cursor after the row set changed underneath it
// (filter toggle, refresh, collapse) and re-selects the row it lands on.
func (b *Browser) clampCursor() {
	rows := b.session.Proxy().RowCount()
	if rows == 0 {
		b.cursor, b.viewOffset = 0, 0
		b.session.SelectRow(0)
		return
	}
	if b.cursor >= rows {
		b.cursor = rows - 1
	}
	b.scrollIntoView()
	b.session.SelectRow(b.cursor)
}

func (b *Browser) scrollIntoView() {
	h := b.treeHeight()
	if h <= 0 {
		return
	}
	if b.cursor < b.viewOffset {
		b.viewOffset = b.cursor
	}
	if b.cursor >= b.viewOffset+h {
		b.viewOffset = b.cursor - h + 1
	}
}

// treeHeight is the tree pane's row budget: total height minus title, column
// header, detail tab line, detail pane, and help line.
func (b *Browser) treeHeight() int {
	h := b.height - 4 - b.detailHeight()
	if h < 0 {
		h = 0
	}
	return h
}

func (b *Browser) detailHeight() int {
	h := b.session.View().SplitterPos
	if limit := b.height - 4 - minTreeRows; h > limit {
		h = limit
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (b *Browser) layout() {
	b.detail.Width = b.width
	b.detail.Height = b.detailHeight()
	b.scrollIntoView()
}

func (b *Browser) syncDetail() {
	res := b.session.Detail()
	text := wrapText(res.Text, res.Wrap, b.width)
	if res.IsError {
		text = errorStyle.Render(text)
	}
	b.detail.SetContent(text)
	b.detail.GotoTop()
}

func (b *Browser) View() string {
	if !b.ready {
		return "loading..."
	}

	var out strings.Builder
	out.WriteString(b.titleLine() + "\n")
	out.WriteString(b.headerLine() + "\n")

	rows := b.session.Proxy().RowCount()
	h := b.treeHeight()
	for i := 0; i < h; i++ {
		row := b.viewOffset + i
		if row < rows {
			out.WriteString(b.rowLine(row))
		}
		out.WriteString("\n")
	}

	out.WriteString(b.detailTabs() + "\n")
	out.WriteString(b.detail.View() + "\n")
	out.WriteString(b.helpLine())
	return out.String()
}

func (b *Browser) titleLine() string {
	s := b.session
	m := s.Model()

	flags := []string{
		flag("auto", s.AutoRefreshOn()),
		flag("callables", m.ShowCallables),
		flag("specials", m.ShowSpecials),
	}
	status := statusStyle.Render(strings.Join(flags, "  "))

	title := titleStyle.Render(s.Title())
	gap := b.width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + status
}

func flag(name string, on bool) string {
	if on {
		return "[x] " + name
	}
	return "[ ] " + name
}

func (b *Browser) headerLine() string {
	view := b.session.View()
	var cells []string
	for i, c := range b.session.Columns() {
		if !view.ColumnVisible[i] {
			continue
		}
		cell := pad(c.Name, view.ColumnWidths[i])
		if i == b.colFocus {
			cell = focusedStyle.Render(cell)
		} else {
			cell = headerStyle.Render(cell)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, " ")
}

func (b *Browser) rowLine(row int) string {
	proxy := b.session.Proxy()
	node := proxy.NodeAt(row)
	if node == nil {
		return ""
	}

	marker := "  "
	if proxy.HasChildren(row) {
		if proxy.IsExpanded(row) {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}
	indent := strings.Repeat("  ", proxy.Depth(row))

	view := b.session.View()
	var cells []string
	for i, c := range b.session.Columns() {
		if !view.ColumnVisible[i] {
			continue
		}
		text := node.Cell(c.Name)
		w := view.ColumnWidths[i]
		if len(cells) == 0 {
			// The tree decoration lives inside the first visible column.
			text = indent + marker + text
		}
		cells = append(cells, pad(text, w))
	}
	line := strings.Join(cells, " ")

	if row == b.cursor {
		return selectedStyle.Render(pad(line, b.width))
	}
	return line
}

func (b *Browser) detailTabs() string {
	var tabs []string
	for i, d := range b.session.Details() {
		label := fmt.Sprintf("[%d] %s", i+1, d.Name)
		if i == b.session.DetailIndex() {
			if b.session.Detail().IsError {
				label = errorStyle.Render(label)
			} else {
				label = activeTabStyle.Render(label)
			}
		} else {
			label = statusStyle.Render(label)
		}
		tabs = append(tabs, label)
	}
	return dividerStyle.Render("─ ") + strings.Join(tabs, "  ")
}

func (b *Browser) helpLine() string {
	return statusStyle.Render(
		"↑/↓ select · enter expand · ctrl+r refresh · a auto · c callables · s specials · 1-9 detail · ←/→ column · H/S hide/show · +/- width · q quit")
}

// pad truncates or pads s to exactly w display cells.
func pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, w, "…")
	if gap := w - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// wrapText applies a detail spec's wrap mode. Word wrapping leans on lipgloss;
// anywhere-wrapping breaks mid-word so opaque blobs (tracebacks, %#v dumps)
// stay fully visible.
func wrapText(text string, mode inspect.WrapMode, width int) string {
	if width <= 0 {
		return text
	}
	switch mode {
	case inspect.WrapWord:
		return lipgloss.NewStyle().Width(width).Render(text)
	case inspect.WrapAnywhere:
		return wrapAnywhere(text, width)
	default:
		return text
	}
}

func wrapAnywhere(text string, width int) string {
	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		col := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if col+rw > width {
				out.WriteString("\n")
				col = 0
			}
			out.WriteRune(r)
			col += rw
		}
	}
	return out.String()
}
