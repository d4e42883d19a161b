// Package ui is the Bubble Tea front end: a header with buttons, the poem card
// being typed, and informational panels.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/poemtyper/pkg/blink"
	"github.com/vanderheijden86/poemtyper/pkg/config"
	"github.com/vanderheijden86/poemtyper/pkg/debug"
	"github.com/vanderheijden86/poemtyper/pkg/keys"
	"github.com/vanderheijden86/poemtyper/pkg/reveal"
	"github.com/vanderheijden86/poemtyper/pkg/watcher"
)

const (
	hintTitle = "Appuyez sur n'importe quelle touche pour continuer l'écriture du titre..."
	hintBody  = "Appuyez sur n'importe quelle touche pour continuer l'écriture du poème..."

	brandLabel = BrandGlyph + " PoèmeTyper"

	defaultWidth    = 80
	defaultHeight   = 24
	minCardWidth    = 20
	wheelStep       = 3
	defaultMaxWidth = 80
)

// headerActions lists the header buttons from left to right.
var headerActions = []keys.Action{
	keys.ActionHelp,
	keys.ActionSettings,
	keys.ActionAbout,
	keys.ActionBlog,
	keys.ActionNewPoem,
}

func buttonLabel(a keys.Action) string {
	if a == keys.ActionNewPoem {
		return "[" + RefreshGlyph + " Nouveau poème]"
	}
	return "[" + PanelTitles[a] + "]"
}

// Option configures a Model.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithKeyMap sets the reserved chords.
func WithKeyMap(km keys.KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithBlinkInterval sets the cursor half-period.
func WithBlinkInterval(d time.Duration) Option {
	return func(m *Model) { m.blink = blink.New(d) }
}

// WithCursor sets the cursor glyph.
func WithCursor(glyph string) Option {
	return func(m *Model) {
		if glyph != "" {
			m.cursor = glyph
		}
	}
}

// WithMaxWidth caps the card width.
func WithMaxWidth(w int) Option {
	return func(m *Model) {
		if w > 0 {
			m.maxWidth = w
		}
	}
}

// WithMouse enables header clicks and wheel scrolling.
func WithMouse(enabled bool) Option {
	return func(m *Model) { m.mouse = enabled }
}

// WithPanels replaces the overlays built from defaults.
func WithPanels(p map[keys.Action]Panel) Option {
	return func(m *Model) { m.panels = p }
}

// WithWatcher reloads datasets whenever w reports a change.
func WithWatcher(w *watcher.Watcher, reload ReloadFunc) Option {
	return func(m *Model) {
		m.watcher = w
		m.reload = reload
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copyFn = write }
}

// Model is the main Bubble Tea model for pt.
type Model struct {
	engine   *reveal.Engine
	blink    blink.Model
	blinkCmd tea.Cmd
	keys     keys.KeyMap
	help     help.Model
	theme    Theme

	cursor   string
	maxWidth int
	mouse    bool

	panels    map[keys.Action]Panel
	panel     PanelModal
	panelOpen bool

	// body scrolls only from the mouse wheel; keys never reach it.
	body viewport.Model

	watcher *watcher.Watcher
	reload  ReloadFunc
	copyFn  func(string) error

	width         int
	height        int
	statusMsg     string
	statusIsError bool
}

// NewModel builds the model around engine and starts the cursor blinking.
func NewModel(engine *reveal.Engine, opts ...Option) Model {
	m := Model{
		engine:   engine,
		blink:    blink.New(blink.DefaultInterval),
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		theme:    DefaultTheme(lipgloss.DefaultRenderer()),
		cursor:   DefaultCursor,
		maxWidth: defaultMaxWidth,
		mouse:    true,
		copyFn:   clipboard.WriteAll,
		// Usable before the first WindowSizeMsg arrives.
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.panels == nil {
		m.panels = BuildPanels(m.keys, config.DefaultConfig(), "")
	}

	m.blink, m.blinkCmd = m.blink.Start()
	m.body = viewport.New(m.textWidth(), 1)
	m.syncBody()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.blinkCmd}
	if m.watcher != nil && m.reload != nil {
		cmds = append(cmds, WatchDatasetsCmd(m.watcher, m.reload))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.panelOpen {
			m.panel.SetSize(m.width, m.height)
		}
		m.syncBody()
		return m, nil

	case blink.TickMsg:
		var cmd tea.Cmd
		m.blink, cmd = m.blink.Update(msg)
		m.syncBody()
		return m, cmd

	case DatasetReloadedMsg:
		return m.handleReload(msg)

	case PanelClosedMsg:
		debug.Log("closed panel %s", msg.Action)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, bound := m.keys.Lookup(msg)

	if m.panelOpen {
		if bound && action == keys.ActionQuit {
			return m, tea.Quit
		}
		return m.updatePanel(msg)
	}

	if bound {
		return m.runAction(action)
	}

	// The default of a key is body scrolling; it runs only when the filter
	// lets it through.
	var cmd tea.Cmd
	d := keys.Filter(msg.String())
	if !d.Guarded && !d.PreventDefault {
		m.body, cmd = m.body.Update(msg)
	}
	if d.Advance && m.engine.Advance() {
		m.statusMsg = ""
		m.syncBody()
		m.body.GotoBottom()
	}
	return m, cmd
}

func (m Model) updatePanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	if m.panel.Closed() {
		m.panelOpen = false
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.mouse {
		return m, nil
	}
	if m.panelOpen {
		return m.updatePanel(msg)
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.body.ScrollUp(wheelStep)
	case tea.MouseButtonWheelDown:
		m.body.ScrollDown(wheelStep)
	case tea.MouseButtonLeft:
		if a, ok := m.buttonAt(msg.X, msg.Y); ok {
			return m.runAction(a)
		}
	}
	return m, nil
}

func (m Model) runAction(a keys.Action) (tea.Model, tea.Cmd) {
	switch a {
	case keys.ActionQuit:
		return m, tea.Quit

	case keys.ActionNewPoem:
		m.engine.PickNewPoem()
		debug.Log("picked poem %d", m.engine.State().Poem.ID)
		m.statusMsg = ""
		m.syncBody()
		m.body.GotoTop()

	case keys.ActionCopy:
		m.copyRevealed()

	case keys.ActionHelp, keys.ActionSettings, keys.ActionAbout, keys.ActionBlog:
		p, ok := m.panels[a]
		if !ok {
			return m, nil
		}
		m.panel = NewPanelModal(p, m.theme, m.width, m.height)
		m.panelOpen = true
		debug.Log("opened panel %s", a)
	}
	return m, nil
}

func (m *Model) copyRevealed() {
	title := m.engine.DisplayedTitle()
	body := m.engine.DisplayedBody()
	if title == "" && body == "" {
		m.statusMsg = "❌ Rien à copier pour l'instant"
		m.statusIsError = true
		return
	}

	text := title
	if body != "" {
		text += "\n\n" + body
	}
	if err := m.copyFn(text); err != nil {
		m.statusMsg = fmt.Sprintf("❌ Presse-papiers : %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = "📋 Texte révélé copié dans le presse-papiers"
	m.statusIsError = false
}

func (m Model) handleReload(msg DatasetReloadedMsg) (tea.Model, tea.Cmd) {
	err := msg.Err
	if err == nil {
		err = m.engine.SetCollection(msg.Collection)
	}
	if err != nil {
		debug.Log("dataset reload failed: %v", err)
		m.statusMsg = fmt.Sprintf("❌ Rechargement impossible : %v", err)
		m.statusIsError = true
	} else {
		debug.Log("dataset reloaded: %d poems", msg.Collection.Len())
		m.statusMsg = fmt.Sprintf("Recueil rechargé : %d poèmes", msg.Collection.Len())
		m.statusIsError = false
	}

	if m.watcher != nil && m.reload != nil {
		return m, WatchDatasetsCmd(m.watcher, m.reload)
	}
	return m, nil
}

// --- layout -----------------------------------------------------------------

func (m Model) cardWidth() int {
	w := m.maxWidth
	if m.width > 0 && m.width < w {
		w = m.width
	}
	return max(w, minCardWidth)
}

// textWidth is the card width minus border and horizontal padding.
func (m Model) textWidth() int {
	return max(1, m.cardWidth()-2-2*SpaceMD)
}

func (m Model) leftOffset() int {
	return max(0, (m.width-m.cardWidth())/2)
}

// typed wraps the revealed text and appends the cursor when active.
func (m Model) typed(text string, style lipgloss.Style, active bool) []string {
	width := m.textWidth()
	lines := wrapText(text, width)
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	if !active {
		return lines
	}

	cur := placeCursor(m.theme, m.cursor, m.blink.Visible)
	last := len(lines) - 1
	if lipgloss.Width(lines[last])+lipgloss.Width(cur) > width {
		return append(lines, cur)
	}
	lines[last] += cur
	return lines
}

func (m Model) titleLines() []string {
	st := m.engine.State()
	return m.typed(m.engine.DisplayedTitle(), m.theme.PoemTitle, st.Phase == reveal.TypingTitle)
}

func (m Model) bodyLines() []string {
	st := m.engine.State()
	return m.typed(m.engine.DisplayedBody(), m.theme.PoemBody, st.Phase == reveal.TypingBody)
}

// chromeHeight counts the rows around the body: header and its gap, card
// border and padding, the title and its gap, hint and its gap, status, help.
func (m Model) chromeHeight() int {
	return m.headerRows() + 1 + 4 + len(m.titleLines()) + 1 + 2 + 1 + 1
}

// syncBody refreshes the viewport after the text, cursor or size changed.
func (m *Model) syncBody() {
	lines := m.bodyLines()
	avail := max(1, m.height-m.chromeHeight())
	m.body.Width = m.textWidth()
	m.body.Height = max(1, min(len(lines), avail))
	m.body.SetContent(strings.Join(lines, "\n"))
	m.help.Width = m.cardWidth()
}

type headerButton struct {
	action     keys.Action
	label      string
	row        int
	start, end int // columns relative to the card's left edge
}

// headerButtons right-aligns the buttons above the card. When they do not
// fit on one row they flow left-aligned onto as many rows as needed.
func (m Model) headerButtons() []headerButton {
	width := m.cardWidth()
	total := len(headerActions) - 1
	for _, a := range headerActions {
		total += runewidth.StringWidth(buttonLabel(a))
	}

	out := make([]headerButton, 0, len(headerActions))
	x, row := max(0, width-total), 0
	for _, a := range headerActions {
		label := buttonLabel(a)
		w := runewidth.StringWidth(label)
		if x > 0 && x+w > width {
			row++
			x = 0
		}
		out = append(out, headerButton{action: a, label: label, row: row, start: x, end: x + w})
		x += w + 1
	}
	return out
}

func (m Model) headerRows() int {
	buttons := m.headerButtons()
	return buttons[len(buttons)-1].row + 1
}

// buttonAt hit-tests a click in screen coordinates against the header rows.
func (m Model) buttonAt(x, y int) (keys.Action, bool) {
	x -= m.leftOffset()
	for _, b := range m.headerButtons() {
		if y == b.row && x >= b.start && x < b.end {
			return b.action, true
		}
	}
	return keys.ActionNone, false
}

func (m Model) renderHeader() string {
	t := m.theme
	buttons := m.headerButtons()

	rows := make([]strings.Builder, buttons[len(buttons)-1].row+1)
	col := make([]int, len(rows))

	brandW := runewidth.StringWidth(brandLabel)
	if len(rows) == 1 && buttons[0].start > brandW {
		rows[0].WriteString(t.Brand.Render(brandLabel))
		col[0] = brandW
	}
	for _, b := range buttons {
		rows[b.row].WriteString(strings.Repeat(" ", b.start-col[b.row]))
		rows[b.row].WriteString(t.Button.Render(b.label))
		col[b.row] = b.end
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	t := m.theme
	w := m.cardWidth()
	if m.statusMsg != "" {
		style := t.StatusOK
		if m.statusIsError {
			style = t.StatusErr
		}
		return style.Render(truncate(m.statusMsg, w))
	}
	revealed, total := m.engine.Progress()
	return t.Progress.Width(w).Align(lipgloss.Right).Render(fmt.Sprintf("%d / %d", revealed, total))
}

func (m Model) View() string {
	if m.panelOpen {
		return m.panel.CenterModal(m.width, m.height)
	}

	t := m.theme
	w := m.cardWidth()

	card := t.Card.Width(w - 2).Render(
		strings.Join(m.titleLines(), "\n") + "\n\n" + m.body.View(),
	)

	hint := hintTitle
	if m.engine.State().Phase == reveal.TypingBody {
		hint = hintBody
	}

	block := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		card,
		"",
		t.Hint.Width(w).Align(lipgloss.Center).Render(truncate(hint, w)),
		m.renderStatus(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
	return t.Renderer.NewStyle().MarginLeft(m.leftOffset()).Render(block)
}

// Engine exposes the reveal engine.
func (m Model) Engine() *reveal.Engine {
	return m.engine
}

// CursorVisible reports the blink state.
func (m Model) CursorVisible() bool {
	return m.blink.Visible
}

// ActivePanel returns the open panel, if any.
func (m Model) ActivePanel() (Panel, bool) {
	if !m.panelOpen {
		return Panel{}, false
	}
	return m.panel.Panel(), true
}

// Status returns the transient status message.
func (m Model) Status() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// PendingBlink returns the tick the cursor is waiting for. Tests feed it back
// through Update instead of sleeping.
func (m Model) PendingBlink() blink.TickMsg {
	return m.blink.Pending()
}
