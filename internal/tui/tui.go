package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/juanibiapina/vlist/internal/list"
	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/store"
	"github.com/juanibiapina/vlist/internal/telemetry"
	"github.com/juanibiapina/vlist/internal/version"
)

// Panel focus
type panel int

const (
	panelViewport panel = iota
	panelItems
	panelEvents
)

// Modal mode
type modalMode int

const (
	modalNone modalMode = iota
	modalGoto
	modalHelp
)

// layoutTypes is the order t cycles through
var layoutTypes = []string{"single", "flow", "waterfall"}

// actionResultMsg is sent after an asynchronous action completes
type actionResultMsg struct {
	message string
	isError bool
}

// Model is the main TUI model
type Model struct {
	sess      *scenario.Session
	openStore func() (*store.Store, error)
	snap      list.Snapshot
	started   time.Time

	// State
	activePanel panel
	modal       modalMode
	width       int
	height      int
	ready       bool
	message     string
	messageTime time.Time
	isError     bool
	sticky      bool
	inserted    int

	// Components
	help      help.Model
	textInput textinput.Model
	eventView viewport.Model

	itemCursor ItemCursor
}

// New creates a TUI model over a session. openStore is used by the save
// action; nil disables saving.
func New(sess *scenario.Session, openStore func() (*store.Store, error)) Model {
	ti := textinput.New()
	ti.Placeholder = "item index"
	ti.CharLimit = 8
	ti.Width = 20

	h := help.New()
	h.ShowAll = true

	m := Model{
		sess:        sess,
		openStore:   openStore,
		started:     time.Now(),
		activePanel: panelItems,
		help:        h,
		textInput:   ti,
		eventView:   viewport.New(0, 0),
	}
	if v, ok := sess.Scenario.Attributes[list.AttrSticky].(bool); ok {
		m.sticky = v
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reads the engine state after a step
func (m *Model) refresh() {
	m.snap = m.sess.List.Snapshot()
	keys := make([]string, len(m.snap.Items))
	for i, it := range m.snap.Items {
		keys[i] = it.Key
	}
	m.itemCursor.SetKeys(keys)
	m.eventView.SetContent(m.formatTrace())
	m.eventView.GotoBottom()
}

func (m *Model) setMessage(msg string, isError bool) {
	m.message = msg
	m.isError = isError
	m.messageTime = time.Now()
}

// apply runs one step through the session and reports rejections
func (m *Model) apply(action string, step scenario.Step) error {
	telemetry.TUIActionExecute(action)
	err := m.sess.Apply(step)
	if err != nil {
		m.setMessage(err.Error(), true)
	}
	m.refresh()
	return err
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width

		_, rightW := m.panelWidths()
		itemsH, eventsH := m.rightHeights()
		m.itemCursor.SetRows(itemsH - 2) // panel height - border (2)
		m.eventView.Width = rightW - 4
		m.eventView.Height = eventsH - 2
		m.eventView.SetContent(m.formatTrace())
		m.eventView.GotoBottom()

	case actionResultMsg:
		m.setMessage(msg.message, msg.isError)

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalGoto:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "enter":
			m.modal = modalNone
			index, err := strconv.Atoi(strings.TrimSpace(m.textInput.Value()))
			if err != nil {
				m.setMessage(fmt.Sprintf("not an index: %q", m.textInput.Value()), true)
				return m, nil
			}
			m.scrollTo("goto", index)
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case modalHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.modal = modalNone
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snap.Items)

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.modal = modalHelp

	case key.Matches(msg, keys.Tab):
		m.activePanel = (m.activePanel + 1) % 3
		telemetry.TUIActionExecute("switch_panel")

	case key.Matches(msg, keys.Up):
		if m.activePanel == panelEvents {
			m.eventView.LineUp(1)
		} else {
			m.itemCursor.Up()
		}

	case key.Matches(msg, keys.Down):
		if m.activePanel == panelEvents {
			m.eventView.LineDown(1)
		} else {
			m.itemCursor.Down()
		}

	case key.Matches(msg, keys.First):
		m.itemCursor.First()
		m.scrollTo("scroll_to_first", 0)

	case key.Matches(msg, keys.Last):
		m.itemCursor.Last()
		m.scrollTo("scroll_to_last", count-1)

	case key.Matches(msg, keys.ScrollUp):
		m.scrollBy("scroll", -m.snap.ViewportSize/4)

	case key.Matches(msg, keys.ScrollDn):
		m.scrollBy("scroll", m.snap.ViewportSize/4)

	case key.Matches(msg, keys.PageUp):
		m.scrollBy("page", -m.snap.ViewportSize)

	case key.Matches(msg, keys.PageDown):
		m.scrollBy("page", m.snap.ViewportSize)

	case key.Matches(msg, keys.Jump):
		if count > 0 {
			m.scrollTo("scroll_to_cursor", m.itemCursor.Index)
		}

	case key.Matches(msg, keys.Goto):
		m.modal = modalGoto
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Insert):
		pos := m.itemCursor.Index
		size := m.sess.Scenario.Items.Size
		if size <= 0 {
			size = 80
		}
		k := fmt.Sprintf("n%d", m.inserted)
		m.inserted++
		m.apply("insert", scenario.Step{Insert: &scenario.InsertStep{Position: pos, Key: k, Size: size}})

	case key.Matches(msg, keys.Remove):
		if count > 0 {
			m.apply("remove", scenario.Step{Remove: &scenario.RemoveStep{Positions: []int{m.itemCursor.Index}}})
		}

	case key.Matches(msg, keys.Update):
		if it, ok := m.selected(); ok {
			m.apply("update", scenario.Step{Update: &scenario.UpdateStep{From: it.Index, To: it.Index, Key: it.Key, Flush: true}})
		}

	case key.Matches(msg, keys.Resize):
		if it, ok := m.selected(); ok {
			m.apply("resize", scenario.Step{Resize: &scenario.ResizeStep{Key: it.Key, Size: nextSize(mainSize(it, m.snap.Orientation))}})
		}

	case key.Matches(msg, keys.Type):
		next := nextLayoutType(m.snap.LayoutType)
		m.apply("cycle_layout", scenario.Step{Attributes: map[string]any{list.AttrListType: next}})
		m.setMessage("layout type "+next, false)

	case key.Matches(msg, keys.Sticky):
		m.sticky = !m.sticky
		m.apply("toggle_sticky", scenario.Step{Attributes: map[string]any{list.AttrSticky: m.sticky}})
		m.setMessage(fmt.Sprintf("sticky %v", m.sticky), false)

	case key.Matches(msg, keys.Binds):
		if n := m.sess.Host.Pending(); n > 0 {
			m.apply("finish_binds", scenario.Step{FinishBinds: &scenario.FinishBindsStep{Rounds: 16}})
			m.setMessage(fmt.Sprintf("finished %d pending binds", n), false)
		} else {
			m.setMessage("no pending binds", false)
		}

	case key.Matches(msg, keys.Frame):
		m.apply("frame", scenario.Step{Frame: &struct{}{}})

	case key.Matches(msg, keys.Copy):
		telemetry.TUIActionExecute("copy_scenario")
		data, err := m.sess.Recorded().Marshal()
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			m.setMessage(fmt.Sprintf("Failed to copy: %v", err), true)
		} else {
			m.setMessage(fmt.Sprintf("Scenario with %d steps copied to clipboard", m.sess.Step()), false)
		}

	case key.Matches(msg, keys.Save):
		if m.openStore == nil {
			m.setMessage("saving is not available", true)
			return m, nil
		}
		telemetry.TUIActionExecute("save_run")
		return m, m.saveRun()
	}

	return m, nil
}

func (m *Model) scrollBy(action string, delta float64) {
	if delta == 0 {
		return
	}
	m.apply(action, scenario.Step{Scroll: &scenario.ScrollStep{Delta: delta}})
}

func (m *Model) scrollTo(action string, index int) {
	m.apply(action, scenario.Step{ScrollTo: &scenario.ScrollToStep{Index: index}})
	if index >= 0 && index < len(m.snap.Items) {
		m.itemCursor.Select(index)
	}
}

func (m Model) selected() (list.ItemSnapshot, bool) {
	if len(m.snap.Items) == 0 {
		return list.ItemSnapshot{}, false
	}
	return m.snap.Items[m.itemCursor.Index], true
}

// saveRun stores the session so far as a run
func (m Model) saveRun() tea.Cmd {
	sc := m.sess.Recorded()
	res := m.sess.Result(time.Since(m.started))
	open := m.openStore
	return func() tea.Msg {
		st, err := open()
		if err != nil {
			return actionResultMsg{message: fmt.Sprintf("Failed to open run store: %v", err), isError: true}
		}
		defer st.Close()
		id, err := st.SaveResult(sc, res)
		if err != nil {
			return actionResultMsg{message: fmt.Sprintf("Failed to save: %v", err), isError: true}
		}
		return actionResultMsg{message: "Saved run " + id[:8]}
	}
}

func nextLayoutType(current string) string {
	for i, t := range layoutTypes {
		if t == current {
			return layoutTypes[(i+1)%len(layoutTypes)]
		}
	}
	return layoutTypes[0]
}

// nextSize grows an item by 40 and wraps back to 60 past 240
func nextSize(size float64) float64 {
	if size+40 > 240 {
		return 60
	}
	return size + 40
}

func mainSize(it list.ItemSnapshot, orientation string) float64 {
	if orientation == list.OrientationHorizontal.String() {
		return it.Frame.Width
	}
	return it.Frame.Height
}

// Rendering

func (m Model) panelWidths() (left, right int) {
	left = m.width * 45 / 100
	if left < 24 {
		left = 24
	}
	return left, m.width - left
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header + status bar
	if h < 8 {
		h = 8
	}
	return h
}

func (m Model) rightHeights() (items, events int) {
	total := m.bodyHeight()
	items = total * 60 / 100
	if items < 4 {
		items = 4
	}
	return items, total - items
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderPanels())
	s.WriteString("\n")
	s.WriteString(m.renderStatusBar())

	if m.modal != modalNone {
		return m.renderModal(s.String())
	}
	return s.String()
}

func (m Model) renderHeader() string {
	name := m.sess.Scenario.Name
	if name == "" {
		name = "scenario"
	}
	left := headerStyle.Render("vlist " + version.Version)
	info := fmt.Sprintf(" %s  %s span %d  offset %.0f / %.0f  step %d  pending %d",
		name, m.snap.LayoutType, m.snap.SpanCount, m.snap.ContentOffset, m.snap.ContentSize,
		m.sess.Step(), m.sess.Host.Pending())
	return FitToWidth(left+mutedStyle.Render(info), m.width)
}

func (m Model) renderPanels() string {
	leftW, rightW := m.panelWidths()
	bodyH := m.bodyHeight()
	itemsH, eventsH := m.rightHeights()

	viewportContent := renderViewport(m.snap, m.itemCursor.Index, leftW-4, bodyH-2)
	left := m.renderPanel(1, "Viewport", viewportContent, leftW, bodyH, m.activePanel == panelViewport)

	items := m.renderPanel(2, fmt.Sprintf("Items (%d)", len(m.snap.Items)), m.renderItemList(rightW-4), rightW, itemsH, m.activePanel == panelItems)
	events := m.renderPanel(3, "Host", m.eventView.View(), rightW, eventsH, m.activePanel == panelEvents)
	right := lipgloss.JoinVertical(lipgloss.Left, items, events)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderItemList(width int) string {
	start, end := m.itemCursor.Window()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, formatItemLine(m.snap.Items[i], i == m.itemCursor.Index, width))
	}
	if len(lines) == 0 {
		return mutedStyle.Render("no items")
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatTrace() string {
	trace := m.sess.Host.Trace()
	lines := make([]string, 0, len(trace))
	for _, r := range trace {
		line := fmt.Sprintf("%3d %-11s %-24s %d", r.Step, r.Kind, r.Name, r.Target)
		switch r.Kind {
		case "error":
			line = errorStyle.Render(line)
		case "event":
			line = eventStyle.Render(line)
		default:
			line = mutedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPanel(num int, title, content string, width, height int, active bool) string {
	borderColor := colorBlue
	titleFg := colorBlue
	if active {
		borderColor = primaryColor
		titleFg = primaryColor
	}

	tl, tr, bl, br := "╭", "╮", "╰", "╯"
	h, v := "─", "│"

	numText := fmt.Sprintf("[%d]", num)
	styledNum := lipgloss.NewStyle().Foreground(titleFg).Bold(active).Render(numText)
	styledTitle := lipgloss.NewStyle().Foreground(titleFg).Bold(active).Render(title)
	styledDash := lipgloss.NewStyle().Foreground(borderColor).Render(h)

	// Format: ╭─[num]─title─────...─╮
	topBorderRight := width - 2 - lipgloss.Width(numText) - 1 - lipgloss.Width(title) - 1
	if topBorderRight < 0 {
		topBorderRight = 0
	}
	topLine := lipgloss.NewStyle().Foreground(borderColor).Render(tl+h) +
		styledNum +
		styledDash +
		styledTitle +
		lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat(h, topBorderRight)+tr)
	bottomLine := lipgloss.NewStyle().Foreground(borderColor).Render(bl + strings.Repeat(h, max(width-2, 0)) + br)
	vBorder := lipgloss.NewStyle().Foreground(borderColor).Render(v)

	contentWidth := width - 4 // 2 for borders, 2 for padding
	contentHeight := height - 2

	contentLines := strings.Split(content, "\n")
	paddedLines := make([]string, 0, contentHeight)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines, vBorder+" "+FitToWidth(line, contentWidth)+" "+vBorder)
	}

	return topLine + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomLine
}

func (m Model) renderStatusBar() string {
	var content string

	if m.message != "" && time.Since(m.messageTime) < 3*time.Second {
		var styledMessage string
		if m.isError {
			styledMessage = errorStyle.Render(m.message)
		} else {
			styledMessage = successStyle.Render(m.message)
		}
		content = " " + FitToWidth(styledMessage, max(m.width-2, 0)) + " "
	} else {
		parts := []string{
			m.renderKey("↑↓", "cursor"),
			m.renderKey("J/K", "scroll"),
			m.renderKey("enter", "jump"),
			m.renderKey("i/d/u/r", "edit"),
			m.renderKey("t", "type"),
			m.renderKey("s", "sticky"),
			m.renderKey("y", "copy"),
			m.renderKey("w", "save"),
			m.renderKey("?", "help"),
			m.renderKey("q", "quit"),
		}
		content = " " + FitToWidth(strings.Join(parts, " "), max(m.width-2, 0)) + " "
	}

	return statusBarStyle.Render(content)
}

func (m Model) renderKey(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}

func (m Model) renderModal(background string) string {
	var content string
	switch m.modal {
	case modalGoto:
		title := dialogTitleStyle.Render("Scroll To Index")
		hint := helpDescStyle.Render("enter: scroll • esc: cancel")
		content = dialogStyle.Render(title + "\n\n" + m.textInput.View() + "\n\n" + hint)
	case modalHelp:
		title := dialogTitleStyle.Render("Keyboard Shortcuts")
		hint := helpDescStyle.Render("\npress esc or ? to close")
		content = dialogStyle.Render(title + "\n\n" + m.help.FullHelpView(keys.FullHelp()) + "\n" + hint)
	}

	x := (m.width - lipgloss.Width(content)) / 2
	y := (m.height - lipgloss.Height(content)) / 2
	return placeOverlay(x, y, content, background)
}

// Start runs the TUI over a new session of sc
func Start(sc *scenario.Scenario, openStore func() (*store.Store, error)) error {
	sess, err := scenario.NewSession(sc)
	if err != nil {
		return err
	}
	for _, step := range sc.Steps {
		_ = sess.Apply(step)
	}

	telemetry.TUISessionStart()
	defer telemetry.TUISessionEnd()

	p := tea.NewProgram(New(sess, openStore), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
