package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/roulette/internal/app"
	"github.com/evanschultz/roulette/internal/domain"
	"github.com/evanschultz/roulette/internal/roulette"
	"github.com/evanschultz/roulette/internal/wheel"
	"github.com/google/uuid"
)

// Service is the roster store the model edits.
type Service interface {
	AddMember(context.Context, string) (domain.Entity, bool, error)
	AddTask(context.Context, string) (domain.Entity, bool, error)
	DeleteMember(context.Context, int64) error
	DeleteTask(context.Context, int64) error
	Roster(context.Context) ([]domain.Entity, []domain.Entity, error)
	Clear(context.Context) error
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddMember
	modeAddTask
	modeNotice
)

// listFocus selects which roster list receives navigation keys.
type listFocus int

const (
	focusMembers listFocus = iota
	focusTasks
)

// noticeEmptyRoster is shown when a spin is requested with an empty roster.
const noticeEmptyRoster = "Please add at least one member and one task!"

// layout constants for the sidebar and wheel panel.
const (
	sidebarWidth  = 30
	minWheelCols  = 24
	maxWheelCols  = 96
	defaultFrames = 50 * time.Millisecond
)

// Model is the bubbletea model for one roulette session.
type Model struct {
	svc Service

	session      app.Session
	displayAngle float64
	spinStarted  time.Time

	mode           inputMode
	input          textinput.Model
	notice         string
	focus          listFocus
	selectedMember int
	selectedTask   int

	ready  bool
	width  int
	height int
	status string
	err    error

	help help.Model
	keys keyMap
	md   *markdownRenderer

	wheelOpts      wheel.Options
	spinDelay      time.Duration
	frameInterval  time.Duration
	now            func() time.Time
	draw           func() float64
	newSpinID      func() string
	writeClipboard func(string) error
}

// loadedMsg carries the current rosters.
type loadedMsg struct {
	members []domain.Entity
	tasks   []domain.Entity
	err     error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err    error
	status string
	reload bool
}

// spinFrameMsg advances the animation of one spin.
type spinFrameMsg struct {
	spinID string
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:            svc,
		session:        app.NewSession(app.SessionConfig{}),
		status:         "loading...",
		help:           h,
		keys:           newKeyMap(),
		md:             &markdownRenderer{},
		input:          newModalInput("", "", "", 80),
		wheelOpts:      wheel.DefaultOptions(),
		spinDelay:      app.DefaultSpinDelay,
		frameInterval:  defaultFrames,
		now:            time.Now,
		draw:           rand.Float64,
		newSpinID:      uuid.NewString,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.session = m.session.WithRoster(msg.members, msg.tasks)
		m.clampSelections()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case spinFrameMsg:
		return m.advanceSpin(msg)

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	members, tasks, err := m.svc.Roster(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{members: members, tasks: tasks}
}

// handleNormalModeKey handles keys when no prompt or notice is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "esc":
		m.help.ShowAll = false
		return m, nil
	case key.Matches(msg, m.keys.addMember):
		return m, m.startInput(modeAddMember)
	case key.Matches(msg, m.keys.addTask):
		return m, m.startInput(modeAddTask)
	case key.Matches(msg, m.keys.switchList):
		if m.focus == focusMembers {
			m.focus = focusTasks
		} else {
			m.focus = focusMembers
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.deleteItem):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.spin):
		return m.startSpin()
	case key.Matches(msg, m.keys.reset):
		return m.resetSession()
	case key.Matches(msg, m.keys.copyResult):
		return m.copyAssignments()
	default:
		return m, nil
	}
}

// handleInputModeKey routes keys while a prompt or notice is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeNotice {
		m.mode = modeNone
		m.notice = ""
		m.status = "ready"
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeInput()
		m.status = "ready"
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		kind := m.mode
		m.input.Reset()
		if name == "" {
			m.closeInput()
			return m, nil
		}
		return m, m.addEntity(kind, name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startInput opens the add-member or add-task prompt.
func (m *Model) startInput(mode inputMode) tea.Cmd {
	m.mode = mode
	switch mode {
	case modeAddMember:
		m.input = newModalInput("member: ", "name, enter to add", "", 80)
		m.focus = focusMembers
		m.status = "add member"
	case modeAddTask:
		m.input = newModalInput("task: ", "name, enter to add", "", 80)
		m.focus = focusTasks
		m.status = "add task"
	}
	// The blink command would keep test command loops alive; the static cursor is enough.
	_ = m.input.Focus()
	return nil
}

// closeInput closes any open prompt.
func (m *Model) closeInput() {
	m.mode = modeNone
	m.input.Blur()
	m.input.Reset()
}

// addEntity stores one new roster entry; the prompt stays open for the next one.
func (m Model) addEntity(mode inputMode, name string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		var (
			entity domain.Entity
			err    error
		)
		if mode == modeAddTask {
			entity, _, err = svc.AddTask(context.Background(), name)
		} else {
			entity, _, err = svc.AddMember(context.Background(), name)
		}
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("added %s %q", entity.Kind, entity.Name), reload: true}
	}
}

// deleteSelected removes the selected entry of the focused list.
func (m Model) deleteSelected() tea.Cmd {
	svc := m.svc
	if m.focus == focusTasks {
		tasks := m.session.Tasks()
		if len(tasks) == 0 {
			return nil
		}
		target := tasks[clamp(m.selectedTask, 0, len(tasks)-1)]
		return func() tea.Msg {
			if err := svc.DeleteTask(context.Background(), target.ID); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: fmt.Sprintf("deleted task %q", target.Name), reload: true}
		}
	}
	members := m.session.Members()
	if len(members) == 0 {
		return nil
	}
	target := members[clamp(m.selectedMember, 0, len(members)-1)]
	return func() tea.Msg {
		if err := svc.DeleteMember(context.Background(), target.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("deleted member %q", target.Name), reload: true}
	}
}

// moveSelection moves the cursor of the focused list.
func (m *Model) moveSelection(delta int) {
	if m.focus == focusTasks {
		m.selectedTask = clamp(m.selectedTask+delta, 0, len(m.session.Tasks())-1)
		return
	}
	m.selectedMember = clamp(m.selectedMember+delta, 0, len(m.session.Members())-1)
}

// clampSelections keeps list cursors inside the current rosters.
func (m *Model) clampSelections() {
	m.selectedMember = clamp(m.selectedMember, 0, len(m.session.Members())-1)
	m.selectedTask = clamp(m.selectedTask, 0, len(m.session.Tasks())-1)
}

// startSpin begins a spin or opens the empty-roster notice.
func (m Model) startSpin() (tea.Model, tea.Cmd) {
	next, err := m.session.BeginSpin(m.newSpinID(), m.draw())
	switch {
	case errors.Is(err, app.ErrSpinInProgress):
		m.status = "spin in progress"
		return m, nil
	case errors.Is(err, roulette.ErrNoMembers), errors.Is(err, roulette.ErrNoTasks):
		m.mode = modeNotice
		m.notice = noticeEmptyRoster
		return m, nil
	case err != nil:
		m.status = "error: " + err.Error()
		return m, nil
	}
	m.session = next
	m.spinStarted = m.now()
	m.displayAngle = 0
	m.status = "spinning..."
	return m, m.frameCmd(next.SpinID())
}

// frameCmd schedules the next animation frame for spinID.
func (m Model) frameCmd(spinID string) tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return spinFrameMsg{spinID: spinID}
	})
}

// advanceSpin eases the wheel toward its target and settles once the delay
// has elapsed. Frames from a spin that was reset away are dropped.
func (m Model) advanceSpin(msg spinFrameMsg) (tea.Model, tea.Cmd) {
	if !m.session.Spinning() || msg.spinID != m.session.SpinID() {
		return m, nil
	}
	elapsed := m.now().Sub(m.spinStarted)
	if elapsed < m.spinDelay {
		m.displayAngle = roulette.EaseOut(float64(elapsed)/float64(m.spinDelay)) * m.session.Rotation()
		return m, m.frameCmd(msg.spinID)
	}

	next, err := m.session.Settle(msg.spinID)
	m.session = next
	m.displayAngle = next.Rotation()
	switch {
	case errors.Is(err, roulette.ErrNoMembers), errors.Is(err, roulette.ErrNoTasks):
		m.mode = modeNotice
		m.notice = noticeEmptyRoster
	case err != nil:
		m.status = "error: " + err.Error()
	default:
		m.status = fmt.Sprintf("%d assignments", len(next.Assignments()))
	}
	return m, nil
}

// resetSession clears rosters, results and the wheel angle. It is accepted
// in every phase and cancels a spin in flight.
func (m Model) resetSession() (tea.Model, tea.Cmd) {
	m.session = m.session.Reset()
	m.displayAngle = 0
	m.selectedMember = 0
	m.selectedTask = 0
	m.status = "resetting..."
	svc := m.svc
	return m, func() tea.Msg {
		if err := svc.Clear(context.Background()); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "reset", reload: true}
	}
}

// copyAssignments writes the published assignments to the clipboard.
func (m Model) copyAssignments() (tea.Model, tea.Cmd) {
	assignments := m.session.Assignments()
	if len(assignments) == 0 {
		m.status = "nothing to copy"
		return m, nil
	}
	text := domain.FormatAssignments(assignments)
	write := m.writeClipboard
	return m, func() tea.Msg {
		if err := write(text); err != nil {
			return actionMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return actionMsg{status: fmt.Sprintf("copied %d assignments", len(assignments))}
	}
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress q to quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("roulette") + statusStyle.Render("  ["+m.modeLabel()+"]")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	bodyHeight := max(1, m.height-lipgloss.Height(helpLine)-3)
	sidebar := m.renderSidebar(accent, muted, dim, bodyHeight)
	wheelPanel := m.renderWheelPanel(muted, max(minWheelCols, m.width-sidebarWidth-4), bodyHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", wheelPanel)

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}

	fullContent := content + "\n" + helpLine
	overlay := m.renderModeOverlay(accent, muted, dim, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	view := tea.NewView(fullContent)
	view.AltScreen = true
	return view
}

// renderSidebar renders the member and task lists.
func (m Model) renderSidebar(accent, muted, dim color.Color, height int) string {
	listHeight := max(3, (height-2)/2)
	members := m.renderList("Members", m.session.Members(), m.selectedMember, m.focus == focusMembers, accent, muted, dim, listHeight)
	tasks := m.renderList("Tasks", m.session.Tasks(), m.selectedTask, m.focus == focusTasks, accent, muted, dim, listHeight)
	return lipgloss.JoinVertical(lipgloss.Left, members, tasks)
}

// renderList renders one bordered roster list.
func (m Model) renderList(title string, entities []domain.Entity, selected int, focused bool, accent, muted, dim color.Color, height int) string {
	border := dim
	if focused {
		border = accent
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(sidebarWidth)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(muted)

	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(entities)))}
	if len(entities) == 0 {
		lines = append(lines, emptyStyle.Render("(empty)"))
	}
	innerHeight := max(1, height-2)
	start, end := windowBounds(len(entities), selected, max(1, innerHeight-1))
	for idx := start; idx < end; idx++ {
		name := truncate(entities[idx].Name, sidebarWidth-6)
		if focused && idx == selected {
			lines = append(lines, selectedStyle.Render("│ "+name))
			continue
		}
		lines = append(lines, "  "+name)
	}
	return style.Render(fitLines(strings.Join(lines, "\n"), innerHeight))
}

// renderWheelPanel renders the wheel with the results below it once settled.
func (m Model) renderWheelPanel(muted color.Color, width, height int) string {
	members := domain.Names(m.session.Members())
	tasks := domain.Names(m.session.Tasks())
	placeholder := lipgloss.NewStyle().Foreground(muted)

	var results string
	if assignments := m.session.Assignments(); len(assignments) > 0 {
		results = m.md.render(domain.AssignmentsMarkdown(assignments), min(width, 60))
	}
	wheelRows := height - lipgloss.Height(results) - 1
	if results == "" {
		wheelRows = height
	}
	cols := clamp(min(width, wheelRows*2), minWheelCols, maxWheelCols)

	var wheelView string
	if len(tasks) == 0 && len(members) == 0 {
		wheelView = placeholder.Render("add members (m) and tasks (t), then spin (s)")
	} else {
		scene := wheel.Build(tasks, members, m.displayAngle, m.wheelOpts)
		wheelView = wheel.Rasterize(scene, cols, cols/2).Render()
	}
	if results == "" {
		return wheelView
	}
	return lipgloss.JoinVertical(lipgloss.Left, wheelView, "", results)
}

// renderModeOverlay renders the active prompt or notice modal.
func (m Model) renderModeOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 36, 64)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeAddMember, modeAddTask:
		title := "Add Member"
		if m.mode == modeAddTask {
			title = "Add Task"
		}
		return style.Render(strings.Join([]string{
			titleStyle.Render(title),
			m.input.View(),
			hintStyle.Render("enter add • empty enter or esc close"),
		}, "\n"))
	case modeNotice:
		return style.BorderForeground(lipgloss.Color("203")).Render(strings.Join([]string{
			titleStyle.Render("Notice"),
			m.notice,
			hintStyle.Render("press any key"),
		}, "\n"))
	default:
		return ""
	}
}

// renderHelpOverlay renders the expanded help modal.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 48, 90)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Roulette Help"),
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join([]string{
			"1. m add members • t add tasks • tab switch list • d delete",
			"2. s spin • the wheel settles after the spin delay",
			"3. y copy results • R reset everything",
		}, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// modeLabel returns the header label for the current state.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddMember:
		return "add member"
	case modeAddTask:
		return "add task"
	case modeNotice:
		return "notice"
	}
	return m.session.Phase().String()
}

// windowBounds returns the visible [start, end) slice keeping selected in view.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	if windowSize <= 0 || total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := selected - windowSize/2
	start = clamp(start, 0, total-windowSize)
	return start, start + windowSize
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
