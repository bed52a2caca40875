// Package tui provides the Bubble Tea countdown interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimer/internal/countdown"
	"github.com/verte-zerg/tuimer/internal/model"
	"github.com/verte-zerg/tuimer/internal/store"
)

const (
	tickInterval  = 100 * time.Millisecond
	errorFlashFor = 800 * time.Millisecond
	maxBarWidth   = 44
)

// ringer is the alarm surface the UI drives.
type ringer interface {
	Ring()
	Stop()
}

// tickMsg is sent periodically while the timer runs or the alarm sounds.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

var (
	clockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	dimClockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	stateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	presetKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	presetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea countdown UI.
type Model struct {
	cfg   model.Config
	store *store.Store
	bell  ringer
	timer *countdown.Timer

	width  int
	height int
	bar    progress.Model

	ticking bool
	alarm   bool
	blink   int

	inputMode  bool
	input      textinput.Model
	inputError string
	errorUntil time.Time

	lastTitle string
}

// NewModel constructs a countdown UI model.
func NewModel(cfg model.Config, st *store.Store, bell ringer) *Model {
	input := textinput.New()
	input.Prompt = "Duration: "
	input.Placeholder = "mm:ss, 90, 2m30s"
	input.CharLimit = 16
	input.Cursor.SetMode(cursor.CursorBlink)

	bar := progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage())
	bar.Width = maxBarWidth

	return &Model{
		cfg:   cfg,
		store: st,
		bell:  bell,
		timer: countdown.New(cfg.Duration),
		bar:   bar,
		input: input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.refreshTitle()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.ticking = false
	if m.timer.Tick(now) {
		m.alarm = true
		m.bell.Ring()
	}
	if m.alarm {
		m.blink++
	}
	if m.inputError != "" && now.After(m.errorUntil) {
		m.inputError = ""
	}
	return m, tea.Batch(m.refreshTitle(), m.scheduleTick())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case " ":
		m.toggle(now)
	case "r":
		m.timer.Reset()
		m.silence()
	case "s":
		m.silence()
	case "d":
		m.inputMode = true
		m.inputError = ""
		m.input.SetValue("")
		return m, tea.Batch(m.input.Focus(), m.refreshTitle())
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.cfg.Presets) {
			m.applyDuration(m.cfg.Presets[idx], now)
		}
	default:
		return m, nil
	}
	return m, tea.Batch(m.refreshTitle(), m.scheduleTick())
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		return m, m.scheduleTick()
	case "enter":
		d, err := countdown.ParseInput(m.input.Value())
		if err != nil || d <= 0 {
			m.inputError = "invalid duration"
			m.errorUntil = time.Now().Add(errorFlashFor)
			return m, m.scheduleTick()
		}
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		m.applyDuration(d, time.Now())
		return m, tea.Batch(m.refreshTitle(), m.scheduleTick())
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// toggle flips running/paused. Starting always silences the bell; a finished
// timer re-arms its full duration inside Start.
func (m *Model) toggle(now time.Time) {
	if m.timer.State() == countdown.StateRunning {
		m.timer.Pause(now)
		return
	}
	m.silence()
	m.timer.Start(now)
}

// applyDuration commits a new configured duration. While running the engine
// restarts in place from the new value; the change is persisted immediately.
func (m *Model) applyDuration(d time.Duration, now time.Time) {
	m.timer.SetDuration(d, now)
	m.cfg.Duration = d
	if err := m.store.SetLastDuration(context.Background(), d); err != nil {
		logErrf("failed to persist duration: %v\n", err)
	}
}

func (m *Model) silence() {
	m.bell.Stop()
	m.alarm = false
	m.blink = 0
}

// scheduleTick arms the 100ms tick when anything needs it. The tick loop is
// idle while the timer is stopped and the alarm is quiet.
func (m *Model) scheduleTick() tea.Cmd {
	need := m.timer.State() == countdown.StateRunning || m.alarm || m.inputError != ""
	if !need || m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

func (m *Model) refreshTitle() tea.Cmd {
	var title string
	if m.timer.State() == countdown.StateFinished {
		title = "tuimer · done"
	} else {
		title = "tuimer · " + countdown.FormatClock(m.timer.Remaining(time.Now()))
	}
	if title == m.lastTitle {
		return nil
	}
	m.lastTitle = title
	return tea.SetWindowTitle(title)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.inputMode {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderInputModal())
	}
	footer := footerStyle.Render(m.helpText())
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderTimer())
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.renderTimer())
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTimer() string {
	now := time.Now()
	sections := []string{
		m.renderClock(now),
		m.bar.ViewAs(m.timer.Progress(now)),
		m.renderState(),
	}
	if presets := m.renderPresets(); presets != "" {
		sections = append(sections, "", presets)
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m *Model) renderClock(now time.Time) string {
	clock := countdown.FormatClock(m.timer.Remaining(now))
	style := clockStyle
	if m.timer.State() == countdown.StateFinished {
		style = doneStyle
		if m.alarm && m.blink/5%2 == 1 {
			style = dimClockStyle
		}
	}
	if big, width, ok := bigClock(clock); ok && width <= m.width-2 && m.height >= 12 {
		return style.Render(big)
	}
	return style.Bold(true).Render(clock)
}

func (m *Model) renderState() string {
	switch m.timer.State() {
	case countdown.StateRunning:
		return stateStyle.Render("running")
	case countdown.StatePaused:
		return stateStyle.Render("paused")
	case countdown.StateFinished:
		return doneStyle.Render("time's up")
	default:
		return stateStyle.Render("ready")
	}
}

func (m *Model) renderPresets() string {
	if len(m.cfg.Presets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.cfg.Presets))
	for i, d := range m.cfg.Presets {
		key := presetKey.Render(fmt.Sprintf("%d", i+1))
		parts = append(parts, key+" "+presetStyle.Render(countdown.FormatClock(d)))
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderInputModal() string {
	lines := []string{"Set duration (enter to apply, esc to cancel)", "", m.input.View()}
	if m.inputError != "" {
		lines = append(lines, "", errorStyle.Render(m.inputError))
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) helpText() string {
	if m.alarm {
		return "s: dismiss  Space: restart  r: reset  q: quit"
	}
	return "Space: start/pause  r: reset  d: duration  1-9: presets  q: quit"
}

func barWidth(width int) int {
	w := width - 10
	if w > maxBarWidth {
		return maxBarWidth
	}
	if w < 10 {
		return 10
	}
	return w
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
