package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowstate/internal/session"
	"flowstate/internal/store"
)

// timerModel owns the focus/break state machine and renders the main
// countdown screen together with today's totals.
type timerModel struct {
	store  *store.Store
	timer  *session.Timer
	width  int
	height int

	today      store.HistoryDay
	activeName string
}

func newTimerModel(s *store.Store, alarm session.Alarm) timerModel {
	set := s.LoadSettings()
	t := session.NewTimer(durationsFromSettings(set), s, alarm)
	t.SetAlarmEnabled(set.AlarmEnabled)
	return timerModel{store: s, timer: t}
}

func durationsFromSettings(set store.Settings) session.Durations {
	return session.Durations{
		Focus:      time.Duration(set.FocusMinutes) * time.Minute,
		ShortBreak: time.Duration(set.ShortBreakMinutes) * time.Minute,
		LongBreak:  time.Duration(set.LongBreakMinutes) * time.Minute,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *timerModel) applySettings(set store.Settings) {
	t.timer.SetDurations(durationsFromSettings(set))
	t.timer.SetAlarmEnabled(set.AlarmEnabled)
}

func (t timerModel) running() bool {
	return t.timer.Status() == session.StatusRunning
}

func (t timerModel) loadData() tea.Cmd {
	return func() tea.Msg {
		day, _ := t.store.Today()
		return todayDataMsg{day: day}
	}
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		completed := t.timer.Tick(msg.gen)
		if completed {
			text := "Focus complete! Time for a break"
			if t.timer.Mode() == session.ModeFocus {
				// We already advanced back into focus, so a break just ended.
				text = "Break over! Back to focus"
			}
			return t, tea.Batch(
				t.loadData(),
				func() tea.Msg { return statusMsg{text: text} },
			)
		}
		// Reschedule only the current chain so a stale tick cannot fork it.
		if t.running() && msg.gen == t.timer.Gen() {
			return t, timerTickCmd(t.timer.Gen())
		}
		return t, nil

	case todayDataMsg:
		t.today = msg.day
		t.activeName = ""
		if id := t.store.ActiveTaskID(); id != nil {
			if task, err := t.store.GetTask(*id); err == nil {
				t.activeName = task.Title
			}
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if t.timer.Start() {
				return t, timerTickCmd(t.timer.Gen())
			}
		case key.Matches(msg, keys.Pause):
			switch t.timer.Status() {
			case session.StatusRunning:
				t.timer.Pause()
			case session.StatusPaused:
				if t.timer.Start() {
					return t, timerTickCmd(t.timer.Gen())
				}
			}
		case key.Matches(msg, keys.Reset):
			t.timer.Reset()
		case key.Matches(msg, keys.Mode):
			t.timer.SetMode(nextMode(t.timer.Mode()))
		}
	}
	return t, nil
}

func nextMode(m session.Mode) session.Mode {
	switch m {
	case session.ModeFocus:
		return session.ModeShortBreak
	case session.ModeShortBreak:
		return session.ModeLongBreak
	default:
		return session.ModeFocus
	}
}

func (t timerModel) view() string {
	w := t.width - 4

	clock := formatClock(t.timer.Remaining())
	var timeDisplay, statusLabel string

	switch t.timer.Status() {
	case session.StatusRunning:
		style := accentStyle
		if t.timer.Mode() != session.ModeFocus {
			style = successStyle
		}
		timeDisplay = style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		statusLabel = style.Bold(true).Render(t.timer.Mode().String())
	case session.StatusPaused:
		timeDisplay = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		statusLabel = warningStyle.Render("PAUSED — " + t.timer.Mode().String())
	case session.StatusCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		statusLabel = successStyle.Render("DONE — next up: " + t.timer.Mode().String())
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		statusLabel = mutedStyle.Render(t.timer.Mode().String())
	}

	activeLine := mutedStyle.Render("No active task")
	if t.activeName != "" {
		activeLine = highlightStyle.Render("▸ " + t.activeName)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Flow Timer"),
		"",
		timeDisplay,
		statusLabel,
		"",
		activeLine,
	)

	controls := mutedStyle.Render("s: start  space: pause/resume  r: reset  m: mode")
	timerPanel := activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, t.renderTodayPanel(w))
}

func (t timerModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	stats := []string{
		fmt.Sprintf("  %s %d", mutedStyle.Render("pomodoros"), t.today.TotalPomodoros),
		fmt.Sprintf("  %s %s", mutedStyle.Render("focus"), formatMinutes(t.today.TotalMinutes)),
		fmt.Sprintf("  %s %s", mutedStyle.Render("breaks"), formatMinutes(t.today.TotalBreakMinutes)),
		fmt.Sprintf("  %s %s", mutedStyle.Render("meditation"), formatMinutes(t.today.TotalMeditationMinutes)),
		fmt.Sprintf("  %s %d", mutedStyle.Render("tasks done"), t.today.TasksCompleted),
	}
	return panelStyle.Width(w).Render(title + "\n" + strings.Join(stats, "\n"))
}
