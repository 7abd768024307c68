package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowstate/internal/session"
	"flowstate/internal/store"
)

type meditationModel struct {
	store      *store.Store
	meditation *session.Meditation
	bar        progress.Model
	width      int
	height     int
}

func newMeditationModel(s *store.Store, alarm session.Alarm) meditationModel {
	set := s.LoadSettings()
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	med := session.NewMeditation(meditationConfig(set), breathCycleFromSettings(set), s, alarm)
	med.SetAlarmEnabled(set.AlarmEnabled)
	return meditationModel{store: s, meditation: med, bar: bar}
}

func meditationConfig(set store.Settings) time.Duration {
	return time.Duration(set.MeditationMinutes) * time.Minute
}

func breathCycleFromSettings(set store.Settings) session.BreathCycle {
	return session.BreathCycle{
		In:      set.BreathInSeconds,
		HoldIn:  set.HoldInSeconds,
		Out:     set.BreathOutSeconds,
		HoldOut: set.HoldOutSeconds,
	}
}

func (m *meditationModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.bar.Width = min(w-12, 50)
}

func (m *meditationModel) applySettings(set store.Settings) {
	m.meditation.Configure(meditationConfig(set), breathCycleFromSettings(set))
	m.meditation.SetAlarmEnabled(set.AlarmEnabled)
}

func (m meditationModel) running() bool {
	return m.meditation.Running()
}

func (m meditationModel) update(msg tea.Msg) (meditationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case meditationTickMsg:
		if m.meditation.Tick(msg.gen) {
			return m, func() tea.Msg {
				return statusMsg{text: "Meditation complete. Well done."}
			}
		}
		// Reschedule only the current chain so a stale tick cannot fork it.
		if m.meditation.Running() && msg.gen == m.meditation.Gen() {
			return m, meditationTickCmd(m.meditation.Gen())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if m.meditation.Running() {
				m.meditation.Stop()
				return m, nil
			}
			if m.meditation.Start() {
				return m, meditationTickCmd(m.meditation.Gen())
			}
		case key.Matches(msg, keys.Pause):
			if m.meditation.Running() {
				m.meditation.Stop()
			} else if m.meditation.Start() {
				return m, meditationTickCmd(m.meditation.Gen())
			}
		case key.Matches(msg, keys.Reset):
			m.meditation.Reset()
		}
	}
	return m, nil
}

func (m meditationModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Meditation")
	clock := timerStyle.Render(formatClock(m.meditation.Remaining()))

	phase, progressIn := m.meditation.Phase()
	phaseLine := calmStyle.Render(phase.String())
	if !m.meditation.Running() {
		phaseLine = mutedStyle.Render("press s to begin")
	}

	barView := m.bar.ViewAs(progressIn)

	cycle := m.meditation.Cycle()
	cycleLine := mutedStyle.Render(fmt.Sprintf("in %ds · hold %ds · out %ds · hold %ds",
		cycle.In, cycle.HoldIn, cycle.Out, cycle.HoldOut))

	controls := mutedStyle.Render("s: start/stop  r: reset")

	return panelStyle.Width(w).Render(strings.Join([]string{
		title,
		"",
		lipgloss.PlaceHorizontal(w-4, lipgloss.Center, clock),
		"",
		lipgloss.PlaceHorizontal(w-4, lipgloss.Center, phaseLine),
		lipgloss.PlaceHorizontal(w-4, lipgloss.Center, barView),
		"",
		lipgloss.PlaceHorizontal(w-4, lipgloss.Center, cycleLine),
		"",
		controls,
	}, "\n"))
}
