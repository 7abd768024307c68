package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"flowstate/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   store.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin      *string
	shortBreakMin *string
	longBreakMin  *string
	alarm         *string
	meditationMin *string
	breathIn      *string
	holdIn        *string
	breathOut     *string
	holdOut       *string
}

func newSettingsModel(s *store.Store) settingsModel {
	f, sb, lb, al := "", "", "", ""
	mm, bi, hi, bo, ho := "", "", "", "", ""
	return settingsModel{
		store:         s,
		settings:      s.LoadSettings(),
		focusMin:      &f,
		shortBreakMin: &sb,
		longBreakMin:  &lb,
		alarm:         &al,
		meditationMin: &mm,
		breathIn:      &bi,
		holdIn:        &hi,
		breathOut:     &bo,
		holdOut:       &ho,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: s.store.LoadSettings()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	set := s.settings
	*s.focusMin = strconv.Itoa(set.FocusMinutes)
	*s.shortBreakMin = strconv.Itoa(set.ShortBreakMinutes)
	*s.longBreakMin = strconv.Itoa(set.LongBreakMinutes)
	*s.alarm = "off"
	if set.AlarmEnabled {
		*s.alarm = "on"
	}
	*s.meditationMin = strconv.Itoa(set.MeditationMinutes)
	*s.breathIn = strconv.Itoa(set.BreathInSeconds)
	*s.holdIn = strconv.Itoa(set.HoldInSeconds)
	*s.breathOut = strconv.Itoa(set.BreathOutSeconds)
	*s.holdOut = strconv.Itoa(set.HoldOutSeconds)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreakMin),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakMin),
			huh.NewSelect[string]().Title("Alarm").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.alarm),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewInput().Title("Session length (min)").Value(s.meditationMin),
			huh.NewInput().Title("Breathe in (sec)").Value(s.breathIn),
			huh.NewInput().Title("Hold (sec)").Value(s.holdIn),
			huh.NewInput().Title("Breathe out (sec)").Value(s.breathOut),
			huh.NewInput().Title("Hold (sec)").Value(s.holdOut),
		).Title("Meditation"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		set, err := s.parseForm()
		if err != nil {
			return s, tea.Batch(errorStatus(err), s.refresh())
		}
		if err := s.store.SaveSettings(set); err != nil {
			return s, tea.Batch(errorStatus(err), s.refresh())
		}
		s.settings = set
		return s, func() tea.Msg { return settingsSavedMsg{settings: set} }
	}

	return s, cmd
}

// parseForm turns the string-backed form fields into Settings, rejecting
// anything that is not a number.
func (s settingsModel) parseForm() (store.Settings, error) {
	set := s.settings
	fields := []struct {
		raw  string
		dst  *int
		name string
	}{
		{*s.focusMin, &set.FocusMinutes, "focus"},
		{*s.shortBreakMin, &set.ShortBreakMinutes, "short break"},
		{*s.longBreakMin, &set.LongBreakMinutes, "long break"},
		{*s.meditationMin, &set.MeditationMinutes, "meditation"},
		{*s.breathIn, &set.BreathInSeconds, "breathe in"},
		{*s.holdIn, &set.HoldInSeconds, "hold in"},
		{*s.breathOut, &set.BreathOutSeconds, "breathe out"},
		{*s.holdOut, &set.HoldOutSeconds, "hold out"},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(f.raw)
		if err != nil {
			return set, fmt.Errorf("%s: %q is not a number", f.name, f.raw)
		}
		*f.dst = n
	}
	set.AlarmEnabled = *s.alarm == "on"
	return set, nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	set := s.settings
	alarm := "off"
	if set.AlarmEnabled {
		alarm = "on"
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		settingRow("Focus", fmt.Sprintf("%d min", set.FocusMinutes)),
		settingRow("Short break", fmt.Sprintf("%d min", set.ShortBreakMinutes)),
		settingRow("Long break", fmt.Sprintf("%d min", set.LongBreakMinutes)),
		settingRow("Alarm", alarm),
		"",
		settingRow("Meditation", fmt.Sprintf("%d min", set.MeditationMinutes)),
		settingRow("Breath cycle", fmt.Sprintf("%d-%d-%d-%d sec",
			set.BreathInSeconds, set.HoldInSeconds, set.BreathOutSeconds, set.HoldOutSeconds)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(24).Render(label), highlightStyle.Render(value))
}
