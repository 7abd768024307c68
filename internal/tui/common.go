package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowstate/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewTasks
	viewMeditation
	viewHistory
	viewSettings
)

var viewNames = []string{"Timer", "Tasks", "Meditation", "History", "Settings"}

// --- Messages ---

// timerTickMsg and meditationTickMsg carry the generation token that was
// current when the tick was scheduled. The state machines ignore stale
// tokens, so a tick that outlives a pause, reset or mode switch is inert.
type timerTickMsg struct {
	gen uint64
}

type meditationTickMsg struct {
	gen uint64
}

type statusMsg struct {
	text    string
	isError bool
}

type tasksDataMsg struct {
	tasks    []store.Task
	subtasks map[int64][]store.Subtask
	activeID *int64
}

type todayDataMsg struct {
	day store.HistoryDay
}

type historyDataMsg struct {
	days []store.HistoryDay
}

type settingsDataMsg struct {
	settings store.Settings
}

type settingsSavedMsg struct {
	settings store.Settings
}

type exportDoneMsg struct {
	path string
}

func timerTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

func meditationTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return meditationTickMsg{gen: gen}
	})
}

func errorStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

// --- Helpers ---

// formatClock renders a second count as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// formatMinutes renders a minute total as "Xh Ym" or "Ym".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
