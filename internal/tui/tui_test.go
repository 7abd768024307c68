package tui

import (
	"testing"
	"time"

	"flowstate/internal/session"
	"flowstate/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Timer model
// ============================================================

func TestTimerModelInit(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, session.NopAlarm{})

	if tm.running() {
		t.Fatal("timer should start idle")
	}
	if tm.timer.Mode() != session.ModeFocus {
		t.Fatalf("mode = %v, want focus", tm.timer.Mode())
	}
	if tm.timer.Remaining() != 25*60 {
		t.Fatalf("remaining = %d, want 1500", tm.timer.Remaining())
	}
}

func TestTimerModelStartKeySchedulesTick(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, session.NopAlarm{})

	if !tm.timer.Start() {
		t.Fatal("start should succeed from idle")
	}
	if !tm.running() {
		t.Fatal("timer should be running")
	}
}

func TestTimerModelTickToCompletion(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, session.NopAlarm{})
	tm.timer.Start()

	for i := 0; i < 25*60; i++ {
		tm, _ = tm.update(timerTickMsg{gen: tm.timer.Gen()})
	}

	if tm.timer.Status() != session.StatusCompleted {
		t.Fatalf("status = %v, want completed", tm.timer.Status())
	}
	if tm.timer.Mode() != session.ModeShortBreak {
		t.Fatalf("mode = %v, want short break", tm.timer.Mode())
	}

	day, err := s.Today()
	if err != nil {
		t.Fatal(err)
	}
	if day.TotalPomodoros != 1 || day.TotalMinutes != 25 {
		t.Fatalf("today = %+v, want 1 pomodoro / 25 min", day)
	}
}

func TestTimerModelStaleTickIgnored(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, session.NopAlarm{})
	tm.timer.Start()

	stale := tm.timer.Gen()
	tm.timer.Pause()
	before := tm.timer.Remaining()

	tm, _ = tm.update(timerTickMsg{gen: stale})
	if tm.timer.Remaining() != before {
		t.Fatal("stale tick should not decrement a paused timer")
	}
}

func TestTimerModelModeCycle(t *testing.T) {
	if nextMode(session.ModeFocus) != session.ModeShortBreak {
		t.Fatal("focus should cycle to short break")
	}
	if nextMode(session.ModeShortBreak) != session.ModeLongBreak {
		t.Fatal("short break should cycle to long break")
	}
	if nextMode(session.ModeLongBreak) != session.ModeFocus {
		t.Fatal("long break should cycle to focus")
	}
}

func TestTimerModelAppliesSettings(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, session.NopAlarm{})

	set := store.DefaultSettings()
	set.FocusMinutes = 50
	tm.applySettings(set)

	if tm.timer.Remaining() != 50*60 {
		t.Fatalf("remaining = %d, want 3000 after settings change while idle", tm.timer.Remaining())
	}
}

func TestTimerModelTodayData(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("deep work", nil)
	tm := newTimerModel(s, session.NopAlarm{})

	day := store.HistoryDay{Date: "2025-01-01", TotalPomodoros: 3}
	tm, _ = tm.update(todayDataMsg{day: day})

	if tm.today.TotalPomodoros != 3 {
		t.Fatalf("today = %+v", tm.today)
	}
	if tm.activeName != task.Title {
		t.Fatalf("activeName = %q, want %q", tm.activeName, task.Title)
	}
}

// ============================================================
// Meditation model
// ============================================================

func TestMeditationModelTickToCompletion(t *testing.T) {
	s := newTestStore(t)
	m := newMeditationModel(s, session.NopAlarm{})

	if !m.meditation.Start() {
		t.Fatal("start should succeed")
	}
	for i := 0; i < 10*60; i++ {
		m, _ = m.update(meditationTickMsg{gen: m.meditation.Gen()})
	}

	if m.running() {
		t.Fatal("meditation should have finished")
	}
	day, err := s.Today()
	if err != nil {
		t.Fatal(err)
	}
	if day.TotalMeditationMinutes != 10 {
		t.Fatalf("meditation minutes = %d, want 10", day.TotalMeditationMinutes)
	}
}

func TestMeditationModelAppliesSettings(t *testing.T) {
	s := newTestStore(t)
	m := newMeditationModel(s, session.NopAlarm{})

	set := store.DefaultSettings()
	set.MeditationMinutes = 3
	set.BreathInSeconds = 5
	m.applySettings(set)

	if m.meditation.Remaining() != 3*60 {
		t.Fatalf("remaining = %d, want 180", m.meditation.Remaining())
	}
	if m.meditation.Cycle().In != 5 {
		t.Fatalf("cycle in = %d, want 5", m.meditation.Cycle().In)
	}
}

// ============================================================
// Tasks model
// ============================================================

func TestTasksModelRows(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateTask("alpha", nil)
	b, _ := s.CreateTask("beta", nil)
	s.AddSubtask(a.ID, "one")
	s.AddSubtask(a.ID, "two")

	tm := newTasksModel(s)
	msg := tm.refresh()().(tasksDataMsg)
	tm, _ = tm.update(msg)

	// Collapsed: only the two tasks are visible.
	rows := tm.rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	tm.expanded[a.ID] = true
	rows = tm.rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 with expanded subtasks", len(rows))
	}
	if rows[1].subtask == nil || rows[1].subtask.Title != "one" {
		t.Fatalf("row 1 = %+v, want subtask 'one'", rows[1])
	}
	if rows[3].task.ID != b.ID || rows[3].subtask != nil {
		t.Fatalf("row 3 = %+v, want task beta", rows[3])
	}
}

func TestTasksModelCursorClamped(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("only", nil)

	tm := newTasksModel(s)
	msg := tm.refresh()().(tasksDataMsg)
	tm, _ = tm.update(msg)
	tm.cursor = 5

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	msg = tm.refresh()().(tasksDataMsg)
	tm, _ = tm.update(msg)

	if tm.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after list emptied", tm.cursor)
	}
}

func TestTasksModelSubmitTask(t *testing.T) {
	s := newTestStore(t)
	tm := newTasksModel(s)

	*tm.formTitle = "write report"
	*tm.formDue = "2025-06-01"
	*tm.formEnergy = "3"

	if err := tm.submitTask(); err != nil {
		t.Fatal(err)
	}

	tasks, _ := s.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Title != "write report" {
		t.Fatalf("title = %q", task.Title)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2025-06-01" {
		t.Fatalf("due date = %v", task.DueDate)
	}
	if task.EnergyLevel == nil || *task.EnergyLevel != 3 {
		t.Fatalf("energy = %v, want 3", task.EnergyLevel)
	}
}

func TestTasksModelSubmitTaskBadDate(t *testing.T) {
	s := newTestStore(t)
	tm := newTasksModel(s)

	*tm.formTitle = "oops"
	*tm.formDue = "June 1st"
	*tm.formEnergy = ""

	if err := tm.submitTask(); err == nil {
		t.Fatal("expected error for unparseable due date")
	}
	tasks, _ := s.ListTasks()
	if len(tasks) != 0 {
		t.Fatal("no task should be created on bad input")
	}
}

// ============================================================
// History model
// ============================================================

func TestHistoryModelDailyBuckets(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.mode = historyDaily

	buckets := h.buckets()
	if len(buckets) != 7 {
		t.Fatalf("daily buckets = %d, want 7", len(buckets))
	}
	last := buckets[6]
	if last.Start != time.Now().Format("2006-01-02") {
		t.Fatalf("last bucket = %q, want today", last.Start)
	}
}

func TestHistoryModelBucketCap(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.mode = historyMonthly

	// 20 months of data should be capped at the most recent 12.
	for i := 0; i < 20; i++ {
		h.days = append(h.days, store.HistoryDay{
			Date:           time.Date(2023, time.Month(1+i), 15, 0, 0, 0, 0, time.Local).Format("2006-01-02"),
			TotalPomodoros: 1,
		})
	}

	buckets := h.buckets()
	if len(buckets) != 12 {
		t.Fatalf("monthly buckets = %d, want 12", len(buckets))
	}
}

func TestHistoryModeCycles(t *testing.T) {
	modes := []historyMode{historyDaily, historyWeekly, historyMonthly}
	names := []string{"Daily", "Weekly", "Monthly"}
	for i, m := range modes {
		if m.String() != names[i] {
			t.Fatalf("mode %d = %q, want %q", i, m.String(), names[i])
		}
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsParseForm(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s)

	*sm.focusMin = "30"
	*sm.shortBreakMin = "7"
	*sm.longBreakMin = "20"
	*sm.alarm = "off"
	*sm.meditationMin = "12"
	*sm.breathIn = "5"
	*sm.holdIn = "0"
	*sm.breathOut = "7"
	*sm.holdOut = "0"

	set, err := sm.parseForm()
	if err != nil {
		t.Fatal(err)
	}
	if set.FocusMinutes != 30 || set.ShortBreakMinutes != 7 || set.LongBreakMinutes != 20 {
		t.Fatalf("timer settings = %+v", set)
	}
	if set.AlarmEnabled {
		t.Fatal("alarm should be off")
	}
	if set.MeditationMinutes != 12 || set.BreathInSeconds != 5 || set.HoldInSeconds != 0 {
		t.Fatalf("meditation settings = %+v", set)
	}
}

func TestSettingsParseFormRejectsNonNumber(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s)

	*sm.focusMin = "twenty"
	*sm.shortBreakMin = "5"
	*sm.longBreakMin = "15"
	*sm.alarm = "on"
	*sm.meditationMin = "10"
	*sm.breathIn = "4"
	*sm.holdIn = "2"
	*sm.breathOut = "6"
	*sm.holdOut = "2"

	if _, err := sm.parseForm(); err == nil {
		t.Fatal("expected error for non-numeric field")
	}
}

// ============================================================
// Format helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 00m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if min(3, 5) != 3 || min(5, 3) != 3 {
		t.Fatal("min broken")
	}
	if max(3, 5) != 5 || max(5, 3) != 5 {
		t.Fatal("max broken")
	}
}

// ============================================================
// Common view state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Timer", "Tasks", "Meditation", "History", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewTimer != 0 || viewTasks != 1 || viewMeditation != 2 || viewHistory != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.activeView != viewTimer {
		t.Fatal("default view should be timer")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	views := []viewState{viewTimer, viewTasks, viewMeditation, viewHistory, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !stringContains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !stringContains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppSettingsSavedReconfiguresSessions(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	set := store.DefaultSettings()
	set.FocusMinutes = 45
	set.MeditationMinutes = 5

	model, _ := app.Update(settingsSavedMsg{settings: set})
	app = model.(App)

	if app.timer.timer.Remaining() != 45*60 {
		t.Fatalf("timer remaining = %d, want 2700", app.timer.timer.Remaining())
	}
	if app.meditation.meditation.Remaining() != 5*60 {
		t.Fatalf("meditation remaining = %d, want 300", app.meditation.meditation.Remaining())
	}
}

func TestAppExportPickerRenders(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40
	app.exportPicking = true

	output := app.View()
	if !stringContains(output, "Export Format") {
		t.Fatal("export picker should be visible")
	}
}

func stringContains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"calm", func() string { return calmStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"completedItem", func() string { return completedItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
