package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"flowstate/internal/store"
)

const dueDateFormat = "2006-01-02"

// taskRow is one visible line in the task list: either a task or, when the
// task is expanded, one of its subtasks.
type taskRow struct {
	task    store.Task
	subtask *store.Subtask
}

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks    []store.Task
	subtasks map[int64][]store.Subtask
	activeID *int64
	expanded map[int64]bool
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "task", "subtask"
	parentID   int64  // subtask form target

	// Form field pointers (survive value copies)
	formTitle  *string
	formDue    *string
	formEnergy *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, due, energy := "", "", ""
	return tasksModel{
		store:      s,
		expanded:   make(map[int64]bool),
		formTitle:  &title,
		formDue:    &due,
		formEnergy: &energy,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListTasks()
		subs := make(map[int64][]store.Subtask)
		for _, t := range tasks {
			list, _ := m.store.ListSubtasks(t.ID)
			if len(list) > 0 {
				subs[t.ID] = list
			}
		}
		return tasksDataMsg{tasks: tasks, subtasks: subs, activeID: m.store.ActiveTaskID()}
	}
}

func (m tasksModel) rows() []taskRow {
	var rows []taskRow
	for _, t := range m.tasks {
		rows = append(rows, taskRow{task: t})
		if !m.expanded[t.ID] {
			continue
		}
		for i := range m.subtasks[t.ID] {
			rows = append(rows, taskRow{task: t, subtask: &m.subtasks[t.ID][i]})
		}
	}
	return rows
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.subtasks = msg.subtasks
		m.activeID = msg.activeID
		if n := len(m.rows()); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showTaskForm()
	case key.Matches(msg, keys.Subtask):
		if len(rows) > 0 {
			return m.showSubtaskForm(rows[m.cursor].task.ID)
		}
	case key.Matches(msg, keys.Expand):
		if len(rows) > 0 {
			id := rows[m.cursor].task.ID
			m.expanded[id] = !m.expanded[id]
		}
	case key.Matches(msg, keys.Toggle):
		if len(rows) == 0 {
			return m, nil
		}
		row := rows[m.cursor]
		if row.subtask != nil {
			if err := m.store.CompleteSubtask(row.subtask.ID, !row.subtask.Completed); err != nil {
				return m, errorStatus(err)
			}
		} else {
			if err := m.store.CompleteTask(row.task.ID, !row.task.Completed); err != nil {
				return m, errorStatus(err)
			}
		}
		return m, m.refresh()
	case key.Matches(msg, keys.Delete):
		if len(rows) == 0 {
			return m, nil
		}
		row := rows[m.cursor]
		if row.subtask != nil {
			if err := m.store.DeleteSubtask(row.subtask.ID); err != nil {
				return m, errorStatus(err)
			}
		} else {
			if err := m.store.DeleteTask(row.task.ID); err != nil {
				return m, errorStatus(err)
			}
		}
		return m, m.refresh()
	case key.Matches(msg, keys.Enter):
		if len(rows) == 0 {
			return m, nil
		}
		if row := rows[m.cursor]; row.subtask == nil {
			id := row.task.ID
			if err := m.store.SetActiveTask(&id); err != nil {
				return m, errorStatus(err)
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Energy):
		if len(rows) == 0 {
			return m, nil
		}
		if row := rows[m.cursor]; row.subtask == nil {
			next := 1
			if row.task.EnergyLevel != nil {
				next = *row.task.EnergyLevel%4 + 1
			}
			if err := m.store.SetTaskEnergy(row.task.ID, next); err != nil {
				return m, errorStatus(err)
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m tasksModel) showTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDue = ""
	*m.formEnergy = ""
	m.formType = "task"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(m.formDue),
			huh.NewSelect[string]().Title("Energy level").
				Options(
					huh.NewOption("unrated", ""),
					huh.NewOption("1 — drained", "1"),
					huh.NewOption("2 — low", "2"),
					huh.NewOption("3 — steady", "3"),
					huh.NewOption("4 — energized", "4"),
				).Value(m.formEnergy),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showSubtaskForm(parentID int64) (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	m.formType = "subtask"
	m.parentID = parentID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subtask title").Value(m.formTitle),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "task":
			if *m.formTitle != "" {
				if err := m.submitTask(); err != nil {
					return m, tea.Batch(errorStatus(err), m.refresh())
				}
			}
		case "subtask":
			if *m.formTitle != "" {
				if _, err := m.store.AddSubtask(m.parentID, *m.formTitle); err != nil {
					return m, tea.Batch(errorStatus(err), m.refresh())
				}
				m.expanded[m.parentID] = true
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m tasksModel) submitTask() error {
	var due *time.Time
	if *m.formDue != "" {
		d, err := time.ParseInLocation(dueDateFormat, *m.formDue, time.Local)
		if err != nil {
			return fmt.Errorf("bad due date %q", *m.formDue)
		}
		due = &d
	}
	task, err := m.store.CreateTask(*m.formTitle, due)
	if err != nil {
		return err
	}
	if *m.formEnergy != "" {
		lv := int((*m.formEnergy)[0] - '0')
		return m.store.SetTaskEnergy(task.ID, lv)
	}
	return nil
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formType == "subtask" {
			title = titleStyle.Render("New Subtask")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Tasks")
	rows := m.rows()
	if len(rows) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No tasks yet. Press n to add one."),
		))
	}

	var lines []string
	lines = append(lines, title, "")
	for i, row := range rows {
		lines = append(lines, m.renderRow(row, i == m.cursor))
	}
	lines = append(lines, "",
		mutedStyle.Render("  n: new  a: subtask  c: complete  d: delete  enter: set active  e: energy  o: expand"))

	return panelStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func (m tasksModel) renderRow(row taskRow, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	if row.subtask != nil {
		check := "☐"
		if row.subtask.Completed {
			check = "☑"
			if !selected {
				style = completedItemStyle
			}
		}
		return style.Render(fmt.Sprintf("%s    %s %s", cursor, check, row.subtask.Title))
	}

	t := row.task
	check := "☐"
	if t.Completed {
		check = "☑"
		if !selected {
			style = completedItemStyle
		}
	}

	active := " "
	if m.activeID != nil && *m.activeID == t.ID {
		active = accentStyle.Render("▸")
	}

	energy := " "
	if t.EnergyLevel != nil {
		lv := *t.EnergyLevel
		energy = lipgloss.NewStyle().Foreground(energyColors[lv-1]).Render(strings.Repeat("▪", lv))
	}

	meta := fmt.Sprintf("%d🍅 %s", t.PomodorosCompleted, formatMinutes(t.TotalMinutes))
	if t.DueDate != nil {
		due := t.DueDate.Format(dueDateFormat)
		if !t.Completed && t.DueDate.Before(time.Now()) {
			due = errorStyle.Render(due)
		}
		meta += "  due " + due
	}
	if n := len(m.subtasks[t.ID]); n > 0 {
		done := 0
		for _, st := range m.subtasks[t.ID] {
			if st.Completed {
				done++
			}
		}
		meta += fmt.Sprintf("  [%d/%d]", done, n)
	}

	return fmt.Sprintf("%s%s %s %s  %s  %s",
		cursor, active, check, style.Render(t.Title), energy, mutedStyle.Render(meta))
}
