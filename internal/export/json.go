package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"flowstate/internal/store"
)

type jsonSnapshot struct {
	ExportedAt string           `json:"exported_at"`
	Settings   jsonSettings     `json:"settings"`
	ActiveTask *int64           `json:"active_task_id"`
	Tasks      []jsonTask       `json:"tasks"`
	History    []jsonHistoryDay `json:"history"`
}

type jsonSettings struct {
	FocusMinutes      int  `json:"focus_minutes"`
	ShortBreakMinutes int  `json:"short_break_minutes"`
	LongBreakMinutes  int  `json:"long_break_minutes"`
	AlarmEnabled      bool `json:"alarm_enabled"`
	MeditationMinutes int  `json:"meditation_minutes"`
	BreathInSeconds   int  `json:"breath_in_seconds"`
	HoldInSeconds     int  `json:"hold_in_seconds"`
	BreathOutSeconds  int  `json:"breath_out_seconds"`
	HoldOutSeconds    int  `json:"hold_out_seconds"`
}

type jsonTask struct {
	ID                 int64         `json:"id"`
	Title              string        `json:"title"`
	Completed          bool          `json:"completed"`
	PomodorosCompleted int           `json:"pomodoros_completed"`
	TotalMinutes       int           `json:"total_minutes"`
	TotalBreakMinutes  int           `json:"total_break_minutes"`
	EnergyLevel        *int          `json:"energy_level,omitempty"`
	CreatedAt          string        `json:"created_at"`
	DueDate            string        `json:"due_date,omitempty"`
	StartTime          string        `json:"start_time,omitempty"`
	EndTime            string        `json:"end_time,omitempty"`
	Subtasks           []jsonSubtask `json:"subtasks,omitempty"`
}

type jsonSubtask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type jsonHistoryDay struct {
	Date              string `json:"date"`
	Pomodoros         int    `json:"pomodoros"`
	FocusMinutes      int    `json:"focus_minutes"`
	BreakMinutes      int    `json:"break_minutes"`
	MeditationMinutes int    `json:"meditation_minutes"`
	TasksCompleted    int    `json:"tasks_completed"`
}

// SnapshotJSON writes the full application state to path: settings, tasks
// with their subtasks, the active task and every history day.
func SnapshotJSON(s *store.Store, path string) error {
	set := s.LoadSettings()

	tasks, err := s.ListTasks()
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	days, err := s.AllHistory()
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	snap := jsonSnapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		ActiveTask: s.ActiveTaskID(),
		Settings: jsonSettings{
			FocusMinutes:      set.FocusMinutes,
			ShortBreakMinutes: set.ShortBreakMinutes,
			LongBreakMinutes:  set.LongBreakMinutes,
			AlarmEnabled:      set.AlarmEnabled,
			MeditationMinutes: set.MeditationMinutes,
			BreathInSeconds:   set.BreathInSeconds,
			HoldInSeconds:     set.HoldInSeconds,
			BreathOutSeconds:  set.BreathOutSeconds,
			HoldOutSeconds:    set.HoldOutSeconds,
		},
	}

	for _, t := range tasks {
		jt := jsonTask{
			ID:                 t.ID,
			Title:              t.Title,
			Completed:          t.Completed,
			PomodorosCompleted: t.PomodorosCompleted,
			TotalMinutes:       t.TotalMinutes,
			TotalBreakMinutes:  t.TotalBreakMinutes,
			EnergyLevel:        t.EnergyLevel,
			CreatedAt:          t.CreatedAt.Local().Format(time.RFC3339),
			DueDate:            timeString(t.DueDate),
			StartTime:          timeString(t.StartTime),
			EndTime:            timeString(t.EndTime),
		}
		subs, err := s.ListSubtasks(t.ID)
		if err != nil {
			return fmt.Errorf("list subtasks: %w", err)
		}
		for _, st := range subs {
			jt.Subtasks = append(jt.Subtasks, jsonSubtask{ID: st.ID, Title: st.Title, Completed: st.Completed})
		}
		snap.Tasks = append(snap.Tasks, jt)
	}

	for _, d := range days {
		snap.History = append(snap.History, jsonHistoryDay{
			Date:              d.Date,
			Pomodoros:         d.TotalPomodoros,
			FocusMinutes:      d.TotalMinutes,
			BreakMinutes:      d.TotalBreakMinutes,
			MeditationMinutes: d.TotalMeditationMinutes,
			TasksCompleted:    d.TasksCompleted,
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
