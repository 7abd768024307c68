package store

import "time"

type Task struct {
	ID                 int64
	Title              string
	Completed          bool
	PomodorosCompleted int
	TotalMinutes       int
	TotalBreakMinutes  int
	EnergyLevel        *int // 1 (low) to 4 (high), nil when unrated
	HasBeenCompleted   bool
	CreatedAt          time.Time
	DueDate            *time.Time
	StartTime          *time.Time
	EndTime            *time.Time
}

type Subtask struct {
	ID        int64
	TaskID    int64
	Title     string
	Completed bool
	CreatedAt time.Time
}

// TaskUpdate describes a partial task update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	DueDate     *time.Time
	EnergyLevel *int
}

// HistoryDay is one calendar day's rollup of activity. Date is the user's
// local date formatted as 2006-01-02.
type HistoryDay struct {
	Date                   string
	TotalPomodoros         int
	TotalMinutes           int
	TotalBreakMinutes      int
	TotalMeditationMinutes int
	TasksCompleted         int
}

// HistoryBucket is a read-side grouping of HistoryDay rows (one week or one
// month). It is computed on demand and never persisted.
type HistoryBucket struct {
	Label                  string
	Start                  string // first date covered, 2006-01-02
	TotalPomodoros         int
	TotalMinutes           int
	TotalBreakMinutes      int
	TotalMeditationMinutes int
	TasksCompleted         int
}

// Settings holds all user-configurable values.
type Settings struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	AlarmEnabled      bool
	MeditationMinutes int
	BreathInSeconds   int
	HoldInSeconds     int
	BreathOutSeconds  int
	HoldOutSeconds    int
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		AlarmEnabled:      true,
		MeditationMinutes: 10,
		BreathInSeconds:   4,
		HoldInSeconds:     2,
		BreathOutSeconds:  6,
		HoldOutSeconds:    2,
	}
}
