package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// History rows are keyed by the user's local calendar date.
const dayFormat = "2006-01-02"

func today() string {
	return time.Now().Format(dayFormat)
}

type historyDelta struct {
	pomodoros         int
	minutes           int
	breakMinutes      int
	meditationMinutes int
	tasksCompleted    int
}

// addToToday locates-or-creates today's history row and applies the delta.
// tasks_completed is clamped at zero.
func (s *Store) addToToday(d historyDelta) error {
	_, err := s.db.Exec(`
		INSERT INTO history (date, total_pomodoros, total_minutes, total_break_minutes,
		                     total_meditation_minutes, tasks_completed)
		VALUES (?, ?, ?, ?, ?, max(?, 0))
		ON CONFLICT(date) DO UPDATE SET
			total_pomodoros          = total_pomodoros + excluded.total_pomodoros,
			total_minutes            = total_minutes + excluded.total_minutes,
			total_break_minutes      = total_break_minutes + excluded.total_break_minutes,
			total_meditation_minutes = total_meditation_minutes + excluded.total_meditation_minutes,
			tasks_completed          = max(tasks_completed + ?, 0)`,
		today(), d.pomodoros, d.minutes, d.breakMinutes, d.meditationMinutes,
		d.tasksCompleted, d.tasksCompleted,
	)
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	return nil
}

// FocusCompleted records one finished focus interval: the active task, if
// any, gains a pomodoro and the focus minutes, and today's rollup gains the
// same amounts.
func (s *Store) FocusCompleted(minutes int) error {
	if active := s.ActiveTaskID(); active != nil {
		_, err := s.db.Exec(
			`UPDATE tasks SET pomodoros_completed = pomodoros_completed + 1,
			 total_minutes = total_minutes + ? WHERE id = ?`,
			minutes, *active,
		)
		if err != nil {
			return fmt.Errorf("attribute pomodoro: %w", err)
		}
	}
	return s.addToToday(historyDelta{pomodoros: 1, minutes: minutes})
}

// BreakCompleted records a finished break interval against today's rollup,
// attributing the minutes to the active task's break total as well.
func (s *Store) BreakCompleted(minutes int) error {
	if active := s.ActiveTaskID(); active != nil {
		_, err := s.db.Exec(
			`UPDATE tasks SET total_break_minutes = total_break_minutes + ? WHERE id = ?`,
			minutes, *active,
		)
		if err != nil {
			return fmt.Errorf("attribute break: %w", err)
		}
	}
	return s.addToToday(historyDelta{breakMinutes: minutes})
}

// MeditationCompleted records a finished meditation session.
func (s *Store) MeditationCompleted(minutes int) error {
	return s.addToToday(historyDelta{meditationMinutes: minutes})
}

// GetDay returns the rollup for a date, or a zero-valued day when no
// activity has been recorded for it.
func (s *Store) GetDay(date string) (HistoryDay, error) {
	d := HistoryDay{Date: date}
	err := s.db.QueryRow(
		`SELECT total_pomodoros, total_minutes, total_break_minutes,
		 total_meditation_minutes, tasks_completed FROM history WHERE date = ?`, date,
	).Scan(&d.TotalPomodoros, &d.TotalMinutes, &d.TotalBreakMinutes,
		&d.TotalMeditationMinutes, &d.TasksCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("get history day %s: %w", date, err)
	}
	return d, nil
}

// Today returns today's rollup.
func (s *Store) Today() (HistoryDay, error) {
	return s.GetDay(today())
}

// History returns day rows with from <= date < to, oldest first.
func (s *Store) History(from, to time.Time) ([]HistoryDay, error) {
	return s.historyRange(from.Format(dayFormat), to.Format(dayFormat))
}

// AllHistory returns every recorded day, oldest first.
func (s *Store) AllHistory() ([]HistoryDay, error) {
	return s.historyRange("", "9999-12-31")
}

func (s *Store) historyRange(from, to string) ([]HistoryDay, error) {
	rows, err := s.db.Query(
		`SELECT date, total_pomodoros, total_minutes, total_break_minutes,
		 total_meditation_minutes, tasks_completed
		 FROM history WHERE date >= ? AND date < ? ORDER BY date`, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var days []HistoryDay
	for rows.Next() {
		var d HistoryDay
		if err := rows.Scan(&d.Date, &d.TotalPomodoros, &d.TotalMinutes,
			&d.TotalBreakMinutes, &d.TotalMeditationMinutes, &d.TasksCompleted); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// WeeklyBuckets groups day rows by calendar week, week starting on the
// local Sunday. It is a pure projection: nothing is persisted. Days whose
// date fails to parse are skipped.
func WeeklyBuckets(days []HistoryDay) []HistoryBucket {
	return bucketBy(days, func(d time.Time) (string, string) {
		start := d.AddDate(0, 0, -int(d.Weekday()))
		key := start.Format(dayFormat)
		return key, "Week of " + key
	})
}

// MonthlyBuckets groups day rows by calendar month.
func MonthlyBuckets(days []HistoryDay) []HistoryBucket {
	return bucketBy(days, func(d time.Time) (string, string) {
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return start.Format(dayFormat), start.Format("Jan 2006")
	})
}

func bucketBy(days []HistoryDay, keyFn func(time.Time) (key, label string)) []HistoryBucket {
	buckets := make(map[string]*HistoryBucket)
	for _, day := range days {
		date, err := time.ParseInLocation(dayFormat, day.Date, time.Local)
		if err != nil {
			continue
		}
		key, label := keyFn(date)
		b, ok := buckets[key]
		if !ok {
			b = &HistoryBucket{Label: label, Start: key}
			buckets[key] = b
		}
		b.TotalPomodoros += day.TotalPomodoros
		b.TotalMinutes += day.TotalMinutes
		b.TotalBreakMinutes += day.TotalBreakMinutes
		b.TotalMeditationMinutes += day.TotalMeditationMinutes
		b.TasksCompleted += day.TasksCompleted
	}

	out := make([]HistoryBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
