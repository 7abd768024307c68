package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const taskColumns = `id, title, completed, pomodoros_completed, total_minutes,
	total_break_minutes, energy_level, has_been_completed, created_at,
	due_date, start_time, end_time`

// CreateTask inserts a task with zeroed accumulators. If no task is
// currently active, the new task becomes the active one.
func (s *Store) CreateTask(title string, dueDate *time.Time) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, created_at, due_date) VALUES (?, ?, ?)`,
		title, now, timePtrValue(dueDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()

	if s.ActiveTaskID() == nil {
		if err := s.SetActiveTask(&id); err != nil {
			return nil, err
		}
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns all tasks in creation order.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies the non-nil fields of u. Unknown ids are a no-op.
func (s *Store) UpdateTask(id int64, u TaskUpdate) error {
	if u.EnergyLevel != nil {
		if lv := *u.EnergyLevel; lv < 1 || lv > 4 {
			return fmt.Errorf("energy level must be 1-4, got %d", lv)
		}
	}

	query := `UPDATE tasks SET id = id`
	var args []any
	if u.Title != nil {
		query += `, title = ?`
		args = append(args, *u.Title)
	}
	if u.DueDate != nil {
		query += `, due_date = ?`
		args = append(args, u.DueDate.UTC().Format(time.RFC3339))
	}
	if u.EnergyLevel != nil {
		query += `, energy_level = ?`
		args = append(args, *u.EnergyLevel)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := s.db.Exec(query, args...)
	return err
}

// SetTaskEnergy rates a task's energy level (1 low to 4 high).
func (s *Store) SetTaskEnergy(id int64, level int) error {
	return s.UpdateTask(id, TaskUpdate{EnergyLevel: &level})
}

// DeleteTask removes a task and its subtasks. Deleting the active task
// moves the active reference to the next incomplete task, if any.
func (s *Store) DeleteTask(id int64) error {
	wasActive := s.isActive(id)
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if wasActive {
		return s.activateNextIncomplete()
	}
	return nil
}

// CompleteTask sets a task's completion state. Completing stamps
// has_been_completed and, the first time, end_time; it also moves today's
// tasks-completed count by +1 or -1, clamped at zero. Completing the active
// task hands the active reference to the next incomplete task. Toggling to
// the state the task is already in, or an unknown id, is a no-op.
func (s *Store) CompleteTask(id int64, completed bool) error {
	t, err := s.GetTask(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if t.Completed == completed {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if completed {
		_, err = s.db.Exec(
			`UPDATE tasks SET completed = 1, has_been_completed = 1,
			 end_time = COALESCE(end_time, ?) WHERE id = ?`, now, id)
	} else {
		_, err = s.db.Exec(`UPDATE tasks SET completed = 0 WHERE id = ?`, id)
	}
	if err != nil {
		return fmt.Errorf("complete task %d: %w", id, err)
	}

	delta := 1
	if !completed {
		delta = -1
	}
	if err := s.addToToday(historyDelta{tasksCompleted: delta}); err != nil {
		return err
	}

	if completed && s.isActive(id) {
		return s.activateNextIncomplete()
	}
	return nil
}

// SetActiveTask changes which task accrues completed focus intervals. A nil
// id clears the reference. Activating a task stamps its start_time on first
// activation; unknown ids are a no-op.
func (s *Store) SetActiveTask(id *int64) error {
	if id == nil {
		return s.SetSetting("active_task", "")
	}

	var start sql.NullString
	err := s.db.QueryRow(`SELECT start_time FROM tasks WHERE id = ?`, *id).Scan(&start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("activate task %d: %w", *id, err)
	}

	if !start.Valid {
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := s.db.Exec(`UPDATE tasks SET start_time = ? WHERE id = ?`, now, *id); err != nil {
			return fmt.Errorf("stamp start time: %w", err)
		}
	}
	return s.SetSetting("active_task", strconv.FormatInt(*id, 10))
}

// ActiveTaskID returns the active task id, or nil when none is set or the
// stored value is unusable.
func (s *Store) ActiveTaskID() *int64 {
	v, err := s.GetSetting("active_task")
	if err != nil || v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// ClearCompletedTasks deletes every completed task.
func (s *Store) ClearCompletedTasks() error {
	active := s.ActiveTaskID()
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE completed = 1`); err != nil {
		return fmt.Errorf("clear completed tasks: %w", err)
	}
	if active != nil {
		if _, err := s.GetTask(*active); err != nil {
			return s.activateNextIncomplete()
		}
	}
	return nil
}

// ClearAllTasks deletes every task and clears the active reference.
func (s *Store) ClearAllTasks() error {
	if _, err := s.db.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return s.SetActiveTask(nil)
}

func (s *Store) isActive(id int64) bool {
	active := s.ActiveTaskID()
	return active != nil && *active == id
}

func (s *Store) activateNextIncomplete() error {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM tasks WHERE completed = 0 ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return s.SetActiveTask(nil)
	}
	if err != nil {
		return fmt.Errorf("next incomplete task: %w", err)
	}
	return s.SetActiveTask(&id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*Task, error) {
	t := &Task{}
	var completed, hasBeen int
	var energy sql.NullInt64
	var createdAt string
	var dueDate, startTime, endTime sql.NullString

	err := r.Scan(&t.ID, &t.Title, &completed, &t.PomodorosCompleted,
		&t.TotalMinutes, &t.TotalBreakMinutes, &energy, &hasBeen,
		&createdAt, &dueDate, &startTime, &endTime)
	if err != nil {
		return nil, err
	}

	t.Completed = completed == 1
	t.HasBeenCompleted = hasBeen == 1
	if energy.Valid {
		lv := int(energy.Int64)
		t.EnergyLevel = &lv
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.DueDate = parseTimePtr(dueDate)
	t.StartTime = parseTimePtr(startTime)
	t.EndTime = parseTimePtr(endTime)
	return t, nil
}

func parseTimePtr(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func timePtrValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
