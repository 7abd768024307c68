package store

import (
	"fmt"
	"time"
)

// Subtask operations mirror task operations but never touch history.

func (s *Store) AddSubtask(taskID int64, title string) (*Subtask, error) {
	if _, err := s.GetTask(taskID); err != nil {
		return nil, fmt.Errorf("add subtask: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO subtasks (task_id, title, created_at) VALUES (?, ?, ?)`,
		taskID, title, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subtask: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSubtask(id)
}

func (s *Store) GetSubtask(id int64) (*Subtask, error) {
	st := &Subtask{}
	var completed int
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, task_id, title, completed, created_at FROM subtasks WHERE id = ?`, id,
	).Scan(&st.ID, &st.TaskID, &st.Title, &completed, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get subtask %d: %w", id, err)
	}
	st.Completed = completed == 1
	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return st, nil
}

func (s *Store) ListSubtasks(taskID int64) ([]Subtask, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, title, completed, created_at FROM subtasks WHERE task_id = ? ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []Subtask
	for rows.Next() {
		var st Subtask
		var completed int
		var createdAt string
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &completed, &createdAt); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func (s *Store) CompleteSubtask(id int64, completed bool) error {
	v := 0
	if completed {
		v = 1
	}
	_, err := s.db.Exec(`UPDATE subtasks SET completed = ? WHERE id = ?`, v, id)
	return err
}

func (s *Store) DeleteSubtask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM subtasks WHERE id = ?`, id)
	return err
}
