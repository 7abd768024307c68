package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"flowstate/internal/store"
)

// HistoryCSV writes one row per recorded day, oldest first.
func HistoryCSV(days []store.HistoryDay, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Date", "Pomodoros", "Focus (min)", "Breaks (min)", "Meditation (min)", "Tasks Completed"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{
			d.Date,
			fmt.Sprintf("%d", d.TotalPomodoros),
			fmt.Sprintf("%d", d.TotalMinutes),
			fmt.Sprintf("%d", d.TotalBreakMinutes),
			fmt.Sprintf("%d", d.TotalMeditationMinutes),
			fmt.Sprintf("%d", d.TasksCompleted),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
