package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/stridehq/stride/internal/store"
)

func ToCSV(checkins []store.CheckIn, habits map[int64]*store.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Habit", "Category", "Completed At", "Day", "Note"}); err != nil {
		return err
	}

	for _, c := range checkins {
		habitName, category := "Unknown", ""
		if h, ok := habits[c.HabitID]; ok {
			habitName = h.Name
			category = h.Category
		}

		row := []string{
			fmt.Sprintf("%d", c.ID),
			habitName,
			category,
			c.CompletedAt.Local().Format(time.RFC3339),
			c.CompletedAt.Local().Format("2006-01-02"),
			c.Note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
