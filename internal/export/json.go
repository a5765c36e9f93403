package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/stridehq/stride/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	CheckIns   []jsonCheckIn `json:"checkins"`
}

type jsonCheckIn struct {
	ID          int64  `json:"id"`
	Habit       string `json:"habit"`
	HabitID     int64  `json:"habit_id"`
	Category    string `json:"category,omitempty"`
	CompletedAt string `json:"completed_at"`
	Day         string `json:"day"`
	Note        string `json:"note,omitempty"`
}

func ToJSON(checkins []store.CheckIn, habits map[int64]*store.Habit, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(checkins),
	}

	for _, c := range checkins {
		habitName, category := "Unknown", ""
		if h, ok := habits[c.HabitID]; ok {
			habitName = h.Name
			category = h.Category
		}

		export.CheckIns = append(export.CheckIns, jsonCheckIn{
			ID:          c.ID,
			Habit:       habitName,
			HabitID:     c.HabitID,
			Category:    category,
			CompletedAt: c.CompletedAt.Local().Format(time.RFC3339),
			Day:         c.CompletedAt.Local().Format("2006-01-02"),
			Note:        c.Note,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
