package export

import (
	"fmt"
	"os"

	"github.com/stridehq/stride/internal/calendar"
)

// WriteReminderICS renders a reminder event and writes it as an .ics file
// importable by any calendar app.
func WriteReminderICS(event calendar.Event, path string) error {
	payload, err := calendar.ToICS(event)
	if err != nil {
		return fmt.Errorf("render reminder: %w", err)
	}

	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}
