package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/clocko-app/clocko/app/models"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04:05"
)

// WriteCSV renders entries as the report CSV: one row per entry, running
// entries marked as such with zero hours and amount.
func WriteCSV(w io.Writer, entries []models.TimeEntry) error {
	cw := csv.NewWriter(w)

	header := []string{"Project", "Date", "Start Time", "End Time", "Duration (hrs)", "Rate", "Amount"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := cw.Write(entryRow(entry)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func entryRow(entry models.TimeEntry) []string {
	projectName := "Unknown"
	rate := 0.0
	if entry.Project.ID != 0 {
		projectName = entry.Project.Name
		rate = entry.Project.HourlyRate
	}

	endLabel := "Running"
	hours := 0.0
	amount := 0.0
	if entry.EndTime != nil {
		endLabel = entry.EndTime.Format(timeFormat)
		hours = float64(entry.DurationSeconds()) / 3600
		amount = hours * rate
	}

	return []string{
		projectName,
		entry.StartTime.Format(dateFormat),
		entry.StartTime.Format(timeFormat),
		endLabel,
		fmt.Sprintf("%.2f", hours),
		fmt.Sprintf("%.2f", rate),
		fmt.Sprintf("%.2f", amount),
	}
}
