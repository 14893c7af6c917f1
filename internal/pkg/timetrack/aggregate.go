package timetrack

import "github.com/clocko-app/clocko/app/models"

// Summary holds the aggregated figures shown on the dashboard and in every
// export. All surfaces must go through Summarize so they can never disagree.
type Summary struct {
	TotalHours   float64
	TotalRevenue float64
}

// Summarize sums hours and revenue over the given entries. Running entries
// contribute nothing; entries whose project did not resolve count their hours
// but no revenue.
func Summarize(entries []models.TimeEntry) Summary {
	var summary Summary
	for _, entry := range entries {
		seconds := entry.DurationSeconds()
		if seconds <= 0 {
			continue
		}
		hours := float64(seconds) / 3600
		summary.TotalHours += hours
		if entry.Project.ID != 0 {
			summary.TotalRevenue += hours * entry.Project.HourlyRate
		}
	}
	return summary
}
