// Package stats computes per-day totals over the extracted records.
package stats

import (
	"fmt"
	"strings"
	"time"

	"sleepfeedbot/internal/extract"
)

// DailyStats is the derived summary of one calendar day.
type DailyStats struct {
	Day          time.Time
	FeedVolumeML int
	SleepHours   float64
	AwakeHours   float64
}

// Aggregate walks every calendar day in [from, to] inclusive, in ascending
// order, and sums the records anchored to that day. Days without records
// report zero. A sleep interval contributes its full duration to its anchor
// day even when it ends on the next one; awake hours are simply 24 minus
// sleep and may go negative when logged intervals overlap.
func Aggregate(sleeps []extract.SleepRecord, feeds []extract.FeedRecord, from, to time.Time) []DailyStats {
	feedByDay := make(map[time.Time]int)
	for _, record := range feeds {
		feedByDay[record.Day] += record.VolumeML
	}
	sleepByDay := make(map[time.Time]time.Duration)
	for _, record := range sleeps {
		sleepByDay[record.Day] += record.Duration()
	}

	var days []DailyStats
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		sleepHours := sleepByDay[day].Hours()
		days = append(days, DailyStats{
			Day:          day,
			FeedVolumeML: feedByDay[day],
			SleepHours:   sleepHours,
			AwakeHours:   24 - sleepHours,
		})
	}
	return days
}

// Report renders the per-day stats as the bot's plain-text reply, one block
// per day separated by blank lines.
func Report(days []DailyStats) string {
	blocks := make([]string, 0, len(days))
	for _, day := range days {
		blocks = append(blocks, strings.Join([]string{
			day.Day.Format("02.01.2006"),
			fmt.Sprintf("Съедено: %d мл", day.FeedVolumeML),
			fmt.Sprintf("Сон: %.1f ч", day.SleepHours),
			fmt.Sprintf("Бодрствование: %.1f ч", day.AwakeHours),
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
