// Package chart turns raw records into the drawable series consumed by the
// rendering backend.
package chart

import (
	"sort"
	"time"

	"sleepfeedbot/internal/extract"
)

// Intensity is the coarse visual tier of a feed volume.
type Intensity int

const (
	IntensityLow Intensity = iota
	IntensityMid
	IntensityMidHigh
	IntensityHigh
)

// Bucket maps a feed volume in milliliters to its intensity tier.
func Bucket(volumeML int) Intensity {
	switch {
	case volumeML <= 40:
		return IntensityLow
	case volumeML <= 70:
		return IntensityMid
	case volumeML <= 100:
		return IntensityMidHigh
	default:
		return IntensityHigh
	}
}

// SleepSpan is a sleep interval as hour offsets from its day's midnight.
// EndHour exceeds 24 when the interval runs into the next day.
type SleepSpan struct {
	StartHour float64
	EndHour   float64
}

// FeedPoint is a feeding event as an hour offset plus its intensity tier.
type FeedPoint struct {
	Hour      float64
	VolumeML  int
	Intensity Intensity
}

// TimelineDay collects one day's spans and points, each normalized against
// that day's own midnight rather than a shared origin.
type TimelineDay struct {
	Day    time.Time
	Sleeps []SleepSpan
	Feeds  []FeedPoint
}

// Timeline builds one row per distinct day present in either record set,
// ascending. Returns nil when there is nothing to draw.
func Timeline(sleeps []extract.SleepRecord, feeds []extract.FeedRecord) []TimelineDay {
	days := dayAxis(sleeps, feeds)
	if len(days) == 0 {
		return nil
	}

	rows := make([]TimelineDay, 0, len(days))
	for _, day := range days {
		row := TimelineDay{Day: day}
		for _, record := range sleeps {
			if !record.Day.Equal(day) {
				continue
			}
			row.Sleeps = append(row.Sleeps, SleepSpan{
				StartHour: hoursSinceMidnight(day, record.Start),
				EndHour:   hoursSinceMidnight(day, record.End),
			})
		}
		for _, record := range feeds {
			if !record.Day.Equal(day) {
				continue
			}
			row.Feeds = append(row.Feeds, FeedPoint{
				Hour:      hoursSinceMidnight(day, record.At),
				VolumeML:  record.VolumeML,
				Intensity: Bucket(record.VolumeML),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// Fixed minimum axis ceilings keep low-activity days from auto-scaling into
// visual noise.
const (
	MinFeedAxisML   = 120
	MinSleepAxisHrs = 15
)

// SummaryPoint carries one day's totals; a nil field means that series has
// no data on that day.
type SummaryPoint struct {
	Day          time.Time
	FeedVolumeML *int
	SleepHours   *float64
}

// Summary is the per-day two-series table plus its fixed axis bounds.
type Summary struct {
	Points       []SummaryPoint
	FeedAxisMax  float64
	SleepAxisMax float64
}

// Summarize groups both record kinds over a shared sorted day axis. Sleep is
// summed in whole minutes internally and reported in hours. Returns nil when
// both record sets are empty.
func Summarize(sleeps []extract.SleepRecord, feeds []extract.FeedRecord) *Summary {
	days := dayAxis(sleeps, feeds)
	if len(days) == 0 {
		return nil
	}

	feedByDay := make(map[time.Time]int)
	for _, record := range feeds {
		feedByDay[record.Day] += record.VolumeML
	}
	sleepMinutesByDay := make(map[time.Time]int)
	for _, record := range sleeps {
		sleepMinutesByDay[record.Day] += int(record.Duration() / time.Minute)
	}

	summary := &Summary{
		Points:       make([]SummaryPoint, 0, len(days)),
		FeedAxisMax:  MinFeedAxisML,
		SleepAxisMax: MinSleepAxisHrs,
	}
	for _, day := range days {
		point := SummaryPoint{Day: day}
		if volume, ok := feedByDay[day]; ok {
			point.FeedVolumeML = &volume
			if float64(volume) > summary.FeedAxisMax {
				summary.FeedAxisMax = float64(volume)
			}
		}
		if minutes, ok := sleepMinutesByDay[day]; ok {
			hours := float64(minutes) / 60
			point.SleepHours = &hours
			if hours > summary.SleepAxisMax {
				summary.SleepAxisMax = hours
			}
		}
		summary.Points = append(summary.Points, point)
	}
	return summary
}

func dayAxis(sleeps []extract.SleepRecord, feeds []extract.FeedRecord) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, record := range sleeps {
		seen[record.Day] = struct{}{}
	}
	for _, record := range feeds {
		seen[record.Day] = struct{}{}
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func hoursSinceMidnight(day, instant time.Time) float64 {
	return instant.Sub(day).Hours()
}
