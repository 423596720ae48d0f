// Package extract recognizes sleep intervals and feeding events in free-text
// chat messages and normalizes them into dated records.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"sleepfeedbot/internal/archive"
)

// Sleep entries look like "23:30-06:00 сон", with either a hyphen or an
// en-dash between the clock times. Feed entries look like "14:20 смесь 90".
var (
	sleepPattern = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})[–-](\d{1,2}:\d{2}).*сон`)
	feedPattern  = regexp.MustCompile(`(\d{1,2}:\d{2}) смесь[^\d]*(\d+)`)
)

// Messages stamped before this hour that describe a midnight-crossing sleep
// are re-anchored to the previous day: "23:30-06:00 сон" typed at 00:15
// belongs to yesterday.
const lateNightCutoffHour = 4

// SleepRecord is one observed sleep interval. End is always after Start;
// Day is the calendar day the interval is anchored to (Start's day).
type SleepRecord struct {
	Day   time.Time
	Start time.Time
	End   time.Time
}

// Duration is the interval length, independent of day boundaries.
func (r SleepRecord) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// FeedRecord is one observed feeding event.
type FeedRecord struct {
	Day      time.Time
	At       time.Time
	VolumeML int
}

type matchKind int

const (
	matchNone matchKind = iota
	matchSleep
	matchFeed
)

// recognition is the tagged result of running the ordered recognizers over
// one message body. A sleep match short-circuits the feed recognizer.
type recognition struct {
	kind       matchKind
	sleepStart string
	sleepEnd   string
	feedAt     string
	volumeML   int
}

func recognize(text string) recognition {
	if groups := sleepPattern.FindStringSubmatch(text); groups != nil {
		return recognition{kind: matchSleep, sleepStart: groups[1], sleepEnd: groups[2]}
	}
	if groups := feedPattern.FindStringSubmatch(text); groups != nil {
		volume, err := strconv.Atoi(groups[2])
		if err != nil {
			return recognition{}
		}
		return recognition{kind: matchFeed, feedAt: groups[1], volumeML: volume}
	}
	return recognition{}
}

// Extract scans the messages in order and returns the recognized records.
// A message yields at most one record; messages with out-of-range clock
// times are dropped without aborting the batch.
func Extract(messages []archive.Message) ([]SleepRecord, []FeedRecord) {
	var sleeps []SleepRecord
	var feeds []FeedRecord

	for _, msg := range messages {
		if !msg.IsChat() {
			continue
		}
		switch found := recognize(msg.Text); found.kind {
		case matchSleep:
			record, ok := sleepRecord(msg.Date, found.sleepStart, found.sleepEnd)
			if !ok {
				continue
			}
			sleeps = append(sleeps, record)
		case matchFeed:
			record, ok := feedRecord(msg.Date, found.feedAt, found.volumeML)
			if !ok {
				continue
			}
			feeds = append(feeds, record)
		}
	}
	return sleeps, feeds
}

func sleepRecord(messageDate time.Time, startText, endText string) (SleepRecord, bool) {
	start, ok := combineClock(messageDate, startText)
	if !ok {
		return SleepRecord{}, false
	}
	end, ok := combineClock(messageDate, endText)
	if !ok {
		return SleepRecord{}, false
	}

	if !end.After(start) {
		// The interval crosses midnight (or is degenerate): the end belongs
		// to the next day. When the message itself was typed in the small
		// hours, the whole interval belongs to the previous day instead.
		end = end.AddDate(0, 0, 1)
		if messageDate.Hour() < lateNightCutoffHour {
			start = start.AddDate(0, 0, -1)
			end = end.AddDate(0, 0, -1)
		}
	}
	return SleepRecord{Day: DayOf(start), Start: start, End: end}, true
}

func feedRecord(messageDate time.Time, atText string, volumeML int) (FeedRecord, bool) {
	at, ok := combineClock(messageDate, atText)
	if !ok {
		return FeedRecord{}, false
	}
	return FeedRecord{Day: DayOf(messageDate), At: at, VolumeML: volumeML}, true
}

// combineClock anchors an "H:MM" clock reading to the message's calendar day.
func combineClock(messageDate time.Time, clock string) (time.Time, bool) {
	hour, minute, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(
		messageDate.Year(), messageDate.Month(), messageDate.Day(),
		hour, minute, 0, 0, messageDate.Location(),
	), true
}

func parseClock(clock string) (int, int, bool) {
	hourText, minuteText, found := strings.Cut(clock, ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// DayOf truncates an instant to midnight of its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
