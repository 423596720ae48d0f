package dataset

import (
	"strings"
	"time"

	"sleepfeedbot/internal/extract"
)

const dayLayout = "2006-01-02"

// ResolveRange turns command-style date arguments into an inclusive day
// window. No arguments selects the whole dataset, one argument a single day,
// two arguments a range. "сегодня"/"today" and "вчера"/"yesterday" are
// accepted as shorthands. Unparsable tokens fail with ErrBadDate; extra
// arguments do too.
func (d *Dataset) ResolveRange(args []string, now time.Time) (time.Time, time.Time, error) {
	switch len(args) {
	case 0:
		return d.Bounds()
	case 1:
		day, err := parseDayToken(args[0], now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return day, day, nil
	case 2:
		from, err := parseDayToken(args[0], now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := parseDayToken(args[1], now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if to.Before(from) {
			from, to = to, from
		}
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, ErrBadDate
	}
}

func parseDayToken(token string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "сегодня", "today":
		return extract.DayOf(now), nil
	case "вчера", "yesterday":
		return extract.DayOf(now).AddDate(0, 0, -1), nil
	}
	day, err := time.Parse(dayLayout, strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return day, nil
}
