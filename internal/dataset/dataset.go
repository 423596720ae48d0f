// Package dataset owns the records produced by the most recent successful
// archive ingestion. There is exactly one current dataset: a new ingestion
// replaces it wholesale, and every reader works against the handle it was
// given.
package dataset

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"sleepfeedbot/internal/archive"
	"sleepfeedbot/internal/extract"
)

var (
	// ErrNoDataset means no archive has been ingested yet.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrNoRecords means the current dataset holds no recognized records.
	ErrNoRecords = errors.New("no records recognized")
	// ErrRangeEmpty means the dataset has records, but none in the window.
	ErrRangeEmpty = errors.New("no records in requested range")
	// ErrBadDate marks an unparsable date argument.
	ErrBadDate = errors.New("malformed date argument")
)

// Dataset is the full set of records from one ingestion.
type Dataset struct {
	ID       string
	LoadedAt time.Time
	Sleeps   []extract.SleepRecord
	Feeds    []extract.FeedRecord
}

// New wraps extracted records into a dataset with a fresh ingestion id.
func New(sleeps []extract.SleepRecord, feeds []extract.FeedRecord) *Dataset {
	return &Dataset{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Sleeps:   sleeps,
		Feeds:    feeds,
	}
}

// FromArchive decodes a chat export and extracts its records. A malformed
// export fails with archive.ErrMalformed; an export in which nothing is
// recognized still produces a (empty) dataset.
func FromArchive(r io.Reader) (*Dataset, error) {
	messages, err := archive.Decode(r)
	if err != nil {
		return nil, err
	}
	sleeps, feeds := extract.Extract(messages)
	return New(sleeps, feeds), nil
}

// Empty reports whether the dataset holds no records at all.
func (d *Dataset) Empty() bool {
	return len(d.Sleeps) == 0 && len(d.Feeds) == 0
}

// Bounds returns the first and last anchor day across both record kinds.
func (d *Dataset) Bounds() (time.Time, time.Time, error) {
	if d.Empty() {
		return time.Time{}, time.Time{}, ErrNoRecords
	}
	var first, last time.Time
	observe := func(day time.Time) {
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	for _, record := range d.Sleeps {
		observe(record.Day)
	}
	for _, record := range d.Feeds {
		observe(record.Day)
	}
	return first, last, nil
}

// Slice returns the records anchored inside [from, to] inclusive, failing
// with ErrRangeEmpty when none fall in the window.
func (d *Dataset) Slice(from, to time.Time) ([]extract.SleepRecord, []extract.FeedRecord, error) {
	if d.Empty() {
		return nil, nil, ErrNoRecords
	}
	var sleeps []extract.SleepRecord
	for _, record := range d.Sleeps {
		if inRange(record.Day, from, to) {
			sleeps = append(sleeps, record)
		}
	}
	var feeds []extract.FeedRecord
	for _, record := range d.Feeds {
		if inRange(record.Day, from, to) {
			feeds = append(feeds, record)
		}
	}
	if len(sleeps) == 0 && len(feeds) == 0 {
		return nil, nil, ErrRangeEmpty
	}
	return sleeps, feeds, nil
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
