package extract

import (
	"testing"
	"time"

	"sleepfeedbot/internal/archive"
)

func chatAt(date time.Time, text string) archive.Message {
	return archive.Message{Type: "message", Date: date, Text: text}
}

func TestExtractDaytimeSleep(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 1, 15, 40, 0, 0, time.UTC), "13:10-15:30 сон")
	sleeps, feeds := Extract([]archive.Message{msg})
	if len(sleeps) != 1 || len(feeds) != 0 {
		t.Fatalf("expected exactly one sleep record, got %d/%d", len(sleeps), len(feeds))
	}

	record := sleeps[0]
	if record.Duration() != 2*time.Hour+20*time.Minute {
		t.Fatalf("expected clock-time duration, got %s", record.Duration())
	}
	if !record.Day.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected no day shift, got %s", record.Day)
	}
	if !record.End.After(record.Start) {
		t.Fatalf("expected end after start")
	}
}

func TestExtractOvernightSleepLoggedAfterMidnight(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 2, 0, 15, 0, 0, time.UTC), "23:30-06:00 сон")
	sleeps, _ := Extract([]archive.Message{msg})
	if len(sleeps) != 1 {
		t.Fatalf("expected one sleep record, got %d", len(sleeps))
	}

	record := sleeps[0]
	if !record.Day.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected re-anchor to previous day, got %s", record.Day)
	}
	if record.Duration().Hours() != 6.5 {
		t.Fatalf("expected 6.5h duration, got %v", record.Duration().Hours())
	}
}

func TestExtractOvernightSleepLoggedBeforeMidnight(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 1, 23, 31, 0, 0, time.UTC), "23:30-06:00 сон")
	sleeps, _ := Extract([]archive.Message{msg})
	if len(sleeps) != 1 {
		t.Fatalf("expected one sleep record, got %d", len(sleeps))
	}

	record := sleeps[0]
	if !record.Day.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected anchor on message day, got %s", record.Day)
	}
	if !record.End.Equal(time.Date(2025, 7, 2, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected only the end shifted forward, got %s", record.End)
	}
}

func TestExtractDegenerateIntervalCrossesMidnight(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC), "12:00-12:00 сон")
	sleeps, _ := Extract([]archive.Message{msg})
	if len(sleeps) != 1 {
		t.Fatalf("expected one sleep record, got %d", len(sleeps))
	}
	if sleeps[0].Duration() != 24*time.Hour {
		t.Fatalf("expected equal times to roll the end a day forward, got %s", sleeps[0].Duration())
	}
}

func TestExtractFeed(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 1, 14, 22, 0, 0, time.UTC), "14:20 смесь 90 мл")
	sleeps, feeds := Extract([]archive.Message{msg})
	if len(sleeps) != 0 || len(feeds) != 1 {
		t.Fatalf("expected exactly one feed record, got %d/%d", len(sleeps), len(feeds))
	}

	record := feeds[0]
	if record.VolumeML != 90 {
		t.Fatalf("expected 90 ml, got %d", record.VolumeML)
	}
	if !record.Day.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected feed day to follow the message date, got %s", record.Day)
	}
	if record.At.Hour() != 14 || record.At.Minute() != 20 {
		t.Fatalf("expected instant from the message text, got %s", record.At)
	}
}

func TestExtractSleepTakesPrecedenceOverFeed(t *testing.T) {
	msg := chatAt(
		time.Date(2025, 7, 1, 16, 0, 0, 0, time.UTC),
		"13:10-15:30 сон, потом 15:40 смесь 60",
	)
	sleeps, feeds := Extract([]archive.Message{msg})
	if len(sleeps) != 1 {
		t.Fatalf("expected the sleep recognizer to win, got %d sleeps", len(sleeps))
	}
	if len(feeds) != 0 {
		t.Fatalf("expected no feed record from a sleep message, got %d", len(feeds))
	}
}

func TestExtractFirstMatchOnly(t *testing.T) {
	msg := chatAt(
		time.Date(2025, 7, 1, 16, 0, 0, 0, time.UTC),
		"09:00 смесь 50, 12:00 смесь 80",
	)
	_, feeds := Extract([]archive.Message{msg})
	if len(feeds) != 1 {
		t.Fatalf("expected one record per message, got %d", len(feeds))
	}
	if feeds[0].VolumeML != 50 {
		t.Fatalf("expected the first match to be taken, got %d ml", feeds[0].VolumeML)
	}
}

func TestExtractEnDashAndCase(t *testing.T) {
	msg := chatAt(time.Date(2025, 7, 1, 16, 0, 0, 0, time.UTC), "13:10–15:30 СОН")
	sleeps, _ := Extract([]archive.Message{msg})
	if len(sleeps) != 1 {
		t.Fatalf("expected en-dash and uppercase token to match, got %d", len(sleeps))
	}
}

func TestExtractSkipsOutOfRangeClock(t *testing.T) {
	messages := []archive.Message{
		chatAt(time.Date(2025, 7, 1, 16, 0, 0, 0, time.UTC), "25:70-26:00 сон"),
		chatAt(time.Date(2025, 7, 1, 16, 10, 0, 0, time.UTC), "13:10-15:30 сон"),
	}
	sleeps, _ := Extract(messages)
	if len(sleeps) != 1 {
		t.Fatalf("expected the malformed message alone to be dropped, got %d", len(sleeps))
	}
}

func TestExtractIgnoresNonChatAndUnmatched(t *testing.T) {
	messages := []archive.Message{
		{Type: "service", Date: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), Text: "13:10-15:30 сон"},
		chatAt(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), "просто сообщение"),
	}
	sleeps, feeds := Extract(messages)
	if len(sleeps) != 0 || len(feeds) != 0 {
		t.Fatalf("expected nothing extracted, got %d/%d", len(sleeps), len(feeds))
	}
}

func TestDayOf(t *testing.T) {
	instant := time.Date(2025, 7, 1, 23, 59, 59, 0, time.UTC)
	if got := DayOf(instant); !got.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight of the same day, got %s", got)
	}
}
