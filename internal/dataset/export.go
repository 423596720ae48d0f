package dataset

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// MarshalCSV renders the dataset as CSV, one row per record.
func (d *Dataset) MarshalCSV() ([]byte, error) {
	var out bytes.Buffer
	writer := csv.NewWriter(&out)
	if err := writer.Write([]string{"kind", "day", "start", "end", "volume_ml"}); err != nil {
		return nil, err
	}

	for _, record := range d.Sleeps {
		if err := writer.Write([]string{
			"sleep",
			record.Day.Format("2006-01-02"),
			record.Start.Format(time.RFC3339),
			record.End.Format(time.RFC3339),
			"",
		}); err != nil {
			return nil, err
		}
	}
	for _, record := range d.Feeds {
		if err := writer.Write([]string{
			"feed",
			record.Day.Format("2006-01-02"),
			record.At.Format(time.RFC3339),
			"",
			strconv.Itoa(record.VolumeML),
		}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
