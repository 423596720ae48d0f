package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sleepfeedbot/internal/archive"
	"sleepfeedbot/internal/chart"
	"sleepfeedbot/internal/dataset"
	"sleepfeedbot/internal/extract"
	"sleepfeedbot/internal/stats"
)

func (a *App) loadArchive(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, a.cfg.MaxArchiveBytes)
	ds, err := dataset.FromArchive(body)
	if err != nil {
		if errors.Is(err, archive.ErrMalformed) {
			writeError(c, http.StatusBadRequest, "Ingestion failed: malformed chat archive")
			return
		}
		writeError(c, http.StatusBadRequest, "Ingestion failed: could not read archive")
		return
	}

	a.store.Replace(ds)

	status := "ok"
	if ds.Empty() {
		status = "nothing recognized"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"ingestion_id":  ds.ID,
		"sleep_records": len(ds.Sleeps),
		"feed_records":  len(ds.Feeds),
	})
}

func (a *App) report(c *gin.Context) {
	sleeps, feeds, from, to, ok := a.sliceForRequest(c)
	if !ok {
		return
	}

	days := stats.Aggregate(sleeps, feeds, from, to)
	items := make([]gin.H, 0, len(days))
	for _, day := range days {
		items = append(items, gin.H{
			"day":            day.Day.Format("2006-01-02"),
			"feed_volume_ml": day.FeedVolumeML,
			"sleep_hours":    day.SleepHours,
			"awake_hours":    day.AwakeHours,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"days":   items,
		"report": stats.Report(days),
	})
}

func (a *App) timelineChart(c *gin.Context) {
	sleeps, feeds, _, _, ok := a.sliceForRequest(c)
	if !ok {
		return
	}
	png, err := a.charts.TimelinePNG(chart.Timeline(sleeps, feeds))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to render timeline chart")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (a *App) summaryChart(c *gin.Context) {
	sleeps, feeds, _, _, ok := a.sliceForRequest(c)
	if !ok {
		return
	}
	png, err := a.charts.SummaryPNG(chart.Summarize(sleeps, feeds))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to render summary chart")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// sliceForRequest resolves the request's date window against the current
// dataset and returns the records inside it. On failure it writes the
// matching error response and returns ok=false.
func (a *App) sliceForRequest(c *gin.Context) ([]extract.SleepRecord, []extract.FeedRecord, time.Time, time.Time, bool) {
	fail := func(status int, detail string) ([]extract.SleepRecord, []extract.FeedRecord, time.Time, time.Time, bool) {
		writeError(c, status, detail)
		return nil, nil, time.Time{}, time.Time{}, false
	}

	ds, err := a.store.Current()
	if err != nil {
		return fail(http.StatusNotFound, "No dataset loaded yet; upload a chat archive first")
	}

	from, to, err := ds.ResolveRange(rangeArgs(c), time.Now().UTC())
	switch {
	case errors.Is(err, dataset.ErrBadDate):
		return fail(http.StatusBadRequest, "Malformed date argument; use YYYY-MM-DD")
	case errors.Is(err, dataset.ErrNoRecords):
		return fail(http.StatusNotFound, "No records recognized in the loaded archive")
	case err != nil:
		return fail(http.StatusInternalServerError, "Failed to resolve date range")
	}

	sleeps, feeds, err := ds.Slice(from, to)
	switch {
	case errors.Is(err, dataset.ErrNoRecords):
		return fail(http.StatusNotFound, "No records recognized in the loaded archive")
	case errors.Is(err, dataset.ErrRangeEmpty):
		return fail(http.StatusNotFound, "No records in the requested range")
	case err != nil:
		return fail(http.StatusInternalServerError, "Failed to slice dataset")
	}
	return sleeps, feeds, from, to, true
}

// rangeArgs maps the query parameters onto the command-style argument list:
// ?date=D selects one day, ?from=A&to=B a range, nothing the whole dataset.
func rangeArgs(c *gin.Context) []string {
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		return []string{date}
	}
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	switch {
	case from != "" && to != "":
		return []string{from, to}
	case from != "":
		return []string{from}
	case to != "":
		return []string{to}
	}
	return nil
}
