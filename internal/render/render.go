// Package render draws chart series into PNG buffers. It is the concrete
// rendering backend behind the capability interfaces the transports declare;
// nothing in the core depends on it.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sleepfeedbot/internal/chart"
)

// Renderer produces the bot's chart images.
type Renderer struct{}

// Blues ramp used for feed-dot intensity, light to dark.
var intensityColors = map[chart.Intensity]string{
	chart.IntensityLow:     "#9ECAE1",
	chart.IntensityMid:     "#6BAED6",
	chart.IntensityMidHigh: "#3182BD",
	chart.IntensityHigh:    "#08519C",
}

const (
	timelineWidth   = 1200
	timelineRowH    = 44
	timelineLeft    = 120
	timelineRight   = 40
	timelineTop     = 56
	timelineBottom  = 56
	sleepBarHeight  = 10
	feedDotRadius   = 5.5
	timelineFontPts = 13
)

// TimelinePNG draws one row per day: sleep intervals as horizontal bars and
// feeding events as intensity-tinted dots on a 0..24 hour axis. Earliest day
// on top.
func (Renderer) TimelinePNG(rows []chart.TimelineDay) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("timeline: no days to draw")
	}

	height := timelineTop + len(rows)*timelineRowH + timelineBottom
	dc := gg.NewContext(timelineWidth, height)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("timeline: load font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: timelineFontPts}))

	plotWidth := float64(timelineWidth - timelineLeft - timelineRight)
	hourX := func(hour float64) float64 {
		if hour < 0 {
			hour = 0
		}
		if hour > 24 {
			hour = 24
		}
		return timelineLeft + hour/24*plotWidth
	}

	// Dashed hour grid every two hours, labels underneath.
	dc.SetHexColor("#C8C8C8")
	dc.SetDash(4, 4)
	dc.SetLineWidth(1)
	for hour := 0; hour <= 24; hour += 2 {
		x := hourX(float64(hour))
		dc.DrawLine(x, timelineTop, x, float64(height-timelineBottom))
		dc.Stroke()
	}
	dc.SetDash()

	dc.SetHexColor("#333333")
	for hour := 0; hour <= 24; hour += 2 {
		dc.DrawStringAnchored(fmt.Sprintf("%d", hour), hourX(float64(hour)), float64(height-timelineBottom)+16, 0.5, 0.5)
	}
	dc.DrawStringAnchored("Время суток (часы)", timelineLeft+plotWidth/2, float64(height)-18, 0.5, 0.5)
	dc.DrawStringAnchored("Сон и кормления по дням", float64(timelineWidth)/2, timelineTop/2, 0.5, 0.5)

	for i, row := range rows {
		y := float64(timelineTop + i*timelineRowH + timelineRowH/2)

		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(row.Day.Format("2006-01-02"), timelineLeft-12, y, 1, 0.5)

		dc.SetHexColor("#87CEEB")
		for _, span := range row.Sleeps {
			dc.DrawRectangle(hourX(span.StartHour), y-sleepBarHeight/2, hourX(span.EndHour)-hourX(span.StartHour), sleepBarHeight)
			dc.Fill()
		}

		for _, point := range row.Feeds {
			dc.SetHexColor(intensityColors[point.Intensity])
			dc.DrawCircle(hourX(point.Hour), y, feedDotRadius)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("timeline: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryPNG draws per-day feed volume and sleep hours as two series over a
// shared day axis, each on its own fixed-floor value axis.
func (Renderer) SummaryPNG(summary *chart.Summary) ([]byte, error) {
	if summary == nil || len(summary.Points) == 0 {
		return nil, fmt.Errorf("summary: no days to draw")
	}

	feedSeries := gochart.TimeSeries{
		Name: "Смесь, мл",
		Style: gochart.Style{
			StrokeColor: drawing.ColorFromHex("3182BD"),
			FillColor:   drawing.ColorFromHex("9ECAE1").WithAlpha(96),
			StrokeWidth: 2,
		},
	}
	sleepSeries := gochart.TimeSeries{
		Name:  "Сон, ч",
		YAxis: gochart.YAxisSecondary,
		Style: gochart.Style{
			StrokeColor:     drawing.ColorFromHex("FD8D3C"),
			StrokeWidth:     2,
			DotWidth:        4,
			DotColor:        drawing.ColorFromHex("FD8D3C"),
			StrokeDashArray: []float64{4, 3},
		},
	}
	for _, point := range summary.Points {
		if point.FeedVolumeML != nil {
			feedSeries.XValues = append(feedSeries.XValues, point.Day)
			feedSeries.YValues = append(feedSeries.YValues, float64(*point.FeedVolumeML))
		}
		if point.SleepHours != nil {
			sleepSeries.XValues = append(sleepSeries.XValues, point.Day)
			sleepSeries.YValues = append(sleepSeries.YValues, *point.SleepHours)
		}
	}

	var series []gochart.Series
	if len(feedSeries.XValues) > 0 {
		series = append(series, feedSeries)
	}
	if len(sleepSeries.XValues) > 0 {
		series = append(series, sleepSeries)
	}

	first := summary.Points[0].Day
	last := summary.Points[len(summary.Points)-1].Day
	// Pad the day axis by half a day on both sides so a single-day summary
	// still has a nonzero x range.
	xRange := &gochart.ContinuousRange{
		Min: gochart.TimeToFloat64(first.Add(-12 * time.Hour)),
		Max: gochart.TimeToFloat64(last.Add(12 * time.Hour)),
	}

	graph := gochart.Chart{
		Title:  "Питание и сон по дням",
		Width:  1000,
		Height: 500,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
			Range:          xRange,
		},
		YAxis: gochart.YAxis{
			Name:  "мл",
			Range: &gochart.ContinuousRange{Min: 0, Max: summary.FeedAxisMax},
		},
		YAxisSecondary: gochart.YAxis{
			Name:  "ч",
			Range: &gochart.ContinuousRange{Min: 0, Max: summary.SleepAxisMax},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("summary: render: %w", err)
	}
	return buf.Bytes(), nil
}
