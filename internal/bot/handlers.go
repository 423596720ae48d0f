package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sleepfeedbot/internal/archive"
	"sleepfeedbot/internal/chart"
	"sleepfeedbot/internal/dataset"
	"sleepfeedbot/internal/extract"
	"sleepfeedbot/internal/stats"
)

const (
	textAttachJSON     = "Прикрепи json-файл"
	textNotJSON        = "Это не json-файл"
	textTooBig         = "Файл слишком большой"
	textLoaded         = "Файл успешно загружен. Теперь отправь /chart"
	textNothingFound   = "Файл загружен, но записей о сне и кормлениях в нём не найдено."
	textIngestFailed   = "Не удалось разобрать файл: это не похоже на экспорт чата."
	textDownloadFailed = "Не удалось скачать файл, попробуйте ещё раз."
	textNoDataset      = "Сначала загрузите чат: отправьте json-файл экспорта."
	textNoRecords      = "В загруженном архиве нет распознанных записей."
	textRangeEmpty     = "Нет данных за указанный период."
	textBadDate        = "Неверный формат даты. Используйте YYYY-MM-DD, сегодня или вчера."
	textRenderFailed   = "Не получилось построить график."
)

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".json") {
		b.replyText(msg.Chat.ID, textNotJSON)
		return
	}
	if int64(doc.FileSize) > b.cfg.MaxArchiveBytes {
		b.replyText(msg.Chat.ID, textTooBig)
		return
	}

	body, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		log.Printf("archive download failed: %v", err)
		b.replyText(msg.Chat.ID, textDownloadFailed)
		return
	}
	defer body.Close()

	ds, err := dataset.FromArchive(io.LimitReader(body, b.cfg.MaxArchiveBytes))
	if err != nil {
		if errors.Is(err, archive.ErrMalformed) {
			b.replyText(msg.Chat.ID, textIngestFailed)
			return
		}
		log.Printf("ingestion failed: %v", err)
		b.replyText(msg.Chat.ID, textIngestFailed)
		return
	}

	b.store.Replace(ds)
	if ds.Empty() {
		b.replyText(msg.Chat.ID, textNothingFound)
		return
	}
	b.replyText(msg.Chat.ID, fmt.Sprintf(
		"%s\nЗаписей: сон — %d, кормления — %d.",
		textLoaded, len(ds.Sleeps), len(ds.Feeds),
	))
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (b *Bot) handleTimeline(chatID int64, args []string) {
	sleeps, feeds, _, _, ok := b.sliceForArgs(chatID, args)
	if !ok {
		return
	}
	png, err := b.charts.TimelinePNG(chart.Timeline(sleeps, feeds))
	if err != nil {
		log.Printf("timeline render failed: %v", err)
		b.replyText(chatID, textRenderFailed)
		return
	}
	b.replyPhoto(chatID, "timeline.png", png)
}

func (b *Bot) handleSummary(chatID int64, args []string) {
	sleeps, feeds, _, _, ok := b.sliceForArgs(chatID, args)
	if !ok {
		return
	}
	png, err := b.charts.SummaryPNG(chart.Summarize(sleeps, feeds))
	if err != nil {
		log.Printf("summary render failed: %v", err)
		b.replyText(chatID, textRenderFailed)
		return
	}
	b.replyPhoto(chatID, "summary.png", png)
}

func (b *Bot) handleStats(chatID int64, args []string) {
	sleeps, feeds, from, to, ok := b.sliceForArgs(chatID, args)
	if !ok {
		return
	}
	b.replyText(chatID, stats.Report(stats.Aggregate(sleeps, feeds, from, to)))
}

func (b *Bot) handleExport(chatID int64) {
	ds, err := b.store.Current()
	if err != nil {
		b.replyText(chatID, textNoDataset)
		return
	}
	data, err := ds.MarshalCSV()
	if err != nil {
		log.Printf("csv export failed: %v", err)
		b.replyText(chatID, "Не получилось подготовить выгрузку.")
		return
	}
	name := fmt.Sprintf("sleepfeed_export_%s.csv", time.Now().UTC().Format("20060102_150405"))
	document := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(document); err != nil {
		log.Printf("send document failed: %v", err)
	}
}

// sliceForArgs resolves a command's date arguments against the current
// dataset. On failure it replies with the matching user-facing text and
// returns ok=false.
func (b *Bot) sliceForArgs(chatID int64, args []string) ([]extract.SleepRecord, []extract.FeedRecord, time.Time, time.Time, bool) {
	fail := func(text string) ([]extract.SleepRecord, []extract.FeedRecord, time.Time, time.Time, bool) {
		b.replyText(chatID, text)
		return nil, nil, time.Time{}, time.Time{}, false
	}

	ds, err := b.store.Current()
	if err != nil {
		return fail(textNoDataset)
	}

	from, to, err := ds.ResolveRange(args, time.Now().UTC())
	switch {
	case errors.Is(err, dataset.ErrBadDate):
		return fail(textBadDate)
	case errors.Is(err, dataset.ErrNoRecords):
		return fail(textNoRecords)
	case err != nil:
		return fail(textRangeEmpty)
	}

	sleeps, feeds, err := ds.Slice(from, to)
	switch {
	case errors.Is(err, dataset.ErrNoRecords):
		return fail(textNoRecords)
	case errors.Is(err, dataset.ErrRangeEmpty):
		return fail(textRangeEmpty)
	case err != nil:
		return fail(textRangeEmpty)
	}
	return sleeps, feeds, from, to, true
}
