// Package bot is the Telegram transport: it receives exported chat archives
// as documents and answers chart/report commands with images and text.
package bot

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sleepfeedbot/internal/chart"
	"sleepfeedbot/internal/config"
	"sleepfeedbot/internal/dataset"
)

// ChartRenderer is the rendering backend as seen by the bot.
type ChartRenderer interface {
	TimelinePNG(rows []chart.TimelineDay) ([]byte, error)
	SummaryPNG(summary *chart.Summary) ([]byte, error)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    config.Config
	store  *dataset.Store
	charts ChartRenderer
	client *http.Client
}

func New(cfg config.Config, store *dataset.Store, charts ChartRenderer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		cfg:    cfg,
		store:  store,
		charts: charts,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Printf("bot started as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		b.replyText(msg.Chat.ID, usageText)
	case "chart":
		b.handleTimeline(msg.Chat.ID, args)
	case "summary":
		b.handleSummary(msg.Chat.ID, args)
	case "stats":
		b.handleStats(msg.Chat.ID, args)
	case "export":
		b.handleExport(msg.Chat.ID)
	}
}

func (b *Bot) replyText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("send text failed: %v", err)
	}
}

func (b *Bot) replyPhoto(chatID int64, name string, data []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("send photo failed: %v", err)
	}
}

const usageText = "Отправьте json-файл экспорта чата, затем:\n" +
	"/chart [дата] [дата] — график сна и кормлений по дням\n" +
	"/summary [дата] [дата] — суммарный график питания и сна\n" +
	"/stats [дата] [дата] — текстовый отчёт по дням\n" +
	"/export — выгрузка записей в CSV\n" +
	"Даты: YYYY-MM-DD, сегодня, вчера. Без дат — весь период."
