package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"sleepfeedbot/internal/bot"
	"sleepfeedbot/internal/config"
	"sleepfeedbot/internal/dataset"
	"sleepfeedbot/internal/render"
)

func main() {
	cfg := config.Load()
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(cfg, &dataset.Store{}, render.Renderer{})
	if err != nil {
		log.Fatalf("telegram connect failed: %v", err)
	}

	log.Printf("%s polling for updates", cfg.AppName)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped: %v", err)
	}
}
