// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/commands"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/discord"
	"github.com/kyofu-bot/kyofu/internal/logger"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/internal/refdata"
	"github.com/kyofu-bot/kyofu/internal/storage"
	v "github.com/kyofu-bot/kyofu/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kyofu:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("version", v.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg.StorageOptions(), log.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(cctx); err != nil {
			log.Warn("store not closed cleanly", zap.Error(err))
		}
	}()

	data, err := refdata.Load(cfg.RefdataPath)
	if err != nil {
		return err
	}
	if err := refdata.Seed(ctx, store, data, log.Named("refdata")); err != nil {
		return err
	}

	reg, err := commands.Registry(store, cfg.DeveloperID, log.Named("command"))
	if err != nil {
		return err
	}

	bot, err := discord.New(cfg, store, reg, catalog, log.Named("discord"))
	if err != nil {
		return err
	}

	err = bot.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", zap.Error(err))
		return err
	}
	log.Info("exited cleanly")
	return nil
}
