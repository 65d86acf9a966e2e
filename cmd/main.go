package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/cli"
	"siteE2E/internal/config"
	"siteE2E/internal/database"
	"siteE2E/internal/llm"
	"siteE2E/internal/logger"
	"siteE2E/internal/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logOpts []logger.Option
	if cfg.Logger.File != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.Logger.File))
	}
	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level, logOpts...)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	_ = log.Sync()

	if err != nil {
		if !errors.Is(err, cli.ErrScenariosFailed) {
			log.Error("Ошибка выполнения", zap.Error(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Cfg, log *logger.Zap) error {
	var opts []cli.Option

	if cfg.Database.Enabled() {
		if err := migrations.Run(cfg, log.Logger); err != nil {
			return err
		}
		db, err := database.New(cfg, log.Logger)
		if err != nil {
			return err
		}
		defer db.Close(log.Logger)

		repo := database.NewRunRepository(db.DB)
		opts = append(opts, cli.WithJournal(database.NewJournal(repo), repo))
	} else {
		log.Debug("DB_HOST не задан, журнал прогонов выключен")
	}

	if cfg.OpenAI.KeyAI != "" {
		client := llm.NewClient(cfg.OpenAI.KeyAI, cfg.OpenAI.Model, log.Logger, llm.WithMaxTokens(cfg.OpenAI.MaxTokens))
		opts = append(opts, cli.WithDetector(llm.NewDetector(client, log.Logger)))
	}

	br := browser.New(browser.Config{
		Engine:          cfg.Browser.Engine,
		Headless:        cfg.Browser.Headless,
		SlowMo:          cfg.Browser.SlowMo,
		UserDataDir:     cfg.Browser.UserDataDir,
		Display:         cfg.Browser.Display,
		Timeout:         cfg.Browser.Timeout,
		NavigateTimeout: cfg.Browser.NavigateTimeout,
		ActionTimeout:   cfg.Browser.ActionTimeout,
	})

	return cli.New(cfg, log, br, opts...).Execute(ctx)
}
