package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsqio/go-nsq"

	"tomekeeper/backend/internal/app"
	"tomekeeper/backend/internal/config"
	"tomekeeper/backend/internal/logger"
)

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	deps, err := app.Bootstrap(cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, deps.DB, deps.VectorStore, deps.NSQProducer)
	if err != nil {
		slog.Error("app init failed", "error", err)
		os.Exit(1)
	}

	if cfg.EnableRunner {
		nsqCfg := nsq.NewConfig()
		nsqCfg.MsgTimeout = time.Duration(cfg.NSQMsgTimeoutSeconds) * time.Second
		consumer, err := nsq.NewConsumer(config.TopicIngestDocument, config.RunnerChannel, nsqCfg)
		if err != nil {
			slog.Error("failed to create NSQ consumer", "error", err)
			os.Exit(1)
		}
		consumer.AddHandler(application.Consumer)
		if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
			slog.Error("failed to connect to nsqlookupd", "error", err)
			os.Exit(1)
		}
		defer consumer.Stop()
		slog.Info("runner consumer connected", "topic", config.TopicIngestDocument)
	}

	if cfg.EnableAPI {
		if err := application.Run(ctx); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	} else {
		<-ctx.Done()
	}
}
