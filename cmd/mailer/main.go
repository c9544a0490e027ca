package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/config"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/kafkax"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/mailer"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/notify"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	w := &mailer.Worker{
		Redis:   rdb,
		Sender:  &mailer.LogSender{Log: log},
		Log:     log,
		Service: cfg.ServiceName + "-mailer",
	}

	group := getenv("MAILER_GROUP", "mailer-svc")
	workers := mustAtoi(os.Getenv("MAILER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, notify.TopicOrderConfirmed, workers, log)

	go func() {
		log.Info("mailer consumer started",
			zap.String("group", group),
			zap.String("topic", notify.TopicOrderConfirmed),
			zap.Int("workers", workers),
		)
		if err := cons.Start(ctx, w.HandleOrderConfirmed); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
