package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/config"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/fulfillment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/httpx"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/kafkax"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/notify"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/redisx"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage/memstore"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage/postgrestore"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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

	var (
		db       storage.DB
		rdb      *redis.Client
		notifier fulfillment.Notifier
		prod     *kafkax.Producer
	)
	switch cfg.Storage {
	case "memory":
		// Self-contained mode: no postgres, redis or kafka. Used for local
		// runs and tests; payment confirmations are log-only.
		db = memstore.New()
		log.Info("using in-memory storage")
	default:
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		db = postgrestore.New(pool)

		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()

		prod = kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicOrderConfirmed, 1024, log)
		prod.Start(ctx)
		notifier = &notify.KafkaNotifier{Producer: prod, Service: cfg.ServiceName}
	}

	outcomes := payment.NewRandomOutcomes(cfg.GatewayFailureRate, cfg.DeclineRate)
	coord := fulfillment.NewCoordinator(db, log)
	proc := fulfillment.NewProcessor(db, outcomes, notifier, log)

	router := httpx.NewRouter()
	h := &httpx.Handler{Coordinator: coord, Processor: proc, Redis: rdb}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // stop intake, flush buffered events
		cancel()
		prod.WaitClosed()
	}
}
