// Package mailer consumes order-confirmation events and delivers the
// confirmation mail. Delivery runs fully outside the payment transaction;
// the core never waits on or retries it.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/kafkax"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/notify"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Sender delivers one rendered mail. The default LogSender only logs it;
// a real SMTP transport plugs in here.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type LogSender struct {
	Log *zap.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.Log.Info("confirmation mail delivered",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}

type Worker struct {
	Redis   *redis.Client // optional event dedup
	Sender  Sender
	Log     *zap.Logger
	Service string
}

// HandleOrderConfirmed is installed as the kafka consumer handler.
func (w *Worker) HandleOrderConfirmed(ctx context.Context, m kafkago.Message) error {
	var env notify.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != notify.EventOrderConfirmed {
		return nil
	}

	// At-least-once delivery upstream; dedup on event id.
	if w.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, w.Service, env.EventID)
		if seen, _ := redisx.Exists(ctx, w.Redis, dkey); seen {
			return nil
		}
		_ = w.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[notify.OrderConfirmedPayload](env.Payload)
	if err != nil {
		return err
	}

	subject, body := Render(p)
	if err := w.Sender.Send(ctx, p.Email, subject, body); err != nil {
		w.Log.Warn("mail delivery failed",
			zap.String("order_id", p.OrderID), zap.Error(err))
	}
	return nil
}
