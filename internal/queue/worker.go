// Package queue serves ranking requests from a RabbitMQ queue. Each request
// message is answered on its ReplyTo queue with the same CorrelationId.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/jonathan/resume-ranker/internal/ranking"
	"github.com/jonathan/resume-ranker/internal/types"
)

const publishTimeout = 10 * time.Second

// Publisher is the subset of *amqp.Channel used to send replies.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Config configures a Worker.
type Config struct {
	URL      string
	Queue    string
	Prefetch int
	Logger   zerolog.Logger
}

// Worker consumes RankRequest messages and publishes RankResponse replies.
type Worker struct {
	cfg       Config
	ranker    *ranking.Ranker
	logger    zerolog.Logger
	publishMu sync.Mutex
}

// NewWorker creates a worker. Nothing is dialed until Run.
func NewWorker(cfg Config, ranker *ranking.Ranker) (*Worker, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("AMQP URL is empty")
	}
	if cfg.Queue == "" {
		return nil, fmt.Errorf("request queue name is empty")
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	return &Worker{
		cfg:    cfg,
		ranker: ranker,
		logger: cfg.Logger.With().Str("queue", cfg.Queue).Logger(),
	}, nil
}

// HandleMessage ranks one raw request and returns the encoded reply. It never
// fails: malformed requests produce a failure envelope.
func HandleMessage(r *ranking.Ranker, body []byte) ([]byte, types.RankResponse) {
	resp, _ := pipeline.RankPayload(r, body)
	reply, err := json.Marshal(resp)
	if err != nil {
		resp = types.NewErrorResponse(fmt.Errorf("failed to encode response: %w", err))
		reply, _ = json.Marshal(resp)
	}
	return reply, resp
}

// Run dials the broker, declares the durable request queue and serves
// deliveries until ctx is canceled or the broker closes the channel.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.Dial(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(w.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", w.cfg.Queue, err)
	}
	if err := ch.Qos(w.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(w.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.logger.Info().Int("prefetch", w.cfg.Prefetch).Msg("worker started")
	err = w.Serve(ctx, deliveries, ch)
	w.logger.Info().Msg("worker stopped")
	return err
}

// Serve processes deliveries with up to Prefetch in flight. It returns nil
// when ctx is canceled and an error when the delivery channel closes first.
func (w *Worker) Serve(ctx context.Context, deliveries <-chan amqp.Delivery, pub Publisher) error {
	g := new(errgroup.Group)
	g.SetLimit(w.cfg.Prefetch)
	defer func() { _ = g.Wait() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			g.Go(func() error {
				w.process(ctx, d, pub)
				return nil
			})
		}
	}
}

// process answers one delivery. The request is acked once the reply is
// published; a failed publish is requeued once and then dropped.
func (w *Worker) process(ctx context.Context, d amqp.Delivery, pub Publisher) {
	logger := w.logger.With().Str("correlation_id", d.CorrelationId).Uint64("tag", d.DeliveryTag).Logger()

	start := time.Now()
	reply, resp := HandleMessage(w.ranker, d.Body)
	event := logger.Info()
	if !resp.Success {
		event = logger.Warn().Str("error", resp.Error)
	}
	event.Int("resumes", len(resp.RankedResumes)).Dur("duration", time.Since(start)).Msg("processed request")

	if d.ReplyTo == "" {
		logger.Warn().Msg("request has no reply_to, dropping result")
		w.ack(d, logger)
		return
	}

	if err := w.publish(ctx, pub, d, reply); err != nil {
		requeue := !d.Redelivered
		logger.Error().Err(err).Bool("requeue", requeue).Msg("failed to publish reply")
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			logger.Error().Err(nackErr).Msg("failed to nack request")
		}
		return
	}
	w.ack(d, logger)
}

// publish sends reply to the default exchange, routed by the ReplyTo queue.
func (w *Worker) publish(ctx context.Context, pub Publisher, d amqp.Delivery, reply []byte) error {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	w.publishMu.Lock()
	defer w.publishMu.Unlock()
	return pub.PublishWithContext(pubCtx, "", d.ReplyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: d.CorrelationId,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		Body:          reply,
	})
}

func (w *Worker) ack(d amqp.Delivery, logger zerolog.Logger) {
	if err := d.Ack(false); err != nil {
		logger.Error().Err(err).Msg("failed to ack request")
	}
}
