package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/danielpetisme/kafka-docker-playground/platform/observability"
)

// TopicReport итог публикации в один топик
type TopicReport struct {
	Topic     string
	Submitted int64
	Succeeded int64
	Failed    int64
	Duration  time.Duration
}

// Report итог всего прогона
type Report struct {
	Topics []TopicReport
}

// Totals суммирует счётчики по всем топикам
func (r Report) Totals() (submitted, succeeded, failed int64) {
	for _, t := range r.Topics {
		submitted += t.Submitted
		succeeded += t.Succeeded
		failed += t.Failed
	}
	return submitted, succeeded, failed
}

// Publisher публикует записи в топики семейства, по одной сессии на топик
type Publisher struct {
	logger   *zap.Logger
	sessions SessionFactory
	source   PersonSource
	sleeper  Sleeper
	backoff  time.Duration
	throttle bool
}

// PublisherOption настраивает Publisher
type PublisherOption func(*Publisher)

// WithThrottle включает задержку backoff перед каждой записью
func WithThrottle(backoff time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.backoff = backoff
		p.throttle = backoff > 0
	}
}

// WithSleeper подменяет Sleeper (для тестов)
func WithSleeper(s Sleeper) PublisherOption {
	return func(p *Publisher) {
		p.sleeper = s
	}
}

// NewPublisher создаёт новый экземпляр Publisher
func NewPublisher(logger *zap.Logger, sessions SessionFactory, source PersonSource, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		logger:   logger,
		sessions: sessions,
		source:   source,
		sleeper:  &DefaultSleeper{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishAll публикует записи в топики строго по порядку.
// Ошибки отдельных записей не прерывают цикл; прерывают только отмена ctx и ошибка открытия сессии.
func (p *Publisher) PublishAll(ctx context.Context, topics []TopicSpec) (Report, error) {
	report := Report{Topics: make([]TopicReport, 0, len(topics))}
	for _, spec := range topics {
		tr, err := p.PublishTopic(ctx, spec)
		report.Topics = append(report.Topics, tr)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// PublishTopic публикует RecordCount(spec.Index) записей в одну сессию.
// Сессия закрывается на любом пути выхода; Close ждёт подтверждения всех записей.
func (p *Publisher) PublishTopic(ctx context.Context, spec TopicSpec) (report TopicReport, err error) {
	const op = "service.PublishTopic"

	ctx, span := otel.Tracer(tracerName).Start(ctx, "publish "+spec.Name)
	defer span.End()

	log := observability.L(ctx, p.logger).With(zap.String("topic", spec.Name))
	report.Topic = spec.Name
	started := time.Now()

	session, err := p.sessions.Open(ctx, spec)
	if err != nil {
		return report, fmt.Errorf("%s: open session %s: %w", op, spec.Name, err)
	}

	var succeeded, failed int64
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for o := range session.Outcomes() {
			if o.Err != nil {
				failed++
				log.Error("failed to publish record",
					zap.Int64("key", o.Key.ID),
					zap.Error(o.Err),
				)
				continue
			}
			succeeded++
			log.Debug("record published",
				zap.Int64("key", o.Key.ID),
				zap.Int("partition", o.Partition),
				zap.Int64("offset", o.Offset),
			)
		}
	}()

	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Error("failed to close publishing session", zap.Error(cerr))
		}
		<-drained

		report.Succeeded += succeeded
		report.Failed += failed
		report.Duration = time.Since(started)
		span.SetAttributes(
			attribute.Int64("records.submitted", report.Submitted),
			attribute.Int64("records.failed", report.Failed),
		)
		log.Info("topic published",
			zap.Int64("submitted", report.Submitted),
			zap.Int64("succeeded", report.Succeeded),
			zap.Int64("failed", report.Failed),
			zap.Duration("duration", report.Duration),
		)
	}()

	count := RecordCount(spec.Index)
	for id := int64(0); id < count; id++ {
		if err := ctx.Err(); err != nil {
			log.Warn("publishing interrupted", zap.Int64("next_key", id))
			return report, err
		}

		if p.throttle {
			if err := p.sleeper.Sleep(ctx, p.backoff); err != nil {
				log.Warn("publishing interrupted", zap.Int64("next_key", id))
				return report, err
			}
		}

		rec := NextRecord(id, p.source)
		if err := session.Submit(ctx, rec); err != nil {
			// запись не ушла в сессию: считаем её неудачной и продолжаем
			report.Failed++
			log.Error("failed to publish record",
				zap.Int64("key", id),
				zap.Error(err),
			)
			continue
		}
		report.Submitted++
	}

	return report, nil
}
