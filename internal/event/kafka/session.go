package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	platformkafka "github.com/danielpetisme/kafka-docker-playground/platform/kafka"
	"github.com/danielpetisme/kafka-docker-playground/platform/observability"

	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// Заголовки, добавляемые к каждой записи
const (
	HeaderRunID       = "seed-run-id"
	HeaderContentType = "content-type"
)

// RecordSerializer кодирует запись в key/value для топика
type RecordSerializer interface {
	Serialize(topic string, rec service.Record) (key, value []byte, err error)
	ContentType() string
}

// messageWriter - часть kafka.Writer, которую использует сессия
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// writerFunc создаёт writer для топика с completion-хуком
type writerFunc func(topic string, completion func([]kafka.Message, error)) messageWriter

// SessionFactory реализует service.SessionFactory: одна асинхронная сессия на топик
type SessionFactory struct {
	logger     *zap.Logger
	serializer RecordSerializer
	runID      string
	newWriter  writerFunc
}

// NewSessionFactory создаёт фабрику сессий поверх асинхронного kafka.Writer.
// Все записи одного запуска помечаются одинаковым seed-run-id.
func NewSessionFactory(logger *zap.Logger, settings platformkafka.ClientSettings, transport kafka.RoundTripper, serializer RecordSerializer) *SessionFactory {
	return newSessionFactory(logger, serializer, func(topic string, completion func([]kafka.Message, error)) messageWriter {
		return platformkafka.NewWriter(settings, transport, topic, completion)
	})
}

func newSessionFactory(logger *zap.Logger, serializer RecordSerializer, newWriter writerFunc) *SessionFactory {
	return &SessionFactory{
		logger:     logger,
		serializer: serializer,
		runID:      uuid.New().String(),
		newWriter:  newWriter,
	}
}

// RunID идентификатор запуска в заголовке seed-run-id
func (f *SessionFactory) RunID() string {
	return f.runID
}

// Open открывает сессию публикации в топик spec.Name
func (f *SessionFactory) Open(ctx context.Context, spec service.TopicSpec) (service.Session, error) {
	s := &session{
		topic:      spec.Name,
		serializer: f.serializer,
		runID:      f.runID,
		// буфер под весь топик: completion не ждёт чтения результатов
		outcomes: make(chan service.PublishOutcome, service.RecordCount(spec.Index)),
	}
	s.writer = f.newWriter(spec.Name, s.complete)

	f.logger.Debug("publishing session opened",
		zap.String("topic", spec.Name),
		zap.String("run_id", f.runID),
	)
	return s, nil
}

// session - асинхронная сессия публикации в один топик
type session struct {
	topic      string
	serializer RecordSerializer
	runID      string
	writer     messageWriter
	outcomes   chan service.PublishOutcome

	mu     sync.Mutex
	closed bool
}

// Submit ставит запись в очередь writer-а и не ждёт подтверждения
func (s *session) Submit(ctx context.Context, rec service.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return service.ErrSessionClosed
	}

	key, value, err := s.serializer.Serialize(s.topic, rec)
	if err != nil {
		return fmt.Errorf("serialize record: %w", err)
	}

	headers := []kafka.Header{
		{Key: HeaderRunID, Value: []byte(s.runID)},
		{Key: HeaderContentType, Value: []byte(s.serializer.ContentType())},
	}
	headers = observability.InjectHeaders(ctx, headers)

	msg := kafka.Message{
		Key:        key,
		Value:      value,
		Headers:    headers,
		WriterData: rec.Key,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("enqueue record: %w", err)
	}
	return nil
}

// Outcomes результаты публикации; канал закрывается в Close
func (s *session) Outcomes() <-chan service.PublishOutcome {
	return s.outcomes
}

// Close дожидается подтверждения всех записей и закрывает Outcomes
func (s *session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.writer.Close()
	close(s.outcomes)
	if err != nil {
		return fmt.Errorf("close writer %s: %w", s.topic, err)
	}
	return nil
}

// complete вызывается writer-ом из внутренних горутин для каждого батча
func (s *session) complete(messages []kafka.Message, err error) {
	for _, m := range messages {
		key, _ := m.WriterData.(service.RecordKey)
		s.outcomes <- service.PublishOutcome{
			Topic:     s.topic,
			Key:       key,
			Partition: m.Partition,
			Offset:    m.Offset,
			Err:       err,
		}
	}
}
