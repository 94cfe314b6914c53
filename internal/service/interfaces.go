package service

import (
	"context"
	"time"
)

// TopicAdmin определяет операции администрирования кластера, нужные для provisioning.
// Обе операции синхронные: возвращаются после завершения запроса.
type TopicAdmin interface {
	// ListTopics возвращает имена существующих топиков
	ListTopics(ctx context.Context) ([]string, error)
	// CreateTopic создаёт топик. Если топик уже существует - ErrTopicAlreadyExists.
	CreateTopic(ctx context.Context, spec TopicSpec) error
}

// SessionFactory открывает сессию публикации для одного топика
type SessionFactory interface {
	Open(ctx context.Context, spec TopicSpec) (Session, error)
}

// Session - сессия публикации в один топик.
// Submit не ждёт подтверждения: результат каждой записи приходит в Outcomes().
// Close дожидается подтверждения всех отправленных записей и закрывает канал Outcomes.
type Session interface {
	Submit(ctx context.Context, rec Record) error
	Outcomes() <-chan PublishOutcome
	Close() error
}

// PersonSource источник синтетических данных о человеке
type PersonSource interface {
	Person() Person
}

// Sleeper определяет интерфейс для задержки (используется для тестирования)
type Sleeper interface {
	// Sleep выполняет задержку на указанное время или до отмены контекста
	Sleep(ctx context.Context, d time.Duration) error
}

// DefaultSleeper реализует Sleeper используя time.After
type DefaultSleeper struct{}

// Sleep выполняет задержку используя time.After
func (s *DefaultSleeper) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
