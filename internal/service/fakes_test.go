package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// fakeCluster реализует TopicAdmin поверх in-memory набора топиков
type fakeCluster struct {
	mu        sync.Mutex
	topics    map[string]TopicSpec
	creates   []TopicSpec
	listErr   error
	createErr map[string]error
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		topics:    map[string]TopicSpec{},
		createErr: map[string]error{},
	}
}

func (c *fakeCluster) ListTopics(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	names := make([]string, 0, len(c.topics))
	for name := range c.topics {
		names = append(names, name)
	}
	return names, nil
}

func (c *fakeCluster) CreateTopic(ctx context.Context, spec TopicSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates = append(c.creates, spec)
	if err := c.createErr[spec.Name]; err != nil {
		return err
	}
	if _, ok := c.topics[spec.Name]; ok {
		return ErrTopicAlreadyExists
	}
	c.topics[spec.Name] = spec
	return nil
}

func (c *fakeCluster) createsFor(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.creates {
		if s.Name == name {
			n++
		}
	}
	return n
}

// fakeSession сохраняет отправленные записи и отдаёт результат в Outcomes
type fakeSession struct {
	mu        sync.Mutex
	topic     string
	records   []Record
	outcomes  chan PublishOutcome
	closed    bool
	submitErr func(Record) error
	deliver   func(Record) error
}

func (s *fakeSession) Submit(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.submitErr != nil {
		if err := s.submitErr(rec); err != nil {
			return err
		}
	}
	s.records = append(s.records, rec)

	var err error
	if s.deliver != nil {
		err = s.deliver(rec)
	}
	s.outcomes <- PublishOutcome{
		Topic:  s.topic,
		Key:    rec.Key,
		Offset: rec.Key.ID,
		Err:    err,
	}
	return nil
}

func (s *fakeSession) Outcomes() <-chan PublishOutcome {
	return s.outcomes
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.outcomes)
	}
	return nil
}

func (s *fakeSession) ids() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.records))
	for _, r := range s.records {
		ids = append(ids, r.Key.ID)
	}
	return ids
}

// fakeSessions реализует SessionFactory и запоминает открытые сессии
type fakeSessions struct {
	mu        sync.Mutex
	opened    []*fakeSession
	openErr   error
	submitErr func(Record) error
	deliver   func(Record) error
}

func (f *fakeSessions) Open(ctx context.Context, spec TopicSpec) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &fakeSession{
		topic:     spec.Name,
		outcomes:  make(chan PublishOutcome, DefaultRecords),
		submitErr: f.submitErr,
		deliver:   f.deliver,
	}
	f.opened = append(f.opened, s)
	return s, nil
}

type stubPersons struct{}

func (stubPersons) Person() Person {
	return Person{FirstName: "Ada", LastName: "Lovelace", Address: "12 St James's Square"}
}

// MockSleeper реализует Sleeper для тестов (не ждёт реального времени)
type MockSleeper struct {
	mock.Mock
}

func (m *MockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockTopicAdmin реализует TopicAdmin через testify/mock
type MockTopicAdmin struct {
	mock.Mock
}

func (m *MockTopicAdmin) ListTopics(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTopicAdmin) CreateTopic(ctx context.Context, spec TopicSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}
