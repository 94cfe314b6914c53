package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	platformkafka "github.com/danielpetisme/kafka-docker-playground/platform/kafka"

	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// clusterClient - часть kafka.Client, которую использует Admin
type clusterClient interface {
	Metadata(ctx context.Context, req *kafka.MetadataRequest) (*kafka.MetadataResponse, error)
	CreateTopics(ctx context.Context, req *kafka.CreateTopicsRequest) (*kafka.CreateTopicsResponse, error)
}

// Admin реализует service.TopicAdmin поверх kafka.Client
type Admin struct {
	logger  *zap.Logger
	client  clusterClient
	timeout time.Duration
}

// NewAdmin создаёт admin-клиент; каждый запрос ограничен timeout
func NewAdmin(logger *zap.Logger, settings platformkafka.ClientSettings, transport kafka.RoundTripper, timeout time.Duration) *Admin {
	client := &kafka.Client{
		Addr:      kafka.TCP(settings.Brokers...),
		Timeout:   timeout,
		Transport: transport,
	}
	return newAdmin(logger, client, timeout)
}

func newAdmin(logger *zap.Logger, client clusterClient, timeout time.Duration) *Admin {
	return &Admin{
		logger:  logger,
		client:  client,
		timeout: timeout,
	}
}

// ListTopics возвращает имена всех топиков кластера
func (a *Admin) ListTopics(ctx context.Context) ([]string, error) {
	const op = "kafka.Admin.ListTopics"

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(resp.Topics))
	for _, t := range resp.Topics {
		if t.Error != nil {
			a.logger.Warn("topic metadata error",
				zap.String("topic", t.Name),
				zap.Error(t.Error),
			)
		}
		names = append(names, t.Name)
	}
	return names, nil
}

// CreateTopic создаёт топик и ждёт ответа контроллера.
// TOPIC_ALREADY_EXISTS возвращается как service.ErrTopicAlreadyExists.
func (a *Admin) CreateTopic(ctx context.Context, spec service.TopicSpec) error {
	const op = "kafka.Admin.CreateTopic"

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	entries := make([]kafka.ConfigEntry, 0, len(spec.ExtraConfig))
	for name, value := range spec.ExtraConfig {
		entries = append(entries, kafka.ConfigEntry{ConfigName: name, ConfigValue: value})
	}

	resp, err := a.client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{
			Topic:             spec.Name,
			NumPartitions:     spec.Partitions,
			ReplicationFactor: spec.ReplicationFactor,
			ConfigEntries:     entries,
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if terr := resp.Errors[spec.Name]; terr != nil {
		if errors.Is(terr, kafka.TopicAlreadyExists) {
			return fmt.Errorf("%s: %s: %w", op, spec.Name, service.ErrTopicAlreadyExists)
		}
		return fmt.Errorf("%s: %s (partitions=%d, replication_factor=%d): %w",
			op, spec.Name, spec.Partitions, spec.ReplicationFactor, terr)
	}
	return nil
}
