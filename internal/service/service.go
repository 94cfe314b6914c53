package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TopicSettings параметры семейства топиков
type TopicSettings struct {
	BaseName          string
	Partitions        int
	ReplicationFactor int
}

// Seeder - последовательность provisioning → публикация
type Seeder struct {
	logger      *zap.Logger
	provisioner *Provisioner
	publisher   *Publisher
	topics      TopicSettings
}

// NewSeeder создаёт новый экземпляр Seeder
func NewSeeder(logger *zap.Logger, provisioner *Provisioner, publisher *Publisher, topics TopicSettings) *Seeder {
	return &Seeder{
		logger:      logger,
		provisioner: provisioner,
		publisher:   publisher,
		topics:      topics,
	}
}

// Run создаёт все топики и только после этого публикует в них записи.
// Ошибка provisioning фатальна: публикация не начинается.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	const op = "service.Seeder.Run"

	specs := BuildTopicSpecs(s.topics.BaseName, s.topics.Partitions, s.topics.ReplicationFactor)

	s.logger.Info("provisioning topics",
		zap.String("base", s.topics.BaseName),
		zap.Int("count", len(specs)),
	)
	if err := s.provisioner.ProvisionAll(ctx, specs); err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("publishing records", zap.Int("topics", len(specs)))
	report, err := s.publisher.PublishAll(ctx, specs)
	if err != nil {
		return report, fmt.Errorf("%s: %w", op, err)
	}

	submitted, succeeded, failed := report.Totals()
	s.logger.Info("seeding completed",
		zap.Int64("submitted", submitted),
		zap.Int64("succeeded", succeeded),
		zap.Int64("failed", failed),
	)
	return report, nil
}
