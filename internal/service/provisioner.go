package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/danielpetisme/kafka-docker-playground/platform/observability"
)

const tracerName = "topic-seeder/service"

// Provisioner создаёт топики семейства до начала публикации
type Provisioner struct {
	logger *zap.Logger
	admin  TopicAdmin
}

// NewProvisioner создаёт новый экземпляр Provisioner
func NewProvisioner(logger *zap.Logger, admin TopicAdmin) *Provisioner {
	return &Provisioner{
		logger: logger,
		admin:  admin,
	}
}

// EnsureTopic создаёт топик, если его ещё нет.
// Гонка "топик уже существует" не считается ошибкой, любая другая ошибка - *ProvisioningError.
func (p *Provisioner) EnsureTopic(ctx context.Context, spec TopicSpec) error {
	log := observability.L(ctx, p.logger).With(zap.String("topic", spec.Name))

	existing, err := p.admin.ListTopics(ctx)
	if err != nil {
		log.Error("failed to list topics", zap.Error(err))
		return &ProvisioningError{Topic: spec.Name, Err: err}
	}
	for _, name := range existing {
		if name == spec.Name {
			log.Info("topic already exists, skipping")
			return nil
		}
	}

	log.Info("creating topic",
		zap.Int("partitions", spec.Partitions),
		zap.Int("replication_factor", spec.ReplicationFactor),
		zap.Any("config", spec.ExtraConfig),
	)

	if err := p.admin.CreateTopic(ctx, spec); err != nil {
		if errors.Is(err, ErrTopicAlreadyExists) {
			// топик создан кем-то между ListTopics и CreateTopic
			log.Info("topic already exists, ignoring create conflict")
			return nil
		}
		log.Error("failed to create topic", zap.Error(err))
		return &ProvisioningError{Topic: spec.Name, Err: err}
	}

	log.Info("topic created")
	return nil
}

// ProvisionAll последовательно вызывает EnsureTopic для всех specs.
// Первая фатальная ошибка прерывает provisioning.
func (p *Provisioner) ProvisionAll(ctx context.Context, specs []TopicSpec) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "provision topics")
	defer span.End()
	span.SetAttributes(attribute.Int("topics.count", len(specs)))

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.EnsureTopic(ctx, spec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "provisioning failed")
			return err
		}
	}
	return nil
}
