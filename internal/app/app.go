package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	platformkafka "github.com/danielpetisme/kafka-docker-playground/platform/kafka"
	platformlogging "github.com/danielpetisme/kafka-docker-playground/platform/logging"
	platformobservability "github.com/danielpetisme/kafka-docker-playground/platform/observability"
	platformshutdown "github.com/danielpetisme/kafka-docker-playground/platform/shutdown"

	"github.com/danielpetisme/kafka-docker-playground/internal/codec"
	"github.com/danielpetisme/kafka-docker-playground/internal/config"
	eventkafka "github.com/danielpetisme/kafka-docker-playground/internal/event/kafka"
	"github.com/danielpetisme/kafka-docker-playground/internal/fake"
	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// App содержит все зависимости для запуска topic-seeder
type App struct {
	logger      *zap.Logger
	seeder      *service.Seeder
	shutdownMgr *platformshutdown.Manager
	runID       string
}

// Build создаёт и настраивает все зависимости topic-seeder.
// Сетевых вызовов здесь нет: некорректные настройки отклоняются до подключения к брокеру.
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: config.ServiceName,
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: logger: %w", op, err)
	}

	cfg.Log(logger)

	// OpenTelemetry: traces (noop если OTEL_ENABLED=false)
	otelShutdown, err := platformobservability.Init(context.Background(), platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           config.ServiceName,
		DeploymentEnvironment: string(cfg.AppEnv),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Создаём shutdown manager: otel регистрируется первым, чтобы закрыться последним
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("otel", otelShutdown)

	// fail освобождает уже созданные ресурсы, если Build не дошёл до конца
	fail := func(err error) (*App, error) {
		if serr := shutdownMgr.Shutdown(); serr != nil {
			logger.Warn("cleanup after failed build", zap.Error(serr))
		}
		return nil, err
	}

	// Настройки kafka-go из KAFKA_* свойств
	settings, err := platformkafka.ParseSettings(cfg.Kafka)
	if err != nil {
		return fail(fmt.Errorf("%s: kafka settings: %w", op, err))
	}
	serializer, err := codec.New(cfg.Kafka)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", op, err))
	}
	transport := platformkafka.NewTransport(settings)

	logger.Info("building topic seeder",
		zap.Strings("brokers", settings.Brokers),
		zap.String("content_type", serializer.ContentType()),
	)

	admin := eventkafka.NewAdmin(logger, settings, transport, cfg.AdminTimeout)
	sessions := eventkafka.NewSessionFactory(logger, settings, transport, serializer)

	var publisherOpts []service.PublisherOption
	if cfg.MessageThrottle {
		publisherOpts = append(publisherOpts, service.WithThrottle(cfg.MessageBackoff()))
	}

	seeder := service.NewSeeder(logger,
		service.NewProvisioner(logger, admin),
		service.NewPublisher(logger, sessions, fake.NewPersonSource(cfg.FakerSeed), publisherOpts...),
		service.TopicSettings{
			BaseName:          cfg.Topic,
			Partitions:        cfg.Partitions,
			ReplicationFactor: cfg.ReplicationFactor,
		},
	)

	shutdownMgr.Add("kafka_transport", func(ctx context.Context) error {
		transport.CloseIdleConnections()
		return nil
	})

	return &App{
		logger:      logger,
		seeder:      seeder,
		shutdownMgr: shutdownMgr,
		runID:       sessions.RunID(),
	}, nil
}

// Run выполняет provisioning и публикацию, затем освобождает ресурсы.
// SIGINT/SIGTERM отменяет контекст: текущая сессия закрывается, новые записи не отправляются.
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	ctx, stop := a.shutdownMgr.NotifyContext(context.Background())
	defer stop()
	// run_id попадает в каждую строку, записанную через observability.L
	ctx = platformobservability.ContextWithRunID(ctx, a.runID)

	a.logger.Info("starting topic seeder", zap.String("run_id", a.runID))
	report, runErr := a.seeder.Run(ctx)

	if err := a.shutdownMgr.Shutdown(); err != nil {
		a.logger.Error("shutdown completed with errors", zap.Error(err))
	}

	if runErr != nil {
		var perr *service.ProvisioningError
		switch {
		case errors.As(runErr, &perr):
			a.logger.Error("topic provisioning failed", zap.String("topic", perr.Topic), zap.Error(perr.Err))
		case errors.Is(runErr, context.Canceled):
			a.logger.Warn("seeding interrupted", zap.Int("topics_started", len(report.Topics)))
		default:
			a.logger.Error("seeding failed", zap.Error(runErr))
		}
		return runErr
	}

	a.logger.Info("topic seeder finished", zap.Int("topics", len(report.Topics)))
	return nil
}
