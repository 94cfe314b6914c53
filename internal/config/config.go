package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"

	platformkafka "github.com/danielpetisme/kafka-docker-playground/platform/kafka"
	"github.com/danielpetisme/kafka-docker-playground/platform/logging"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// ServiceName имя утилиты в логах и трейсах
const ServiceName = "topic-seeder"

// Config содержит конфигурацию topic-seeder
type Config struct {
	AppEnv          Env           `env:"APP_ENV" envDefault:"local"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AdminTimeout    time.Duration `env:"ADMIN_TIMEOUT" envDefault:"30s"`

	// Топики
	Topic             string `env:"TOPIC" envDefault:"sample"`
	Partitions        int    `env:"NUMBER_OF_PARTITIONS" envDefault:"2"`
	ReplicationFactor int    `env:"REPLICATION_FACTOR" envDefault:"3"`

	// Задержка между записями в миллисекундах, применяется только при MESSAGE_THROTTLE=true
	MessageBackoffMs int  `env:"MESSAGE_BACKOFF" envDefault:"100"`
	MessageThrottle  bool `env:"MESSAGE_THROTTLE" envDefault:"false"`

	// Генератор данных: 0 - случайный seed
	FakerSeed uint64 `env:"FAKER_SEED" envDefault:"0"`

	// Логирование
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	// OpenTelemetry
	OTelEnabled       bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint      string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`

	// Kafka: настройки клиента из KAFKA_* поверх baseline
	Kafka platformkafka.Properties `env:"-"`
}

// Load загружает конфигурацию из переменных окружения процесса
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom загружает конфигурацию из переданного окружения
func LoadFrom(environ map[string]string) (Config, error) {
	const op = "config.LoadFrom"

	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg.Kafka = platformkafka.Resolve(platformkafka.Baseline(), environ, platformkafka.EnvPrefix)

	// Формат логов по умолчанию зависит от окружения
	if cfg.LogFormat == "" {
		if cfg.AppEnv == EnvDocker {
			cfg.LogFormat = "json"
		} else {
			cfg.LogFormat = "console"
		}
	}

	// OTLP collector по умолчанию тоже зависит от окружения
	if cfg.OTelEndpoint == "" {
		if cfg.AppEnv == EnvDocker {
			cfg.OTelEndpoint = "otel-collector:4317"
		} else {
			cfg.OTelEndpoint = "127.0.0.1:4317"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.AppEnv != EnvLocal && c.AppEnv != EnvDocker {
		return fmt.Errorf("invalid APP_ENV: %s (must be 'local' or 'docker')", c.AppEnv)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.AdminTimeout <= 0 {
		return fmt.Errorf("ADMIN_TIMEOUT must be positive")
	}
	if c.Topic == "" {
		return fmt.Errorf("TOPIC is required")
	}
	if c.Partitions < 1 {
		return fmt.Errorf("NUMBER_OF_PARTITIONS must be >= 1")
	}
	if c.ReplicationFactor < 1 {
		return fmt.Errorf("REPLICATION_FACTOR must be >= 1")
	}
	if c.MessageBackoffMs < 0 {
		return fmt.Errorf("MESSAGE_BACKOFF must be >= 0")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid LOG_FORMAT: %s (must be 'json' or 'console')", c.LogFormat)
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1]")
	}
	if c.OTelEnabled && c.OTelEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED=true")
	}
	return nil
}

// MessageBackoff возвращает задержку между записями
func (c Config) MessageBackoff() time.Duration {
	return time.Duration(c.MessageBackoffMs) * time.Millisecond
}

// Log выводит конфигурацию (секреты Kafka замаскированы)
func (c Config) Log(logger *zap.Logger) {
	logger.Info("configuration loaded",
		zap.String("app_env", string(c.AppEnv)),
		zap.String("topic", c.Topic),
		zap.Int("partitions", c.Partitions),
		zap.Int("replication_factor", c.ReplicationFactor),
		zap.Duration("message_backoff", c.MessageBackoff()),
		zap.Bool("message_throttle", c.MessageThrottle),
		zap.Duration("admin_timeout", c.AdminTimeout),
		zap.Duration("shutdown_timeout", c.ShutdownTimeout),
		zap.Bool("otel_enabled", c.OTelEnabled),
		zap.Any("kafka", c.Kafka.Redacted()),
	)
}
