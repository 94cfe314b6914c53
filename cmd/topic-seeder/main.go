// Package main - topic-seeder: создаёт 25 топиков <TOPIC>0..<TOPIC>24
// и заполняет их синтетическими записями Customer.
//
// Настройки Kafka-клиента берутся из переменных KAFKA_* (KAFKA_BOOTSTRAP_SERVERS → bootstrap.servers),
// параметры топиков - из TOPIC, NUMBER_OF_PARTITIONS, REPLICATION_FACTOR.
package main

import (
	"fmt"
	"os"

	"github.com/danielpetisme/kafka-docker-playground/internal/app"
	"github.com/danielpetisme/kafka-docker-playground/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Создаём и настраиваем приложение через DI container
	application, err := app.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build app: %v\n", err)
		os.Exit(1)
	}

	// Запускаем provisioning и публикацию; ошибка уже залогирована
	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
