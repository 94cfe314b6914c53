package codec

import (
	"fmt"
	"strings"

	"github.com/riferrei/srclient"
)

// Registry регистрирует схему под субъектом и возвращает её id
type Registry interface {
	Register(subject, schema string) (int, error)
}

// SchemaRegistry реализует Registry поверх Confluent Schema Registry
type SchemaRegistry struct {
	client *srclient.SchemaRegistryClient
}

// NewSchemaRegistry создаёт клиент schema registry.
// userInfo в формате "user:password" (basic.auth.user.info), пустая строка - без авторизации.
func NewSchemaRegistry(url, userInfo string) *SchemaRegistry {
	client := srclient.CreateSchemaRegistryClient(url)
	if userInfo != "" {
		user, password, _ := strings.Cut(userInfo, ":")
		client.SetCredentials(user, password)
	}
	return &SchemaRegistry{client: client}
}

// Register регистрирует Avro-схему (повторная регистрация той же схемы возвращает тот же id)
func (r *SchemaRegistry) Register(subject, schema string) (int, error) {
	s, err := r.client.CreateSchema(subject, schema, srclient.Avro)
	if err != nil {
		return 0, fmt.Errorf("schema registry: %w", err)
	}
	return s.ID(), nil
}
