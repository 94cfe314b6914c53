// Package codec кодирует записи в байты ключа и значения Kafka-сообщения.
package codec

import (
	"fmt"
	"strings"

	platformkafka "github.com/danielpetisme/kafka-docker-playground/platform/kafka"

	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// Format формат сериализации части записи
type Format string

const (
	FormatAvro Format = "avro"
	FormatJSON Format = "json"
)

// Encoder кодирует одну часть записи (ключ или значение).
// subject - имя субъекта в schema registry (<topic>-key / <topic>-value).
type Encoder interface {
	Encode(subject string, native map[string]interface{}) ([]byte, error)
	ContentType() string
}

// Serializer кодирует service.Record в пару key/value
type Serializer struct {
	key   Encoder
	value Encoder
}

// NewSerializer создаёт Serializer из кодировщиков ключа и значения
func NewSerializer(key, value Encoder) *Serializer {
	return &Serializer{key: key, value: value}
}

// New создаёт Serializer по настройкам key.serializer / value.serializer.
// Для avro нужен schema.registry.url.
func New(props platformkafka.Properties) (*Serializer, error) {
	const op = "codec.New"

	keyFormat, err := ParseFormat(props.Get(platformkafka.PropKeySerializer))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, platformkafka.PropKeySerializer, err)
	}
	valueFormat, err := ParseFormat(props.Get(platformkafka.PropValueSerializer))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, platformkafka.PropValueSerializer, err)
	}

	var registry Registry
	if keyFormat == FormatAvro || valueFormat == FormatAvro {
		url := props.Get(platformkafka.PropSchemaRegistryURL)
		if url == "" {
			return nil, fmt.Errorf("%s: %s is required for avro", op, platformkafka.PropSchemaRegistryURL)
		}
		registry = NewSchemaRegistry(url, props.Get(platformkafka.PropRegistryBasicAuth))
	}

	key, err := newEncoder(keyFormat, KeySchema, registry)
	if err != nil {
		return nil, fmt.Errorf("%s: key: %w", op, err)
	}
	value, err := newEncoder(valueFormat, ValueSchema, registry)
	if err != nil {
		return nil, fmt.Errorf("%s: value: %w", op, err)
	}
	return NewSerializer(key, value), nil
}

// ParseFormat понимает короткие имена (avro, json) и имена Java-классов сериализаторов
func ParseFormat(v string) (Format, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch {
	case s == "avro" || strings.Contains(s, "avro"):
		return FormatAvro, nil
	case s == "json" || strings.Contains(s, "json"):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported serializer %q (must be avro or json)", v)
	}
}

func newEncoder(f Format, schema string, registry Registry) (Encoder, error) {
	switch f {
	case FormatAvro:
		return NewAvroEncoder(schema, registry)
	case FormatJSON:
		return JSONEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Serialize кодирует ключ и значение записи для топика topic
func (s *Serializer) Serialize(topic string, rec service.Record) (key, value []byte, err error) {
	key, err = s.key.Encode(topic+"-key", KeyNative(rec.Key))
	if err != nil {
		return nil, nil, fmt.Errorf("encode key %d: %w", rec.Key.ID, err)
	}
	value, err = s.value.Encode(topic+"-value", ValueNative(rec.Value))
	if err != nil {
		return nil, nil, fmt.Errorf("encode value %d: %w", rec.Key.ID, err)
	}
	return key, value, nil
}

// ContentType content-type значения записи
func (s *Serializer) ContentType() string {
	return s.value.ContentType()
}
