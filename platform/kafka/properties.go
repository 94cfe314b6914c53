package kafka

import (
	"sort"
	"strings"
)

// EnvPrefix - префикс переменных окружения, которые превращаются в настройки Kafka-клиента.
// KAFKA_BOOTSTRAP_SERVERS → bootstrap.servers, KAFKA_SASL_MECHANISM → sasl.mechanism и т.д.
const EnvPrefix = "KAFKA_"

// Имена настроек, которые понимает клиент (нотация Kafka/librdkafka)
const (
	PropBootstrapServers  = "bootstrap.servers"
	PropClientID          = "client.id"
	PropAcks              = "acks"
	PropCompressionType   = "compression.type"
	PropLingerMs          = "linger.ms"
	PropBatchSize         = "batch.size"
	PropBatchNumMessages  = "batch.num.messages"
	PropRequestTimeoutMs  = "request.timeout.ms"
	PropRetries           = "retries"
	PropSecurityProtocol  = "security.protocol"
	PropSASLMechanism     = "sasl.mechanism"
	PropSASLUsername      = "sasl.username"
	PropSASLPassword      = "sasl.password"
	PropSASLJAASConfig    = "sasl.jaas.config"
	PropSSLCALocation     = "ssl.ca.location"
	PropSSLCertLocation   = "ssl.certificate.location"
	PropSSLKeyLocation    = "ssl.key.location"
	PropSSLEndpointIDAlgo = "ssl.endpoint.identification.algorithm"
	PropKeySerializer     = "key.serializer"
	PropValueSerializer   = "value.serializer"
	PropSchemaRegistryURL = "schema.registry.url"
	PropRegistryBasicAuth = "basic.auth.user.info"
	PropSSLKeyPassword    = "ssl.key.password"
)

// secretProps не выводятся в лог в открытом виде
var secretProps = map[string]bool{
	PropSASLPassword:      true,
	PropSASLJAASConfig:    true,
	PropRegistryBasicAuth: true,
	PropSSLKeyPassword:    true,
}

// Properties - неизменяемый набор настроек Kafka-клиента.
// Значение создаётся один раз при старте и передаётся по значению.
type Properties struct {
	m map[string]string
}

// NewProperties создаёт Properties из копии переданного map
func NewProperties(m map[string]string) Properties {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Properties{m: cp}
}

// Baseline возвращает базовые настройки, поверх которых накладываются переменные окружения
func Baseline() Properties {
	return NewProperties(map[string]string{
		PropBootstrapServers:  "broker:9092",
		PropKeySerializer:     "avro",
		PropValueSerializer:   "avro",
		PropSchemaRegistryURL: "http://schema-registry:8081",
	})
}

// Resolve накладывает переменные окружения с префиксом prefix на baseline.
// Пустые значения пропускаются, имя переменной преобразуется через PropertyName.
// Переменные окружения всегда побеждают baseline.
func Resolve(baseline Properties, environ map[string]string, prefix string) Properties {
	merged := baseline.Map()

	// сортируем имена, чтобы KAFKA_A_B и KAFKA_A.B давали детерминированный результат
	names := make([]string, 0, len(environ))
	for name, value := range environ {
		if strings.HasPrefix(name, prefix) && value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		merged[PropertyName(name, prefix)] = environ[name]
	}
	return Properties{m: merged}
}

// PropertyName превращает имя переменной окружения в имя настройки:
// убирает префикс, приводит к нижнему регистру и заменяет "_" на ".".
func PropertyName(envName, prefix string) string {
	name := strings.TrimPrefix(envName, prefix)
	return strings.ReplaceAll(strings.ToLower(name), "_", ".")
}

// Get возвращает значение настройки или пустую строку
func (p Properties) Get(key string) string {
	return p.m[key]
}

// Lookup возвращает значение настройки и признак её наличия
func (p Properties) Lookup(key string) (string, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Keys возвращает отсортированный список имён настроек
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map возвращает копию настроек
func (p Properties) Map() map[string]string {
	cp := make(map[string]string, len(p.m))
	for k, v := range p.m {
		cp[k] = v
	}
	return cp
}

// Redacted возвращает копию настроек, пригодную для логирования (секреты замаскированы)
func (p Properties) Redacted() map[string]string {
	out := p.Map()
	for k := range out {
		if secretProps[k] {
			out[k] = "******"
		}
	}
	return out
}
