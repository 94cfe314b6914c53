package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_EnvOverridesBaseline(t *testing.T) {
	baseline := NewProperties(map[string]string{
		"bootstrap.servers": "broker:9092",
		"key.serializer":    "avro",
	})
	environ := map[string]string{
		"KAFKA_BOOTSTRAP_SERVERS":   "localhost:19092",
		"KAFKA_SCHEMA_REGISTRY_URL": "http://localhost:8081",
		"KAFKA_LINGER_MS":           "",       // пустые значения пропускаются
		"TOPIC":                     "orders", // без префикса - не настройка клиента
		"PATH":                      "/usr/bin",
	}

	props := Resolve(baseline, environ, EnvPrefix)

	assert.Equal(t, map[string]string{
		"bootstrap.servers":   "localhost:19092",
		"key.serializer":      "avro",
		"schema.registry.url": "http://localhost:8081",
	}, props.Map())
}

func TestResolve_NoEnvironmentKeepsBaseline(t *testing.T) {
	baseline := Baseline()

	props := Resolve(baseline, nil, EnvPrefix)

	assert.Equal(t, baseline.Map(), props.Map())
}

func TestResolve_DoesNotMutateBaseline(t *testing.T) {
	baseline := Baseline()

	_ = Resolve(baseline, map[string]string{"KAFKA_BOOTSTRAP_SERVERS": "other:9092"}, EnvPrefix)

	assert.Equal(t, "broker:9092", baseline.Get(PropBootstrapServers))
}

func TestResolve_KeysAreBaselineUnionTransformedEnv(t *testing.T) {
	cases := []struct {
		name    string
		prefix  string
		environ map[string]string
		want    []string
	}{
		{
			name:    "custom prefix",
			prefix:  "SEED_",
			environ: map[string]string{"SEED_CLIENT_ID": "seeder", "KAFKA_ACKS": "1"},
			want:    []string{"bootstrap.servers", "client.id", "key.serializer", "schema.registry.url", "value.serializer"},
		},
		{
			name:    "only empty values",
			prefix:  EnvPrefix,
			environ: map[string]string{"KAFKA_ACKS": "", "KAFKA_CLIENT_ID": ""},
			want:    []string{"bootstrap.servers", "key.serializer", "schema.registry.url", "value.serializer"},
		},
		{
			name:    "override existing key",
			prefix:  EnvPrefix,
			environ: map[string]string{"KAFKA_KEY_SERIALIZER": "json"},
			want:    []string{"bootstrap.servers", "key.serializer", "schema.registry.url", "value.serializer"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			props := Resolve(Baseline(), c.environ, c.prefix)
			assert.Equal(t, c.want, props.Keys())
		})
	}
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "bootstrap.servers", PropertyName("KAFKA_BOOTSTRAP_SERVERS", EnvPrefix))
	assert.Equal(t, "sasl.jaas.config", PropertyName("KAFKA_SASL_JAAS_CONFIG", EnvPrefix))
	assert.Equal(t, "acks", PropertyName("KAFKA_ACKS", EnvPrefix))
}

func TestProperties_Redacted(t *testing.T) {
	props := NewProperties(map[string]string{
		PropSASLPassword:      "secret",
		PropRegistryBasicAuth: "user:pass",
		PropClientID:          "seeder",
	})

	red := props.Redacted()

	assert.Equal(t, "******", red[PropSASLPassword])
	assert.Equal(t, "******", red[PropRegistryBasicAuth])
	assert.Equal(t, "seeder", red[PropClientID])
	assert.Equal(t, "secret", props.Get(PropSASLPassword))
}
