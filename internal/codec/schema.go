package codec

import "github.com/danielpetisme/kafka-docker-playground/internal/service"

// KeySchema Avro-схема ключа
const KeySchema = `{
  "type": "record",
  "name": "MyKey",
  "namespace": "com.github.vdesabou",
  "fields": [
    {"name": "KEY", "type": "long"}
  ]
}`

// ValueSchema Avro-схема значения
const ValueSchema = `{
  "type": "record",
  "name": "Customer",
  "namespace": "com.github.vdesabou",
  "fields": [
    {"name": "count", "type": "long"},
    {"name": "first_name", "type": "string"},
    {"name": "last_name", "type": "string"},
    {"name": "address", "type": "string"}
  ]
}`

// KeyNative представление ключа в виде, понятном goavro
func KeyNative(k service.RecordKey) map[string]interface{} {
	return map[string]interface{}{
		"KEY": k.ID,
	}
}

// ValueNative представление значения в виде, понятном goavro
func ValueNative(v service.RecordValue) map[string]interface{} {
	return map[string]interface{}{
		"count":      v.Count,
		"first_name": v.FirstName,
		"last_name":  v.LastName,
		"address":    v.Address,
	}
}
