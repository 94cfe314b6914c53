package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/linkedin/goavro/v2"
)

// magicByte первый байт Confluent wire format
const magicByte = 0x00

// AvroEncoder кодирует в Avro binary с префиксом Confluent: 0x00 | schema id (uint32 BE) | payload.
// Схема регистрируется один раз на субъект, id кэшируется.
type AvroEncoder struct {
	codec    *goavro.Codec
	registry Registry

	mu  sync.Mutex
	ids map[string]int
}

// NewAvroEncoder создаёт AvroEncoder для схемы schema
func NewAvroEncoder(schema string, registry Registry) (*AvroEncoder, error) {
	if registry == nil {
		return nil, fmt.Errorf("avro encoder requires a schema registry")
	}
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("parse avro schema: %w", err)
	}
	return &AvroEncoder{
		codec:    codec,
		registry: registry,
		ids:      map[string]int{},
	}, nil
}

// Encode регистрирует схему для subject (если ещё не) и кодирует native
func (e *AvroEncoder) Encode(subject string, native map[string]interface{}) ([]byte, error) {
	id, err := e.schemaID(subject)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 5, 64)
	buf[0] = magicByte
	binary.BigEndian.PutUint32(buf[1:5], uint32(id))

	out, err := e.codec.BinaryFromNative(buf, native)
	if err != nil {
		return nil, fmt.Errorf("avro encode: %w", err)
	}
	return out, nil
}

// ContentType content-type Avro-записей
func (e *AvroEncoder) ContentType() string {
	return "application/vnd.kafka.avro.v2"
}

func (e *AvroEncoder) schemaID(subject string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.ids[subject]; ok {
		return id, nil
	}
	id, err := e.registry.Register(subject, e.codec.Schema())
	if err != nil {
		return 0, fmt.Errorf("register schema %s: %w", subject, err)
	}
	e.ids[subject] = id
	return id, nil
}
