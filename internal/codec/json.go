package codec

import "encoding/json"

// JSONEncoder кодирует часть записи в JSON без schema registry
type JSONEncoder struct{}

// Encode кодирует native в JSON
func (JSONEncoder) Encode(_ string, native map[string]interface{}) ([]byte, error) {
	return json.Marshal(native)
}

// ContentType content-type JSON-записей
func (JSONEncoder) ContentType() string {
	return "application/json"
}
