package observability

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// HeaderCarrier адаптирует заголовки kafka.Message к propagation.TextMapCarrier
type HeaderCarrier struct {
	headers *[]kafka.Header
}

// NewHeaderCarrier создаёт carrier поверх среза заголовков сообщения
func NewHeaderCarrier(headers *[]kafka.Header) HeaderCarrier {
	return HeaderCarrier{headers: headers}
}

// Get возвращает значение по ключу
func (c HeaderCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set устанавливает пару key-value (существующий заголовок перезаписывается)
func (c HeaderCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

// Keys возвращает все ключи заголовков
func (c HeaderCarrier) Keys() []string {
	out := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		out = append(out, h.Key)
	}
	return out
}

// InjectHeaders добавляет в заголовки trace context из ctx (traceparent/tracestate/baggage)
func InjectHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	otel.GetTextMapPropagator().Inject(ctx, NewHeaderCarrier(&headers))
	return headers
}
