// Package events publica los eventos del flujo de solicitudes y tickets en Kafka.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer usado aquí.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher productor best-effort: los fallos se registran y nunca llegan al llamador.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

// NewKafkaPublisher sin brokers o sin topic devuelve un publicador no-op.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	p := &KafkaPublisher{log: log.Component("events"), now: time.Now}
	if len(brokers) == 0 || topic == "" {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return p
}

// Enabled indica si hay brokers configurados.
func (p *KafkaPublisher) Enabled() bool {
	return p.writer != nil
}

// Publish serializa {"event", "occurred_at", ...payload} como JSON. La clave del mensaje es
// request_id o ticket_id si vienen en el payload, para conservar el orden por entidad.
func (p *KafkaPublisher) Publish(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		msg[k] = v
	}
	msg["event"] = event
	msg["occurred_at"] = p.now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn().Err(err).Str("event", event).Msg("kafka: no se pudo serializar el evento")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: messageKey(payload), Value: body}); err != nil {
		p.log.Warn().Err(err).Str("event", event).Msg("kafka: no se pudo publicar el evento")
	}
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func messageKey(payload map[string]interface{}) []byte {
	for _, k := range []string{"request_id", "ticket_id"} {
		if v, ok := payload[k].(string); ok && v != "" {
			return []byte(v)
		}
	}
	return nil
}

// ParseBrokers "host1:9092, host2:9092" -> slice sin vacíos.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
