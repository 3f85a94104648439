package ports

import (
	"context"
	"io"
)

// EventPublisher publica eventos de dominio (solicitud creada, estado cambiado, ...).
// Es best-effort: las implementaciones registran los fallos y nunca bloquean el flujo principal.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]interface{})
}

// ObjectInfo metadatos de un objeto almacenado.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// FileStorage puerto de salida para el almacenamiento de archivos (entregables, adjuntos).
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// Mailer puerto de salida para el envío de correos de texto plano.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// NopPublisher descarta los eventos (Kafka no configurado, tests).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, string, map[string]interface{}) {}
