package entity

import "time"

// Deliverable archivo entregado sobre una ServiceRequest. Solo se agrega; el borrado es del back-office.
type Deliverable struct {
	ID          string
	RequestID   string
	Name        string
	Description string
	FileKey     string // clave del objeto en el almacenamiento
	FileName    string
	ContentType string
	Size        int64
	UploadedBy  string
	UploadedAt  time.Time

	// Campos de lectura (JOIN).
	RequestTitle       string
	UploadedByUsername string
}
