package entity

import "time"

// TicketStatus estado de un SupportTicket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// TicketStatuses en orden de flujo.
var TicketStatuses = []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

// Valid indica si s es un estado conocido.
func (s TicketStatus) Valid() bool {
	for _, x := range TicketStatuses {
		if s == x {
			return true
		}
	}
	return false
}

// Label nombre visible del estado.
func (s TicketStatus) Label() string {
	switch s {
	case TicketOpen:
		return "Ouvert"
	case TicketInProgress:
		return "En cours"
	case TicketResolved:
		return "Résolu"
	case TicketClosed:
		return "Fermé"
	}
	return string(s)
}

// SupportTicket ticket de soporte abierto por cualquier usuario autenticado.
// ResolvedAt se fija una sola vez, en la primera transición a resolved.
type SupportTicket struct {
	ID          string
	UserID      string
	AssignedTo  *string
	Subject     string
	Description string
	Status      TicketStatus
	Priority    Priority
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Campos de lectura (JOIN).
	Username         string
	AssigneeUsername string
}

// SetStatus cambia el estado y estampa ResolvedAt la primera vez que se resuelve.
// Devuelve true si el estado cambió.
func (t *SupportTicket) SetStatus(s TicketStatus, now time.Time) bool {
	changed := t.Status != s
	t.Status = s
	if s == TicketResolved && t.ResolvedAt == nil {
		ts := now
		t.ResolvedAt = &ts
	}
	return changed
}

// IsAssignedTo indica si userID es el responsable actual.
func (t *SupportTicket) IsAssignedTo(userID string) bool {
	return t != nil && t.AssignedTo != nil && userID != "" && *t.AssignedTo == userID
}

// TicketMessage mensaje del hilo de un ticket, ordenado por CreatedAt ascendente.
type TicketMessage struct {
	ID         string
	TicketID   string
	UserID     string
	Message    string
	Attachment string // clave de objeto opcional
	CreatedAt  time.Time

	Username string
	UserRole Role
}
