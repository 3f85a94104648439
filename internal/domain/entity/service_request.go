package entity

import "time"

// RequestStatus estado de una ServiceRequest.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// RequestStatuses en orden de flujo.
var RequestStatuses = []RequestStatus{RequestPending, RequestInProgress, RequestCompleted, RequestCancelled}

// Valid indica si s es un estado conocido.
func (s RequestStatus) Valid() bool {
	for _, x := range RequestStatuses {
		if s == x {
			return true
		}
	}
	return false
}

// Label nombre visible del estado.
func (s RequestStatus) Label() string {
	switch s {
	case RequestPending:
		return "En attente"
	case RequestInProgress:
		return "En cours"
	case RequestCompleted:
		return "Terminé"
	case RequestCancelled:
		return "Annulé"
	}
	return string(s)
}

// Priority prioridad compartida por solicitudes y tickets.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities de menor a mayor.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid indica si p es una prioridad conocida.
func (p Priority) Valid() bool {
	for _, x := range Priorities {
		if p == x {
			return true
		}
	}
	return false
}

// Label nombre visible de la prioridad.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Basse"
	case PriorityMedium:
		return "Moyenne"
	case PriorityHigh:
		return "Haute"
	case PriorityUrgent:
		return "Urgente"
	}
	return string(p)
}

// ServiceRequest solicitud de un cliente sobre un Service.
// CompletedAt se fija una sola vez, la primera vez que Status pasa a completed.
type ServiceRequest struct {
	ID          string
	ServiceID   string
	ClientID    string
	AssignedTo  *string
	Title       string
	Description string
	Status      RequestStatus
	Priority    Priority
	Deadline    *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Campos de lectura (JOIN), vacíos en escrituras.
	ServiceName      string
	ClientUsername   string
	AssigneeUsername string
}

// SetStatus cambia el estado y estampa CompletedAt la primera vez que se completa.
// Devuelve true si el estado cambió.
func (r *ServiceRequest) SetStatus(s RequestStatus, now time.Time) bool {
	changed := r.Status != s
	r.Status = s
	if s == RequestCompleted && r.CompletedAt == nil {
		t := now
		r.CompletedAt = &t
	}
	return changed
}

// IsOwnedBy indica si userID es el cliente de la solicitud.
func (r *ServiceRequest) IsOwnedBy(userID string) bool {
	return r != nil && userID != "" && r.ClientID == userID
}
