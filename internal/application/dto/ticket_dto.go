package dto

import "time"

// OpenTicketRequest entrada de open_ticket.
type OpenTicketRequest struct {
	Subject     string `json:"subject" form:"subject" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
	Priority    string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// PostMessageRequest entrada de post_message.
type PostMessageRequest struct {
	Message string `json:"message" form:"message" validate:"required"`
}

// TicketTransitionRequest cambio de estado/asignación de un ticket (staff).
type TicketTransitionRequest struct {
	Status     string `json:"status" form:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	Unassign   bool   `json:"unassign" form:"unassign"`
}

// TicketListQuery filtros del listado de tickets.
type TicketListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	PageRequest
}

// TicketResponse salida de un ticket.
type TicketResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Username         string     `json:"user"`
	AssignedTo       *string    `json:"assigned_to"`
	AssigneeUsername string     `json:"assignee,omitempty"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	StatusLabel      string     `json:"status_label"`
	Priority         string     `json:"priority"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TicketMessageResponse salida de un mensaje del hilo.
type TicketMessageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"user"`
	IsStaff   bool      `json:"is_staff"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDetailResponse ticket con su hilo ordenado.
type TicketDetailResponse struct {
	Ticket   TicketResponse          `json:"ticket"`
	Messages []TicketMessageResponse `json:"messages"`
}

// TicketListResponse listado paginado de tickets.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
