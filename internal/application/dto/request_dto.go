package dto

import "time"

// CreateServiceRequest entrada de create_request. Priority vacío = medium.
// Deadline acepta RFC3339 o "2006-01-02T15:04" (input datetime-local).
type CreateServiceRequest struct {
	ServiceID   string `json:"service_id" form:"service_id" validate:"required"`
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
	Priority    string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Deadline    string `json:"deadline" form:"deadline"`
}

// TransitionRequest entrada de transition_status. Campos vacíos = sin cambio.
// Unassign=true quita el responsable y ClearDeadline=true la fecha límite.
// Priority y Deadline son ediciones de presentación del staff.
type TransitionRequest struct {
	Status        string `json:"status" form:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	AssignedTo    string `json:"assigned_to" form:"assigned_to"`
	Unassign      bool   `json:"unassign" form:"unassign"`
	Priority      string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Deadline      string `json:"deadline" form:"deadline" validate:"excluded_with=ClearDeadline"`
	ClearDeadline bool   `json:"clear_deadline" form:"clear_deadline"`
}

// RequestListQuery filtros de list_all.
type RequestListQuery struct {
	Status     string `query:"status"`
	Search     string `query:"search"`
	ServiceID  string `query:"service_id"`
	AssignedTo string `query:"assigned_to"`
	PageRequest
}

// ServiceRequestResponse salida de una solicitud de servicio.
type ServiceRequestResponse struct {
	ID               string     `json:"id"`
	ServiceID        string     `json:"service_id"`
	ServiceName      string     `json:"service_name"`
	ClientID         string     `json:"client_id"`
	ClientUsername   string     `json:"client"`
	AssignedTo       *string    `json:"assigned_to"`
	AssigneeUsername string     `json:"assignee,omitempty"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	StatusLabel      string     `json:"status_label"`
	Priority         string     `json:"priority"`
	PriorityLabel    string     `json:"priority_label"`
	Deadline         *time.Time `json:"deadline"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ServiceRequestListResponse listado paginado de solicitudes.
type ServiceRequestListResponse struct {
	Items []ServiceRequestResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// RequestDetailResponse solicitud con sus entregables.
type RequestDetailResponse struct {
	Request      ServiceRequestResponse `json:"request"`
	Deliverables []DeliverableResponse  `json:"deliverables"`
}

// UploadDeliverableInput metadatos del archivo subido (el contenido va aparte como io.Reader).
type UploadDeliverableInput struct {
	Name        string `form:"name" validate:"max=200"`
	Description string `form:"description"`
	FileName    string `validate:"required"`
	ContentType string
	Size        int64 `validate:"gt=0"`
}

// DeliverableResponse salida de un entregable.
type DeliverableResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	Request     string    `json:"request"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DeliverableListResponse listado paginado de entregables.
type DeliverableListResponse struct {
	Items []DeliverableResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
